package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rechenraum/internal/model"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("secret-a")

	token, err := svc.IssueAdminToken("abc123", "secret-id-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.RoomCode)
	assert.Equal(t, "secret-id-1", claims.SecretID)
}

func TestAdminTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("secret-a")

	_, err := svc.ValidateAdminToken("not-a-token")
	assert.ErrorIs(t, err, model.ErrInvalidAdminToken)
}

func TestAdminTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService("secret-a")
	verifier := NewAuthService("secret-b")

	token, err := issuer.IssueAdminToken("abc123", "secret-id-1")
	require.NoError(t, err)

	_, err = verifier.ValidateAdminToken(token)
	assert.ErrorIs(t, err, model.ErrInvalidAdminToken)
}
