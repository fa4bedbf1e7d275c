package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rechenraum/internal/model"
)

// AuthService issues and validates admin tokens. A token is the room's
// admin secret in transit: it binds the room code to a per-room random
// secret id, so a token for one room can never reclaim another.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service.
func NewAuthService(secret string) *AuthService {
	return &AuthService{jwtSecret: []byte(secret)}
}

// AdminClaims are the claims carried by an admin token.
type AdminClaims struct {
	RoomCode string `json:"roomCode"`
	SecretID string `json:"secretId"`
	jwt.RegisteredClaims
}

// IssueAdminToken creates the admin token handed out once at room
// creation. No expiry: the room's lifetime bounds its usefulness.
func (s *AuthService) IssueAdminToken(roomCode, secretID string) (string, error) {
	claims := &AdminClaims{
		RoomCode: roomCode,
		SecretID: secretID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateAdminToken parses and verifies an admin token.
func (s *AuthService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, model.ErrInvalidAdminToken
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, model.ErrInvalidAdminToken
	}

	return claims, nil
}
