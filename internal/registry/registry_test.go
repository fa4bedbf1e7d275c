package registry

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rechenraum/internal/model"
)

func TestCreateGeneratesValidCode(t *testing.T) {
	reg := New(0)

	room, err := reg.Create("conn-1", "MathClass")
	require.NoError(t, err)

	assert.Len(t, room.Code, 6)
	for _, c := range room.Code {
		assert.Contains(t, codeAlphabet, string(c))
	}
	assert.Equal(t, "conn-1", room.AdminConnID)
	assert.Equal(t, "MathClass", room.AdminName)
	assert.NotEmpty(t, room.AdminSecretID)
	assert.Equal(t, model.RoomWaiting, room.Status)
	assert.Empty(t, room.Players)
}

func TestCodesAreUnique(t *testing.T) {
	reg := New(0)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room, err := reg.Create("conn", "r")
		require.NoError(t, err)
		assert.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	reg := New(0)
	room, err := reg.Create("conn-1", "r")
	require.NoError(t, err)

	upper := strings.ToUpper(room.Code)

	got, ok := reg.Get(upper)
	require.True(t, ok)
	assert.Same(t, room, got)

	assert.True(t, reg.Exists(upper))

	status, ok := reg.StatusOf(upper)
	require.True(t, ok)
	assert.Equal(t, model.RoomWaiting, status)
}

func TestGetUnknownCode(t *testing.T) {
	reg := New(0)

	_, ok := reg.Get("nope42")
	assert.False(t, ok)
	assert.False(t, reg.Exists("nope42"))

	_, ok = reg.StatusOf("nope42")
	assert.False(t, ok)
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := New(0)
	room, err := reg.Create("conn-1", "r")
	require.NoError(t, err)

	reg.Remove(room.Code)
	assert.False(t, reg.Exists(room.Code))

	// Second remove must not panic or affect anything.
	reg.Remove(room.Code)
	assert.Equal(t, 0, reg.Len())
}

func TestIdleRoomsExpire(t *testing.T) {
	reg := New(40 * time.Millisecond)
	defer reg.Close()

	stale, err := reg.Create("conn-1", "stale")
	require.NoError(t, err)
	active, err := reg.Create("conn-2", "active")
	require.NoError(t, err)

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		reg.Touch(active.Code)
		if !reg.Exists(stale.Code) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	assert.False(t, reg.Exists(stale.Code), "idle room should have been swept")
	assert.True(t, reg.Exists(active.Code), "touched room must survive")
}

func TestConcurrentCreate(t *testing.T) {
	reg := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Create("conn", "r")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, reg.Len())
}
