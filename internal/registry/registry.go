package registry

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rechenraum/internal/model"
)

// Room codes are lowercase and unambiguous (no 0/o/1/l/i). Input is
// normalized, so clients may send any casing.
const (
	codeAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	codeLength   = 6
)

// Registry is the in-memory code→Room map. It owns code generation and
// idle-room expiry; all Room field mutation is serialized by the room
// service, the registry only guards its own maps.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*model.Room
	lastActive map[string]time.Time

	ttl  time.Duration
	done chan struct{}
}

// New creates a registry. With ttl > 0 a janitor goroutine sweeps rooms
// that saw no activity for ttl; Close stops it.
func New(ttl time.Duration) *Registry {
	r := &Registry{
		rooms:      make(map[string]*model.Room),
		lastActive: make(map[string]time.Time),
		ttl:        ttl,
		done:       make(chan struct{}),
	}
	if ttl > 0 {
		go r.sweepLoop()
	}
	return r
}

// Close stops the expiry janitor.
func (r *Registry) Close() {
	close(r.done)
}

// Create allocates a room with a fresh unique code and admin secret id,
// owned by the given connection.
func (r *Registry) Create(adminConnID, displayName string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.generateCode()
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		Code:          code,
		AdminConnID:   adminConnID,
		AdminName:     displayName,
		AdminSecretID: uuid.New().String(),
		Status:        model.RoomWaiting,
		Players:       make(map[string]*model.Player),
		CreatedAt:     time.Now(),
	}
	r.rooms[code] = room
	r.lastActive[code] = room.CreatedAt
	return room, nil
}

// Get looks a room up by code, case-insensitively.
func (r *Registry) Get(code string) (*model.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[Normalize(code)]
	return room, ok
}

// Exists reports whether a room with the code is live.
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[Normalize(code)]
	return ok
}

// StatusOf probes a room's status without mutating anything.
func (r *Registry) StatusOf(code string) (model.RoomStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[Normalize(code)]
	if !ok {
		return "", false
	}
	return room.Status, true
}

// Remove deletes a room. Idempotent.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = Normalize(code)
	delete(r.rooms, code)
	delete(r.lastActive, code)
}

// Touch marks a room as active, deferring expiry.
func (r *Registry) Touch(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code = Normalize(code)
	if _, ok := r.rooms[code]; ok {
		r.lastActive[code] = time.Now()
	}
}

// Rooms returns a point-in-time list of all live rooms.
func (r *Registry) Rooms() []*model.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Normalize maps a client-supplied code to its canonical (lowercase) form.
func Normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// generateCode draws random codes until one is unused. Caller holds the
// write lock.
func (r *Registry) generateCode() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLength)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
		}
		codeStr := string(code)

		if _, exists := r.rooms[codeStr]; !exists {
			return codeStr, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}

func (r *Registry) sweepLoop() {
	ticker := time.NewTicker(sweepInterval(r.ttl))
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-r.ttl)
	for code, last := range r.lastActive {
		if last.Before(cutoff) {
			delete(r.rooms, code)
			delete(r.lastActive, code)
		}
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Minute {
		return time.Minute
	}
	if interval < 10*time.Millisecond {
		return 10 * time.Millisecond
	}
	return interval
}
