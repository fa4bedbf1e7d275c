package service

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"rechenraum/internal/model"
	"rechenraum/internal/registry"
)

// RoomService is the session protocol state machine. Every protocol
// event runs to completion under one lock, so rooms are never mutated
// concurrently; the grace timer re-enters through the same lock.
type RoomService struct {
	mu       sync.Mutex
	registry *registry.Registry
	authSvc  *AuthService

	broadcaster Broadcaster

	gracePeriod time.Duration
	graceTimers map[string]*time.Timer
}

// NewRoomService creates a new room service.
func NewRoomService(reg *registry.Registry, authSvc *AuthService, gracePeriod time.Duration) *RoomService {
	return &RoomService{
		registry:    reg,
		authSvc:     authSvc,
		gracePeriod: gracePeriod,
		graceTimers: make(map[string]*time.Timer),
	}
}

// SetBroadcaster injects the WebSocket hub.
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom creates a room owned by the calling connection and returns
// the code plus the one-time admin token.
func (s *RoomService) CreateRoom(connID, displayName string) (*model.RoomCreated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.registry.Create(connID, displayName)
	if err != nil {
		return nil, err
	}

	token, err := s.authSvc.IssueAdminToken(room.Code, room.AdminSecretID)
	if err != nil {
		s.registry.Remove(room.Code)
		return nil, err
	}

	log.Printf("Room %s created by %s", room.Code, connID)
	s.subscribeLocked(room.Code, connID)
	s.broadcastStateLocked(room)

	return &model.RoomCreated{
		RoomID:     room.Code,
		IsAdmin:    true,
		AdminName:  room.AdminName,
		AdminToken: token,
	}, nil
}

// JoinRoom adds the calling connection as a player. Only waiting rooms
// accept players.
func (s *RoomService) JoinRoom(connID, code, username string) (*model.RoomJoined, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	if room.Status != model.RoomWaiting {
		return nil, model.ErrGameInProgress
	}

	// A connection is either the admin or a player, never both.
	if connID != room.AdminConnID {
		room.Players[connID] = &model.Player{
			ConnID:   connID,
			Username: username,
			JoinedAt: time.Now(),
		}
	}

	log.Printf("Player %s (%s) joined room %s", username, connID, room.Code)
	s.subscribeLocked(room.Code, connID)
	s.touchLocked(room)
	s.broadcastStateLocked(room)

	return &model.RoomJoined{RoomID: room.Code, IsAdmin: false}, nil
}

// CheckRoom probes existence and status without joining.
func (s *RoomService) CheckRoom(code string) *model.RoomCheckResult {
	normalized := registry.Normalize(code)
	status, ok := s.registry.StatusOf(normalized)
	if !ok {
		return &model.RoomCheckResult{RoomID: normalized, Exists: false}
	}
	return &model.RoomCheckResult{RoomID: normalized, Exists: true, Status: string(status)}
}

// StartGame transitions a waiting room to playing and attaches the
// quiz settings. Ignored unless the caller is the room's admin, so a
// stale or forged request leaks nothing.
func (s *RoomService) StartGame(connID, code string, settings json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok || room.AdminConnID != connID || room.Status != model.RoomWaiting {
		return
	}

	now := time.Now()
	room.Status = model.RoomPlaying
	room.StartedAt = &now
	room.Settings = settings

	log.Printf("Room %s started", room.Code)
	s.touchLocked(room)
	s.broadcastLocked(room.Code, "gameStarted", &model.GameStarted{
		RoomID:   room.Code,
		Settings: room.Settings,
	})
	s.broadcastStateLocked(room)
}

// UpdateProgress records a player's progress and replaces their solved
// list wholesale. Unknown, already-finished players and finished rooms
// are ignored without error.
func (s *RoomService) UpdateProgress(connID, code string, progress float64, solved []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok || room.Status == model.RoomFinished {
		return
	}

	player, ok := room.Players[connID]
	if !ok || player.Score != nil {
		return
	}

	player.Progress = progress
	if solved != nil {
		player.Solved = solved
	}

	s.touchLocked(room)
	s.broadcastStateLocked(room)
}

// FinishGame records a player's final score, at most once. When every
// remaining player has a score the room transitions to finished.
func (s *RoomService) FinishGame(connID, code string, score float64, wrongCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok || room.Status == model.RoomFinished {
		return
	}

	player, ok := room.Players[connID]
	if !ok || player.Score != nil {
		return
	}

	player.Score = &model.Score{Time: score, WrongCount: wrongCount}
	player.Progress = 100

	// Full scan rather than a counter: players can disconnect
	// mid-game, which would leave a counter stale.
	if len(room.Players) > 0 && allScored(room) {
		room.Status = model.RoomFinished
		log.Printf("Room %s finished", room.Code)
	}

	s.touchLocked(room)
	s.broadcastStateLocked(room)
}

// RejoinAsAdmin reclaims the admin role with the token issued at room
// creation. Valid within the grace window or at any time the room is
// still live.
func (s *RoomService) RejoinAsAdmin(connID, code, token, displayName string) (*model.AdminRejoined, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok {
		return nil, model.ErrRoomNotFound
	}

	claims, err := s.authSvc.ValidateAdminToken(token)
	if err != nil {
		return nil, err
	}
	if claims.RoomCode != room.Code || claims.SecretID != room.AdminSecretID {
		return nil, model.ErrInvalidAdminToken
	}

	s.cancelGraceTimerLocked(room.Code)
	room.PendingAdminDisconnectAt = nil
	room.AdminConnID = connID
	delete(room.Players, connID)
	if displayName != "" {
		room.AdminName = displayName
	}

	log.Printf("Admin rejoined room %s as %s", room.Code, connID)
	s.subscribeLocked(room.Code, connID)
	s.touchLocked(room)
	s.broadcastStateLocked(room)

	return &model.AdminRejoined{
		RoomID:    room.Code,
		IsAdmin:   true,
		AdminName: room.AdminName,
	}, nil
}

// RoomState returns the current snapshot to the caller only.
func (s *RoomService) RoomState(code string) (*model.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return snapshot(room), nil
}

// Disconnect handles a dropped connection. A player is removed
// immediately; for an admin the room enters the grace window awaiting a
// token rejoin.
func (s *RoomService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range s.registry.Rooms() {
		if room.AdminConnID == connID {
			s.beginGraceWindowLocked(room)
			continue
		}
		if _, ok := room.Players[connID]; ok {
			delete(room.Players, connID)
			log.Printf("Player %s left room %s", connID, room.Code)
			s.touchLocked(room)
			s.broadcastStateLocked(room)
		}
	}
}

// FinishedPlayers returns a point-in-time copy of the players with a
// score, fastest first, for report generation.
func (s *RoomService) FinishedPlayers(code string) (*model.Room, []model.PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.registry.Get(code)
	if !ok {
		return nil, nil, model.ErrRoomNotFound
	}

	finished := make([]model.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Score != nil {
			finished = append(finished, p.View())
		}
	}
	if len(finished) == 0 {
		return nil, nil, model.ErrNoFinishedPlayers
	}

	sortByTime(finished)
	return room, finished, nil
}

// beginGraceWindowLocked marks the admin as pending and arms the
// eviction timer. The timer callback re-checks both its own identity
// and the pending flag under the lock, so a rejoin racing with expiry
// resolves cleanly in one direction or the other.
func (s *RoomService) beginGraceWindowLocked(room *model.Room) {
	now := time.Now()
	room.AdminConnID = ""
	room.PendingAdminDisconnectAt = &now

	if t, ok := s.graceTimers[room.Code]; ok {
		t.Stop()
	}

	code := room.Code
	var timer *time.Timer
	timer = time.AfterFunc(s.gracePeriod, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		current, ok := s.graceTimers[code]
		if !ok || current != timer {
			return
		}
		delete(s.graceTimers, code)

		room, ok := s.registry.Get(code)
		if !ok || room.PendingAdminDisconnectAt == nil {
			return
		}

		log.Printf("Admin grace period expired, removing room %s", code)
		s.registry.Remove(code)
		if s.broadcaster != nil {
			s.broadcaster.DisconnectRoom(code)
		}
	})
	s.graceTimers[code] = timer

	log.Printf("Admin disconnected from room %s, grace window %s", code, s.gracePeriod)
	s.broadcastStateLocked(room)
}

func (s *RoomService) cancelGraceTimerLocked(code string) {
	if t, ok := s.graceTimers[code]; ok {
		t.Stop()
		delete(s.graceTimers, code)
	}
}

func (s *RoomService) subscribeLocked(code, connID string) {
	if s.broadcaster != nil {
		s.broadcaster.Subscribe(code, connID)
	}
}

func (s *RoomService) broadcastStateLocked(room *model.Room) {
	s.broadcastLocked(room.Code, "roomState", snapshot(room))
}

func (s *RoomService) broadcastLocked(code, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, msgType, payload)
	}
}

func (s *RoomService) touchLocked(room *model.Room) {
	s.registry.Touch(room.Code)
}

func allScored(room *model.Room) bool {
	for _, p := range room.Players {
		if p.Score == nil {
			return false
		}
	}
	return true
}

func snapshot(room *model.Room) *model.RoomSnapshot {
	players := make([]model.PlayerView, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, p.View())
	}
	return &model.RoomSnapshot{
		Admin:     room.AdminConnID,
		AdminName: room.AdminName,
		Status:    room.Status,
		Settings:  room.Settings,
		StartedAt: room.StartedAt,
		Players:   players,
	}
}

func sortByTime(players []model.PlayerView) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].Score.Time < players[j].Score.Time
	})
}
