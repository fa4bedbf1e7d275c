package model

import (
	"encoding/json"
	"time"
)

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// Room is one quiz session. All mutation goes through the room service,
// which serializes access; Room itself carries no lock.
type Room struct {
	Code          string `json:"code"`
	AdminConnID   string `json:"admin"`
	AdminName     string `json:"adminName"`
	AdminSecretID string `json:"-"` // random id bound into the admin token, never sent to players

	Status    RoomStatus      `json:"status"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	StartedAt *time.Time      `json:"startedAt,omitempty"`

	// Keyed by connection id. The admin connection is never in this map.
	Players map[string]*Player `json:"players"`

	// Set while the admin is disconnected and the grace window is running.
	PendingAdminDisconnectAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// RoomSnapshot is the full broadcastable view of a room, sent to every
// subscribed connection after each mutation.
type RoomSnapshot struct {
	Admin     string          `json:"admin"`
	AdminName string          `json:"adminName"`
	Status    RoomStatus      `json:"status"`
	Settings  json.RawMessage `json:"settings,omitempty"`
	StartedAt *time.Time      `json:"startedAt,omitempty"`
	Players   []PlayerView    `json:"players"`
}

// RoomCheckResult answers a pre-join existence probe.
type RoomCheckResult struct {
	RoomID string `json:"roomId"`
	Exists bool   `json:"exists"`
	Status string `json:"status,omitempty"`
}

// RoomCreated is the reply to a successful create. The admin token is
// transmitted exactly once, here.
type RoomCreated struct {
	RoomID     string `json:"roomId"`
	IsAdmin    bool   `json:"isAdmin"`
	AdminName  string `json:"adminName"`
	AdminToken string `json:"adminToken"`
}

// RoomJoined is the reply to a successful join.
type RoomJoined struct {
	RoomID  string `json:"roomId"`
	IsAdmin bool   `json:"isAdmin"`
}

// AdminRejoined is the reply to a successful admin reclaim.
type AdminRejoined struct {
	RoomID    string `json:"roomId"`
	IsAdmin   bool   `json:"isAdmin"`
	AdminName string `json:"adminName"`
}

// GameStarted is broadcast when the admin starts the quiz. Settings are
// relayed verbatim so clients can generate matching problem sets.
type GameStarted struct {
	RoomID   string          `json:"roomId"`
	Settings json.RawMessage `json:"settings,omitempty"`
}
