package model

import "errors"

// Errors surfaced to the originating connection. Everything else in the
// protocol fails silently; see the room service.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrGameInProgress    = errors.New("game already in progress")
	ErrInvalidAdminToken = errors.New("invalid or expired admin token")
	ErrNoFinishedPlayers = errors.New("no finished players yet")
)
