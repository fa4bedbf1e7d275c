package ws

import "encoding/json"

// MessageType names a protocol event.
type MessageType string

// Client → server events.
const (
	MsgCreateRoom     MessageType = "createRoom"
	MsgJoinRoom       MessageType = "joinRoom"
	MsgCheckRoom      MessageType = "checkRoom"
	MsgStartGame      MessageType = "startGame"
	MsgUpdateProgress MessageType = "updateProgress"
	MsgFinishGame     MessageType = "finishGame"
	MsgRejoinAsAdmin  MessageType = "rejoinAsAdmin"
	MsgGetRoomState   MessageType = "getRoomState"
)

// Server → client events.
const (
	MsgRoomCreated     MessageType = "roomCreated"
	MsgRoomJoined      MessageType = "roomJoined"
	MsgRoomCheckResult MessageType = "roomCheckResult"
	MsgAdminRejoined   MessageType = "adminRejoined"
	MsgGameStarted     MessageType = "gameStarted"
	MsgRoomState       MessageType = "roomState"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format, both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomPayload struct {
	Name string `json:"name"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type CheckRoomPayload struct {
	RoomID string `json:"roomId"`
}

type StartGamePayload struct {
	RoomID   string          `json:"roomId"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

type UpdateProgressPayload struct {
	RoomID   string            `json:"roomId"`
	Progress float64           `json:"progress"`
	Solved   []json.RawMessage `json:"solved,omitempty"`
}

type FinishGamePayload struct {
	RoomID     string  `json:"roomId"`
	Score      float64 `json:"score"`
	WrongCount int     `json:"wrongCount"`
}

type RejoinAsAdminPayload struct {
	RoomID string `json:"roomId"`
	Token  string `json:"token"`
	Name   string `json:"name,omitempty"`
}

type GetRoomStatePayload struct {
	RoomID string `json:"roomId"`
}

// ErrorPayload is sent point-to-point to the connection whose request
// failed; errors are never broadcast.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
