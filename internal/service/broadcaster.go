package service

// Broadcaster is the room service's view of the WebSocket hub (avoids an
// import cycle). Calls made while the service holds its lock must be
// delivered to each connection in call order.
type Broadcaster interface {
	Subscribe(roomCode, connID string)
	BroadcastToRoom(roomCode string, msgType string, payload interface{})
	DisconnectRoom(roomCode string)
}
