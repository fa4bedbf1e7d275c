package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks live connections and per-room subscriptions and fans
// snapshots out to them. Delivery into each connection's send buffer
// happens synchronously under the hub lock, so broadcasts for one room
// reach every subscriber in mutation order.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Connection            // connID -> conn
	rooms map[string]map[string]*Connection // roomCode -> connID -> conn
}

// Connection represents one WebSocket client.
type Connection struct {
	ID   string
	Send chan []byte
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Connection),
		rooms: make(map[string]map[string]*Connection),
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.ID] = conn
	log.Printf("Connection %s registered", conn.ID)
}

// Unregister removes a connection from the hub and every room it was
// subscribed to, and closes its send channel.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	existing, ok := h.conns[conn.ID]
	if !ok || existing != conn {
		return
	}
	delete(h.conns, conn.ID)
	for code, members := range h.rooms {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	close(conn.Send)
	log.Printf("Connection %s unregistered", conn.ID)
}

// Subscribe adds a connection to a room's broadcast set (implements
// service.Broadcaster).
func (h *Hub) Subscribe(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]*Connection)
	}
	h.rooms[roomCode][connID] = conn
}

// BroadcastToRoom sends a message to every connection subscribed to the
// room, admin included (implements service.Broadcaster).
func (h *Hub) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	data, err := marshalMessage(MessageType(msgType), payload)
	if err != nil {
		log.Printf("Broadcast marshal error for room %s: %v", roomCode, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.rooms[roomCode] {
		select {
		case conn.Send <- data:
		default:
			// Drop for this connection if its buffer is full.
		}
	}
}

// DisconnectRoom drops a room's broadcast set; the connections stay
// open (implements service.Broadcaster).
func (h *Hub) DisconnectRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomCode)
}

// SendTo delivers a message to a single connection.
func (h *Hub) SendTo(conn *Connection, msgType MessageType, payload interface{}) {
	data, err := marshalMessage(msgType, payload)
	if err != nil {
		log.Printf("Send marshal error for connection %s: %v", conn.ID, err)
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}

func marshalMessage(msgType MessageType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: raw})
}
