package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(id string) *Connection {
	return &Connection{ID: id, Send: make(chan []byte, 16)}
}

func drain(conn *Connection) []Message {
	var msgs []Message
	for {
		select {
		case data := <-conn.Send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	admin := newTestConn("admin")
	alice := newTestConn("alice")
	outsider := newTestConn("outsider")

	hub.Register(admin)
	hub.Register(alice)
	hub.Register(outsider)

	hub.Subscribe("abc123", "admin")
	hub.Subscribe("abc123", "alice")

	hub.BroadcastToRoom("abc123", "roomState", map[string]string{"status": "waiting"})

	for _, conn := range []*Connection{admin, alice} {
		msgs := drain(conn)
		require.Len(t, msgs, 1, "connection %s", conn.ID)
		assert.Equal(t, MsgRoomState, msgs[0].Type)
	}
	assert.Empty(t, drain(outsider), "unsubscribed connections get nothing")
}

func TestBroadcastPreservesOrder(t *testing.T) {
	hub := NewHub()
	conn := newTestConn("c1")
	hub.Register(conn)
	hub.Subscribe("abc123", "c1")

	for i := 0; i < 5; i++ {
		hub.BroadcastToRoom("abc123", "roomState", map[string]int{"seq": i})
	}

	msgs := drain(conn)
	require.Len(t, msgs, 5)
	for i, msg := range msgs {
		var payload struct {
			Seq int `json:"seq"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, i, payload.Seq)
	}
}

func TestSendToIsPointToPoint(t *testing.T) {
	hub := NewHub()
	a := newTestConn("a")
	b := newTestConn("b")
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe("abc123", "a")
	hub.Subscribe("abc123", "b")

	hub.SendTo(a, MsgError, &ErrorPayload{Code: "room_not_found", Message: "room not found"})

	msgs := drain(a)
	require.Len(t, msgs, 1)
	assert.Equal(t, MsgError, msgs[0].Type)
	assert.Empty(t, drain(b))
}

func TestUnregisterRemovesFromRooms(t *testing.T) {
	hub := NewHub()
	conn := newTestConn("c1")
	hub.Register(conn)
	hub.Subscribe("abc123", "c1")

	hub.Unregister(conn)

	// Channel is closed and the connection no longer receives.
	_, open := <-conn.Send
	assert.False(t, open)

	hub.BroadcastToRoom("abc123", "roomState", nil) // must not panic

	// A stale Unregister for a replaced connection is ignored.
	fresh := newTestConn("c1")
	hub.Register(fresh)
	hub.Unregister(conn)
	hub.SendTo(fresh, MsgRoomState, nil)
	assert.Len(t, drain(fresh), 1)
}

func TestDisconnectRoomDropsSubscriptions(t *testing.T) {
	hub := NewHub()
	conn := newTestConn("c1")
	hub.Register(conn)
	hub.Subscribe("abc123", "c1")

	hub.DisconnectRoom("abc123")
	hub.BroadcastToRoom("abc123", "roomState", nil)

	assert.Empty(t, drain(conn))
}

func TestSlowConnectionDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	conn := &Connection{ID: "c1", Send: make(chan []byte, 1)}
	hub.Register(conn)
	hub.Subscribe("abc123", "c1")

	hub.BroadcastToRoom("abc123", "roomState", map[string]int{"seq": 0})
	// Buffer is full now; this must not block the hub.
	hub.BroadcastToRoom("abc123", "roomState", map[string]int{"seq": 1})

	msgs := drain(conn)
	require.Len(t, msgs, 1)
}
