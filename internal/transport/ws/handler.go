package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rechenraum/internal/model"
	"rechenraum/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Solved lists are resent wholesale on every progress update, so
	// inbound frames can get large.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades client connections and dispatches their protocol
// events into the room service.
type Handler struct {
	hub     *Hub
	roomSvc *service.RoomService
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, roomSvc *service.RoomService) *Handler {
	return &Handler{
		hub:     hub,
		roomSvc: roomSvc,
	}
}

// ServeWS handles GET /v1/ws.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.roomSvc.Disconnect(conn.ID)
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, errors.New("malformed message"))
			continue
		}
		h.dispatch(conn, &msg)
	}
}

func (h *Handler) dispatch(conn *Connection, msg *Message) {
	switch msg.Type {
	case MsgCreateRoom:
		var p CreateRoomPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		reply, err := h.roomSvc.CreateRoom(conn.ID, p.Name)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.SendTo(conn, MsgRoomCreated, reply)

	case MsgJoinRoom:
		var p JoinRoomPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		reply, err := h.roomSvc.JoinRoom(conn.ID, p.RoomID, p.Username)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.SendTo(conn, MsgRoomJoined, reply)

	case MsgCheckRoom:
		var p CheckRoomPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.hub.SendTo(conn, MsgRoomCheckResult, h.roomSvc.CheckRoom(p.RoomID))

	case MsgStartGame:
		var p StartGamePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.roomSvc.StartGame(conn.ID, p.RoomID, p.Settings)

	case MsgUpdateProgress:
		var p UpdateProgressPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.roomSvc.UpdateProgress(conn.ID, p.RoomID, p.Progress, p.Solved)

	case MsgFinishGame:
		var p FinishGamePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		h.roomSvc.FinishGame(conn.ID, p.RoomID, p.Score, p.WrongCount)

	case MsgRejoinAsAdmin:
		var p RejoinAsAdminPayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		reply, err := h.roomSvc.RejoinAsAdmin(conn.ID, p.RoomID, p.Token, p.Name)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.SendTo(conn, MsgAdminRejoined, reply)

	case MsgGetRoomState:
		var p GetRoomStatePayload
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		snap, err := h.roomSvc.RoomState(p.RoomID)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.SendTo(conn, MsgRoomState, snap)

	default:
		log.Printf("Unknown message type %q from %s", msg.Type, conn.ID)
	}
}

func (h *Handler) sendError(conn *Connection, err error) {
	h.hub.SendTo(conn, MsgError, &ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, model.ErrGameInProgress):
		return "game_in_progress"
	case errors.Is(err, model.ErrInvalidAdminToken):
		return "invalid_admin_token"
	default:
		return "internal_error"
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
