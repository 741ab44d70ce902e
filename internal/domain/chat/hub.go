package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512 * 1024 // 512 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// mobile clients send no Origin; the JWT in the query authenticates
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FrameHandler answers client frames that need domain checks.
type FrameHandler interface {
	CanSubscribe(ctx context.Context, userID int64, conversationID string) bool
	Typing(ctx context.Context, userID int64, conversationID string, isTyping bool) error
}

// connection represents a single WebSocket client
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool // subscribed conversation IDs
}

// Hub fans events out to live connections. A user may hold several.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{connections: make(map[*connection]struct{})}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Broadcast delivers ev to connections subscribed to the conversation and to
// every connection of the listed users, once per connection.
func (h *Hub) Broadcast(conversationID string, userIDs []int64, ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.rooms[conversationID] && !containsID(userIDs, c.userID) {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// Online reports whether the user has at least one live connection.
func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.userID == userID {
			return true
		}
	}
	return false
}

// ServeWS registers a new connection and starts read/write loops
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64, frames FrameHandler) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c, frames) // blocks until disconnect
}

func (h *Hub) direct(c *connection, ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) readPump(c *connection, frames FrameHandler) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error user_id=%d err=%v", c.userID, err)
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.direct(c, NewErrorEvent("INVALID_JSON", "failed to parse frame"))
			continue
		}

		ctx := context.Background()
		switch frame.Type {
		case FrameSubscribe:
			if !frames.CanSubscribe(ctx, c.userID, frame.ConversationID) {
				h.direct(c, NewErrorEvent("FORBIDDEN", "cannot subscribe to "+frame.ConversationID))
				continue
			}
			h.mu.Lock()
			c.rooms[frame.ConversationID] = true
			h.mu.Unlock()
		case FrameUnsubscribe:
			h.mu.Lock()
			delete(c.rooms, frame.ConversationID)
			h.mu.Unlock()
		case FrameTyping:
			if err := frames.Typing(ctx, c.userID, frame.ConversationID, frame.IsTyping); err != nil {
				h.direct(c, NewErrorEvent("FORBIDDEN", err.Error()))
			}
		case FramePing:
			h.direct(c, NewPongEvent())
		default:
			h.direct(c, NewErrorEvent("UNKNOWN_TYPE", "unknown frame type: "+frame.Type))
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
