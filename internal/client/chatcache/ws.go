package chatcache

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"inkbook/internal/client/api"
)

var ErrRealtimeClosed = errors.New("realtime connection closed")

const writeWait = 10 * time.Second

type frame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

type event struct {
	Type           string       `json:"type"`
	ConversationID string       `json:"conversation_id,omitempty"`
	Message        *api.Message `json:"message,omitempty"`
	Code           string       `json:"code,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// WSRealtime multiplexes conversation subscriptions over one websocket.
type WSRealtime struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[string]func(api.Message)
	closed   bool

	done chan struct{}
}

// WebsocketURL turns the API base URL into the realtime endpoint.
func WebsocketURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

func DialRealtime(ctx context.Context, wsURL, token string) (*WSRealtime, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	rt := &WSRealtime{
		conn:     conn,
		handlers: make(map[string]func(api.Message)),
		done:     make(chan struct{}),
	}
	go rt.readLoop()
	return rt, nil
}

func (r *WSRealtime) Subscribe(conversationID string, onMessage func(api.Message)) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRealtimeClosed
	}
	r.handlers[conversationID] = onMessage
	r.mu.Unlock()

	return r.write(frame{Type: "subscribe", ConversationID: conversationID})
}

func (r *WSRealtime) Unsubscribe(conversationID string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	delete(r.handlers, conversationID)
	r.mu.Unlock()

	return r.write(frame{Type: "unsubscribe", ConversationID: conversationID})
}

// Typing forwards the local typing indicator for a subscribed conversation.
func (r *WSRealtime) Typing(conversationID string, isTyping bool) error {
	return r.write(frame{Type: "typing", ConversationID: conversationID, IsTyping: isTyping})
}

func (r *WSRealtime) write(f frame) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	select {
	case <-r.done:
		return ErrRealtimeClosed
	default:
	}
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return r.conn.WriteJSON(f)
}

func (r *WSRealtime) readLoop() {
	defer func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.done)
	}()

	for {
		var ev event
		if err := r.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime_read_error err=%v", err)
			}
			return
		}

		switch ev.Type {
		case "new_message":
			if ev.Message == nil {
				continue
			}
			r.mu.Lock()
			fn := r.handlers[ev.ConversationID]
			r.mu.Unlock()
			if fn != nil {
				fn(*ev.Message)
			}
		case "error":
			log.Printf("realtime_error code=%s err=%s", ev.Code, ev.Error)
		}
	}
}

// Done is closed once the read loop exits.
func (r *WSRealtime) Done() <-chan struct{} {
	return r.done
}

func (r *WSRealtime) Close() error {
	r.writeMu.Lock()
	_ = r.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	r.writeMu.Unlock()

	err := r.conn.Close()
	<-r.done
	return err
}
