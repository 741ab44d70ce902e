package chat

import "time"

// Client frame types.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameTyping      = "typing"
	FramePing        = "ping"
)

// Server event types.
const (
	EventNewMessage = "new_message"
	EventRead       = "read"
	EventTyping     = "typing"
	EventStatus     = "status"
	EventPong       = "pong"
	EventError      = "error"
)

type ClientFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id,omitempty"`
	IsTyping       bool   `json:"is_typing,omitempty"`
}

type Event struct {
	Type           string             `json:"type"`
	ConversationID string             `json:"conversation_id,omitempty"`
	Message        *Message           `json:"message,omitempty"`
	UserID         int64              `json:"user_id,omitempty"`
	IsTyping       bool               `json:"is_typing,omitempty"`
	Status         ConversationStatus `json:"status,omitempty"`
	ReadAt         *time.Time         `json:"read_at,omitempty"`
	Code           string             `json:"code,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func NewMessageEvent(msg *Message) *Event {
	return &Event{Type: EventNewMessage, ConversationID: msg.ConversationID, Message: msg}
}

func NewReadEvent(conversationID string, readerID int64, at time.Time) *Event {
	return &Event{Type: EventRead, ConversationID: conversationID, UserID: readerID, ReadAt: &at}
}

func NewTypingEvent(conversationID string, userID int64, isTyping bool) *Event {
	return &Event{Type: EventTyping, ConversationID: conversationID, UserID: userID, IsTyping: isTyping}
}

func NewStatusEvent(conversationID string, status ConversationStatus) *Event {
	return &Event{Type: EventStatus, ConversationID: conversationID, Status: status}
}

func NewPongEvent() *Event {
	return &Event{Type: EventPong}
}

func NewErrorEvent(code, message string) *Event {
	return &Event{Type: EventError, Code: code, Error: message}
}
