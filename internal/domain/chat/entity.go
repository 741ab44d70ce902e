package chat

import "time"

// ConversationStatus gates who may send.
type ConversationStatus string

const (
	StatusRequested ConversationStatus = "REQUESTED"
	StatusActive    ConversationStatus = "ACTIVE"
	StatusDeclined  ConversationStatus = "DECLINED"
)

// Conversation pairs two users. UserAID < UserBID so a pair maps to one row.
type Conversation struct {
	ID            string             `gorm:"column:id;primaryKey" json:"id"`
	UserAID       int64              `gorm:"column:user_a_id;uniqueIndex:idx_conversation_pair;not null" json:"user_a_id"`
	UserBID       int64              `gorm:"column:user_b_id;uniqueIndex:idx_conversation_pair;not null" json:"user_b_id"`
	InitiatorID   int64              `gorm:"column:initiator_id" json:"initiator_id"`
	Status        ConversationStatus `gorm:"column:status;index" json:"status"`
	LastMessageAt *time.Time         `gorm:"column:last_message_at" json:"last_message_at,omitempty"`
	CreatedAt     time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) Has(userID int64) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID int64) int64 {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

func (c *Conversation) Participants() []int64 {
	return []int64{c.UserAID, c.UserBID}
}

// CanSend reports whether userID may post in the current status.
func (c *Conversation) CanSend(userID int64) error {
	switch c.Status {
	case StatusDeclined:
		return ErrConversationDeclined
	case StatusRequested:
		if userID != c.InitiatorID {
			return ErrAwaitingAcceptance
		}
	}
	return nil
}

// Message belongs to one conversation. ReadAt is the recipient's read marker.
type Message struct {
	ID             string       `gorm:"column:id;primaryKey" json:"id"`
	ConversationID string       `gorm:"column:conversation_id;index:idx_messages_conv_created,priority:1;not null" json:"conversation_id"`
	SenderID       int64        `gorm:"column:sender_id" json:"sender_id"`
	Content        string       `gorm:"column:content" json:"content"`
	MediaURL       string       `gorm:"column:media_url" json:"media_url,omitempty"`
	CreatedAt      time.Time    `gorm:"column:created_at;index:idx_messages_conv_created,priority:2" json:"created_at"`
	ReadAt         *time.Time   `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Message) TableName() string { return "messages" }

// ConversationSummary is a row of the inbox list.
type ConversationSummary struct {
	*Conversation
	OtherUserID int64    `json:"other_user_id"`
	UnreadCount int      `json:"unread_count"`
	LastMessage *Message `json:"last_message,omitempty"`
}

func Models() []any {
	return []any{&Conversation{}, &Message{}}
}
