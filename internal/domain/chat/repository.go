package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository handles all DB operations for the chat domain
type Repository interface {
	// Conversations
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	GetConversationByPair(ctx context.Context, a, b int64) (*Conversation, error)
	SetStatus(ctx context.Context, id string, from, to ConversationStatus, at time.Time) (bool, error)
	TouchConversation(ctx context.Context, id string, at time.Time) error
	ListConversations(ctx context.Context, userID int64) ([]*Conversation, error)

	// Messages
	CreateMessage(ctx context.Context, m *Message) error
	GetMessage(ctx context.Context, id string) (*Message, error)
	LastMessage(ctx context.Context, conversationID string) (*Message, error)
	ListBefore(ctx context.Context, conversationID string, cursor *Cursor, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, conversationID string, readerID int64, at time.Time) (int, error)
	CountUnread(ctx context.Context, conversationID string, userID int64) (int, error)
	CountTotalUnread(ctx context.Context, userID int64) (int, error)
}

// Cursor points at the oldest message the client already holds.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateConversation(ctx context.Context, c *Conversation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationByPair returns nil, nil when the pair has no conversation.
func (r *repository) GetConversationByPair(ctx context.Context, a, b int64) (*Conversation, error) {
	if a > b {
		a, b = b, a
	}
	var c Conversation
	err := r.db.WithContext(ctx).Where("user_a_id = ? AND user_b_id = ?", a, b).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) SetStatus(ctx context.Context, id string, from, to ConversationStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) TouchConversation(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ?", id).
		Updates(map[string]any{"last_message_at": at, "updated_at": at}).Error
}

func (r *repository) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	var convs []*Conversation
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&convs).Error
	return convs, err
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetMessage returns nil, nil when the id is unused.
func (r *repository) GetMessage(ctx context.Context, id string) (*Message, error) {
	var m Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) LastMessage(ctx context.Context, conversationID string) (*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return msgs[0], nil
}

// ListBefore returns up to limit messages older than cursor, newest first.
// A nil cursor starts from the latest message.
func (r *repository) ListBefore(ctx context.Context, conversationID string, cursor *Cursor, limit int) ([]*Message, error) {
	q := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var msgs []*Message
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}

// MarkRead stamps every unread message sent by the other participant.
func (r *repository) MarkRead(ctx context.Context, conversationID string, readerID int64, at time.Time) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at)
	return int(res.RowsAffected), res.Error
}

func (r *repository) CountUnread(ctx context.Context, conversationID string, userID int64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Count(&count).Error
	return int(count), err
}

func (r *repository) CountTotalUnread(ctx context.Context, userID int64) (int, error) {
	mine := r.db.Model(&Conversation{}).
		Select("id").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID)

	var total int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id IN (?) AND sender_id <> ? AND read_at IS NULL", mine, userID).
		Count(&total).Error
	return int(total), err
}
