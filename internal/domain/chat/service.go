package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"inkbook/internal/domain/user"
	"inkbook/internal/pkg/mq"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// UserDirectory is implemented by user.Service.
type UserDirectory interface {
	GetRole(ctx context.Context, userID int64) (string, error)
}

// Broadcaster is implemented by Hub.
type Broadcaster interface {
	Broadcast(conversationID string, userIDs []int64, ev *Event)
}

// BlockChecker is implemented by relationship.Service.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userA, userB int64) (bool, error)
}

// Service handles chat business logic
type Service struct {
	repo   Repository
	users  UserDirectory
	hub    Broadcaster
	events mq.EventPublisher
	blocks BlockChecker
	now    func() time.Time
}

func NewService(repo Repository, users UserDirectory, hub Broadcaster, events mq.EventPublisher) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		hub:    hub,
		events: events,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// WithBlocks makes the service refuse new conversations and messages between
// users where either side blocked the other.
func (s *Service) WithBlocks(b BlockChecker) *Service {
	s.blocks = b
	return s
}

func (s *Service) checkBlocked(ctx context.Context, a, b int64) error {
	if s.blocks == nil {
		return nil
	}
	blocked, err := s.blocks.IsBlocked(ctx, a, b)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}
	return nil
}

// ---- Conversations ----

// StartConversation returns the pair's conversation, creating it when needed.
// A non-artist contacting an artist opens a REQUESTED conversation.
func (s *Service) StartConversation(ctx context.Context, userID, otherID int64) (*Conversation, bool, error) {
	if userID == otherID {
		return nil, false, ErrCannotChatSelf
	}
	if err := s.checkBlocked(ctx, userID, otherID); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetConversationByPair(ctx, userID, otherID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	myRole, err := s.role(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	otherRole, err := s.role(ctx, otherID)
	if err != nil {
		return nil, false, err
	}

	status := StatusActive
	if otherRole == string(user.RoleArtist) && myRole != string(user.RoleArtist) {
		status = StatusRequested
	}

	a, b := userID, otherID
	if a > b {
		a, b = b, a
	}
	now := s.now()
	conv := &Conversation{
		ID:          uuid.New().String(),
		UserAID:     a,
		UserBID:     b,
		InitiatorID: userID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		// the other side may have created it concurrently
		if again, getErr := s.repo.GetConversationByPair(ctx, userID, otherID); getErr == nil && again != nil {
			return again, false, nil
		}
		return nil, false, err
	}

	if status == StatusRequested {
		mq.Publish(ctx, s.events, "chat.conversation.requested", map[string]any{
			"conversation_id": conv.ID,
			"initiator_id":    userID,
			"recipient_id":    otherID,
		})
	}
	return conv, true, nil
}

func (s *Service) role(ctx context.Context, userID int64) (string, error) {
	r, err := s.users.GetRole(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return "", ErrUserNotFound
	}
	return r, err
}

func (s *Service) GetConversation(ctx context.Context, userID int64, conversationID string) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.Has(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// Accept lets the contacted user open a requested conversation.
func (s *Service) Accept(ctx context.Context, userID int64, conversationID string) (*Conversation, error) {
	return s.answer(ctx, userID, conversationID, StatusActive, "chat.conversation.accepted")
}

// Decline closes a requested conversation for both sides.
func (s *Service) Decline(ctx context.Context, userID int64, conversationID string) (*Conversation, error) {
	return s.answer(ctx, userID, conversationID, StatusDeclined, "chat.conversation.declined")
}

func (s *Service) answer(ctx context.Context, userID int64, conversationID string, to ConversationStatus, eventKey string) (*Conversation, error) {
	conv, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.InitiatorID == userID {
		return nil, ErrNotRecipient
	}
	if conv.Status != StatusRequested {
		return nil, ErrNotRequested
	}

	now := s.now()
	ok, err := s.repo.SetStatus(ctx, conv.ID, StatusRequested, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotRequested
	}
	conv.Status = to
	conv.UpdatedAt = now

	s.broadcast(conv, NewStatusEvent(conv.ID, to))
	mq.Publish(ctx, s.events, eventKey, map[string]any{
		"conversation_id": conv.ID,
		"initiator_id":    conv.InitiatorID,
		"recipient_id":    userID,
	})
	return conv, nil
}

// ListConversations returns the inbox with unread counts and last messages.
func (s *Service) ListConversations(ctx context.Context, userID int64) ([]*ConversationSummary, error) {
	convs, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*ConversationSummary, 0, len(convs))
	for _, c := range convs {
		unread, err := s.repo.CountUnread(ctx, c.ID, userID)
		if err != nil {
			return nil, err
		}
		last, err := s.repo.LastMessage(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &ConversationSummary{
			Conversation: c,
			OtherUserID:  c.Other(userID),
			UnreadCount:  unread,
			LastMessage:  last,
		})
	}
	return out, nil
}

func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountTotalUnread(ctx, userID)
}

// ---- Messages ----

// SendMessage stores and broadcasts a message. A client-supplied id makes
// the call idempotent: resending the same id returns the stored row.
func (s *Service) SendMessage(ctx context.Context, senderID int64, conversationID string, req SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.MediaURL == "" {
		return nil, ErrEmptyMessage
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidMessageID
	}

	conv, err := s.GetConversation(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}

	if req.ID != "" {
		if prev, err := s.repo.GetMessage(ctx, id); err != nil {
			return nil, err
		} else if prev != nil {
			return sameMessage(prev, conv.ID, senderID)
		}
	}

	if err := conv.CanSend(senderID); err != nil {
		return nil, err
	}
	if err := s.checkBlocked(ctx, senderID, conv.Other(senderID)); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:             id,
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		MediaURL:       req.MediaURL,
		CreatedAt:      s.now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		// concurrent retry with the same id
		if prev, getErr := s.repo.GetMessage(ctx, id); getErr == nil && prev != nil {
			return sameMessage(prev, conv.ID, senderID)
		}
		return nil, err
	}
	if err := s.repo.TouchConversation(ctx, conv.ID, msg.CreatedAt); err != nil {
		log.Printf("chat_touch_failed conversation_id=%s err=%v", conv.ID, err)
	}

	s.broadcast(conv, NewMessageEvent(msg))
	return msg, nil
}

func sameMessage(prev *Message, conversationID string, senderID int64) (*Message, error) {
	if prev.ConversationID != conversationID || prev.SenderID != senderID {
		return nil, ErrMessageIDConflict
	}
	return prev, nil
}

// ListMessages returns one page, oldest first. Without a cursor it is the
// latest page; with one it is the page just before the cursor. The limit is
// clamped to maxPageSize and HasMore is decided by reading one row past it.
func (s *Service) ListMessages(ctx context.Context, userID int64, conversationID string, cursor *Cursor, limit int) (*MessagesPage, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	msgs, err := s.repo.ListBefore(ctx, conversationID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(msgs) > limit
	if hasMore {
		msgs = msgs[:limit]
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	if msgs == nil {
		msgs = []*Message{}
	}
	return &MessagesPage{Messages: msgs, HasMore: hasMore}, nil
}

// MarkRead sets the read marker on the other participant's unread messages.
func (s *Service) MarkRead(ctx context.Context, userID int64, conversationID string) (int, error) {
	conv, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	now := s.now()
	n, err := s.repo.MarkRead(ctx, conv.ID, userID, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.broadcast(conv, NewReadEvent(conv.ID, userID, now))
	}
	return n, nil
}

// ---- Hub callbacks ----

func (s *Service) CanSubscribe(ctx context.Context, userID int64, conversationID string) bool {
	_, err := s.GetConversation(ctx, userID, conversationID)
	return err == nil
}

func (s *Service) Typing(ctx context.Context, userID int64, conversationID string, isTyping bool) error {
	conv, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.Broadcast(conv.ID, []int64{conv.Other(userID)}, NewTypingEvent(conv.ID, userID, isTyping))
	}
	return nil
}

func (s *Service) broadcast(conv *Conversation, ev *Event) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(conv.ID, conv.Participants(), ev)
}
