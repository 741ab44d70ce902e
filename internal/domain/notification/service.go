package notification

import (
	"context"
	"errors"
	"log"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) List(ctx context.Context, userID int64, q ListQuery) (*ListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	list, total, err := s.repo.List(ctx, userID, q.UnreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*Notification{}
	}
	return &ListResponse{Notifications: list, UnreadCount: unread, Total: total}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.MarkRead(ctx, id, userID, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now().UTC())
}

// Cleanup removes read notifications older than keep.
func (s *Service) Cleanup(ctx context.Context, keep time.Duration) (int64, error) {
	start := time.Now()
	deleted, err := s.repo.DeleteReadBefore(ctx, s.now().Add(-keep))
	if err != nil {
		return 0, err
	}
	log.Printf("[notification] cleanup deleted=%d in %v", deleted, time.Since(start))
	return deleted, nil
}
