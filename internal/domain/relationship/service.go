package relationship

import (
	"context"
	"time"
)

// Service handles user blocking logic
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Block(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}
	ok, err := s.repo.Block(ctx, &Block{
		BlockerID: blockerID,
		BlockedID: blockedID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyBlocked
	}
	return nil
}

func (s *Service) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	ok, err := s.repo.Unblock(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotBlocked
	}
	return nil
}

// IsBlocked returns true if either user has blocked the other.
func (s *Service) IsBlocked(ctx context.Context, userA, userB int64) (bool, error) {
	return s.repo.IsBlocked(ctx, userA, userB)
}

func (s *Service) ListBlocked(ctx context.Context, userID int64) ([]*Block, error) {
	list, err := s.repo.ListBlocked(ctx, userID)
	if list == nil {
		list = []*Block{}
	}
	return list, err
}
