package relationship

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Block reports false when the block already exists.
	Block(ctx context.Context, b *Block) (bool, error)
	Unblock(ctx context.Context, blockerID, blockedID int64) (bool, error)
	// IsBlocked checks both directions.
	IsBlocked(ctx context.Context, userA, userB int64) (bool, error)
	ListBlocked(ctx context.Context, blockerID int64) ([]*Block, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Block(ctx context.Context, b *Block) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(b)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Unblock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&Block{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) IsBlocked(ctx context.Context, userA, userB int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListBlocked(ctx context.Context, blockerID int64) ([]*Block, error) {
	var out []*Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
