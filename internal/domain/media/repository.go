package media

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	Delete(ctx context.Context, id string) error
	ListByUserID(ctx context.Context, userID int64, folder string) ([]*Asset, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Asset) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Asset, error) {
	var a Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Asset{}).Error
}

func (r *repository) ListByUserID(ctx context.Context, userID int64, folder string) ([]*Asset, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if folder != "" {
		q = q.Where("folder = ?", folder)
	}
	var out []*Asset
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}
