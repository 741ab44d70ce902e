package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []*Notification
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *repository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead reports false when the notification does not belong to userID.
func (r *repository) MarkRead(ctx context.Context, id, userID int64, at time.Time) (bool, error) {
	var n Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if n.IsRead {
		return true, nil
	}
	err = r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
	return err == nil, err
}

func (r *repository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}
