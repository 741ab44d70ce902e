package favorite

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Add reports false when the pair already exists.
	Add(ctx context.Context, f *Favorite) (bool, error)
	Remove(ctx context.Context, userID, artistID int64) (bool, error)
	Exists(ctx context.Context, userID, artistID int64) (bool, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]SavedArtist, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, f *Favorite) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Remove(ctx context.Context, userID, artistID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND artist_id = ?", userID, artistID).
		Delete(&Favorite{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Exists(ctx context.Context, userID, artistID int64) (bool, error) {
	var f Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND artist_id = ?", userID, artistID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// List skips artists that have since hidden their profile.
func (r *repository) List(ctx context.Context, userID int64, limit, offset int) ([]SavedArtist, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&Favorite{}).
		Joins("JOIN users ON users.id = favorites.artist_id").
		Joins("JOIN artist_profiles ON artist_profiles.user_id = users.id").
		Where("favorites.user_id = ? AND users.is_visible = ?", userID, true).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []SavedArtist
	err := q.Select("users.id AS artist_id, users.username, users.display_name, users.avatar_url, users.city, " +
		"artist_profiles.hourly_rate, artist_profiles.currency, artist_profiles.work_arrangement, " +
		"favorites.created_at AS saved_at").
		Order("favorites.created_at DESC").
		Order("favorites.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error
	return out, total, err
}
