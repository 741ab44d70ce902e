package search

import (
	"context"
	"strings"

	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/studio"
	"inkbook/internal/domain/user"

	"gorm.io/gorm"
)

type Repository interface {
	Artists(ctx context.Context, f ArtistFilter) ([]ArtistResult, int64, error)
	Studios(ctx context.Context, f StudioFilter) ([]StudioResult, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func like(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func (r *repository) Artists(ctx context.Context, f ArtistFilter) ([]ArtistResult, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&user.User{}).
		Joins("JOIN artist_profiles ON artist_profiles.user_id = users.id").
		Where("users.role = ? AND users.is_visible = ?", user.RoleArtist, true)

	if strings.TrimSpace(f.Query) != "" {
		needle := like(f.Query)
		q = q.Where("LOWER(users.username) LIKE ? OR LOWER(users.display_name) LIKE ?", needle, needle)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(users.city) = ?", strings.ToLower(city))
	}
	if len(f.StyleIDs) > 0 {
		sub := r.db.Model(&artist.ProfileStyle{}).Select("profile_id").Where("style_id IN ?", f.StyleIDs)
		q = q.Where("artist_profiles.id IN (?)", sub)
	}
	if len(f.ServiceIDs) > 0 {
		sub := r.db.Model(&artist.ProfileService{}).Select("profile_id").Where("service_id IN ?", f.ServiceIDs)
		q = q.Where("artist_profiles.id IN (?)", sub)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []ArtistResult
	err := q.Select("users.id AS user_id, users.username, users.display_name, users.avatar_url, users.city, " +
		"artist_profiles.hourly_rate, artist_profiles.currency, artist_profiles.work_arrangement").
		Order("users.username ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Scan(&out).Error
	return out, total, err
}

func (r *repository) Studios(ctx context.Context, f StudioFilter) ([]StudioResult, int64, error) {
	q := r.db.WithContext(ctx).Model(&studio.Studio{})

	if strings.TrimSpace(f.Query) != "" {
		q = q.Where("LOWER(name) LIKE ?", like(f.Query))
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if len(f.StyleIDs) > 0 {
		sub := r.db.Model(&studio.StudioStyle{}).Select("studio_id").Where("style_id IN ?", f.StyleIDs)
		q = q.Where("id IN (?)", sub)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []StudioResult
	err := q.Select("id, owner_id, name, logo_url, city").
		Order("name ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Scan(&out).Error
	return out, total, err
}
