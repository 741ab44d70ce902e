package studio

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkbook/internal/database"
	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/user"

	"gorm.io/gorm"
)

type Repository interface {
	// Studios
	Create(ctx context.Context, s *Studio) error
	GetByID(ctx context.Context, id int64) (*Studio, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*Studio, error)
	ExistsForOwner(ctx context.Context, ownerID int64) (bool, error)
	UpdateColumns(ctx context.Context, s *Studio, columns ...string) error
	ReplaceStyles(ctx context.Context, studioID int64, styleIDs []int64) error
	ReplaceServices(ctx context.Context, studioID int64, serviceIDs []int64) error
	CountExisting(ctx context.Context, model any, ids []int64) (int64, error)

	// Memberships
	CreateMembership(ctx context.Context, m *Membership) error
	GetMembership(ctx context.Context, id int64) (*Membership, error)
	GetMembershipByToken(ctx context.Context, token string) (*Membership, error)
	FindOpenMembership(ctx context.Context, studioID, userID int64, now time.Time) (*Membership, error)
	Transition(ctx context.Context, id int64, to MembershipStatus, at time.Time) (bool, error)
	DeleteOpenMembership(ctx context.Context, id int64) (bool, error)
	DeleteExpiredPending(ctx context.Context, now time.Time) (int, error)

	// Read models
	ListMembers(ctx context.Context, studioID int64) ([]Member, error)
	UserCard(ctx context.Context, userID int64) (*Member, error)
	ListStudioInvitations(ctx context.Context, studioID int64) ([]InvitationView, error)
	ListPendingForUser(ctx context.Context, userID int64, now time.Time) ([]InvitationView, error)
	GetInvitationView(ctx context.Context, token string) (*InvitationView, error)
	SearchInvitable(ctx context.Context, s *Studio, query string, limit int, now time.Time) ([]InvitableArtist, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Studio) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if database.IsUniqueViolation(err, "idx_studios_owner_id") {
		return ErrStudioExists
	}
	return err
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Styles", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("service_id ASC") })
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Studio, error) {
	var s Studio
	err := r.preloaded(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByOwnerID(ctx context.Context, ownerID int64) (*Studio, error) {
	var s Studio
	err := r.preloaded(ctx).Where("owner_id = ?", ownerID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudioNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ExistsForOwner(ctx context.Context, ownerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Studio{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count > 0, err
}

func (r *repository) UpdateColumns(ctx context.Context, s *Studio, columns ...string) error {
	return r.db.WithContext(ctx).Model(s).Select(columns).Updates(s).Error
}

func (r *repository) ReplaceStyles(ctx context.Context, studioID int64, styleIDs []int64) error {
	rows := make([]StudioStyle, 0, len(styleIDs))
	for i, id := range styleIDs {
		rows = append(rows, StudioStyle{StudioID: studioID, StyleID: id, Position: i})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("studio_id = ?", studioID).Delete(&StudioStyle{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *repository) ReplaceServices(ctx context.Context, studioID int64, serviceIDs []int64) error {
	rows := make([]StudioService, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		rows = append(rows, StudioService{StudioID: studioID, ServiceID: id})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("studio_id = ?", studioID).Delete(&StudioService{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *repository) CountExisting(ctx context.Context, model any, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *repository) CreateMembership(ctx context.Context, m *Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) GetMembership(ctx context.Context, id int64) (*Membership, error) {
	var m Membership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetMembershipByToken(ctx context.Context, token string) (*Membership, error) {
	var m Membership
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOpenMembership returns an accepted membership or a live pending
// invitation for the pair, or nil.
func (r *repository) FindOpenMembership(ctx context.Context, studioID, userID int64, now time.Time) (*Membership, error) {
	var m Membership
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND user_id = ?", studioID, userID).
		Where("status = ? OR (status = ? AND expires_at > ?)", StatusAccepted, StatusPending, now).
		Order("id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Transition resolves a pending invitation. It reports false when the row was
// no longer pending, so concurrent responders get exactly one winner.
func (r *repository) Transition(ctx context.Context, id int64, to MembershipStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":       to,
			"responded_at": at,
			"updated_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) DeleteOpenMembership(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, []MembershipStatus{StatusPending, StatusAccepted}).
		Delete(&Membership{})
	return res.RowsAffected == 1, res.Error
}

// DeleteExpiredPending drops invitations that expired without an answer.
func (r *repository) DeleteExpiredPending(ctx context.Context, now time.Time) (int, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", StatusPending, now).
		Delete(&Membership{})
	return int(res.RowsAffected), res.Error
}

func (r *repository) ListMembers(ctx context.Context, studioID int64) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).
		Table("studio_memberships AS m").
		Select("m.id AS membership_id, u.id AS user_id, u.username, u.display_name, u.avatar_url, m.responded_at AS joined_at").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.studio_id = ? AND m.status = ?", studioID, StatusAccepted).
		Order("m.responded_at ASC").
		Scan(&members).Error
	return members, err
}

func (r *repository) UserCard(ctx context.Context, userID int64) (*Member, error) {
	var out []Member
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Select("id AS user_id, username, display_name, avatar_url").
		Where("id = ?", userID).
		Limit(1).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &Member{UserID: userID}, nil
	}
	return &out[0], nil
}

const invitationColumns = "m.id, m.token, m.studio_id, s.name AS studio_name, s.logo_url AS studio_logo_url, " +
	"m.user_id, u.username, m.invited_by, m.status, m.expires_at, m.created_at"

func (r *repository) invitationQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("studio_memberships AS m").
		Select(invitationColumns).
		Joins("JOIN studios s ON s.id = m.studio_id").
		Joins("JOIN users u ON u.id = m.user_id")
}

func (r *repository) ListStudioInvitations(ctx context.Context, studioID int64) ([]InvitationView, error) {
	var out []InvitationView
	err := r.invitationQuery(ctx).
		Where("m.studio_id = ?", studioID).
		Order("m.created_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *repository) ListPendingForUser(ctx context.Context, userID int64, now time.Time) ([]InvitationView, error) {
	var out []InvitationView
	err := r.invitationQuery(ctx).
		Where("m.user_id = ? AND m.status = ? AND m.expires_at > ?", userID, StatusPending, now).
		Order("m.created_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *repository) GetInvitationView(ctx context.Context, token string) (*InvitationView, error) {
	var out []InvitationView
	err := r.invitationQuery(ctx).Where("m.token = ?", token).Limit(1).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrInvitationNotFound
	}
	return &out[0], nil
}

// SearchInvitable lists visible artists with a profile who are neither the
// owner nor already pending/accepted in this studio.
func (r *repository) SearchInvitable(ctx context.Context, s *Studio, query string, limit int, now time.Time) ([]InvitableArtist, error) {
	profiles := r.db.Model(&artist.Profile{}).Select("user_id")
	taken := r.db.Model(&Membership{}).
		Select("user_id").
		Where("studio_id = ?", s.ID).
		Where("status = ? OR (status = ? AND expires_at > ?)", StatusAccepted, StatusPending, now)

	q := r.db.WithContext(ctx).
		Model(&user.User{}).
		Select("id AS user_id, username, display_name, avatar_url, city").
		Where("role = ? AND is_visible = ?", user.RoleArtist, true).
		Where("id <> ?", s.OwnerID).
		Where("id IN (?)", profiles).
		Where("id NOT IN (?)", taken)

	if needle := strings.ToLower(strings.TrimSpace(query)); needle != "" {
		like := "%" + needle + "%"
		q = q.Where("(LOWER(username) LIKE ? OR LOWER(display_name) LIKE ?)", like, like)
	}

	var out []InvitableArtist
	err := q.Order("username ASC").Limit(limit).Scan(&out).Error
	return out, err
}
