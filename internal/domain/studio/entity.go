package studio

import (
	"time"

	"inkbook/internal/domain/user"
)

type Studio struct {
	ID          int64        `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     int64        `gorm:"column:owner_id;uniqueIndex;not null" json:"owner_id"`
	Name        string       `gorm:"column:name;not null" json:"name"`
	LogoURL     string       `gorm:"column:logo_url" json:"logo_url,omitempty"`
	Description string       `gorm:"column:description" json:"description,omitempty"`
	Address     string       `gorm:"column:address" json:"address,omitempty"`
	City        string       `gorm:"column:city;index" json:"city,omitempty"`
	Socials     user.Socials `gorm:"column:socials;serializer:json" json:"socials"`
	CreatedAt   time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at" json:"updated_at"`

	Styles   []StudioStyle   `gorm:"foreignKey:StudioID" json:"styles"`
	Services []StudioService `gorm:"foreignKey:StudioID" json:"services"`
}

func (Studio) TableName() string { return "studios" }

type StudioStyle struct {
	StudioID int64 `gorm:"column:studio_id;primaryKey" json:"-"`
	StyleID  int64 `gorm:"column:style_id;primaryKey" json:"style_id"`
	Position int   `gorm:"column:position" json:"position"`
}

func (StudioStyle) TableName() string { return "studio_styles" }

type StudioService struct {
	StudioID  int64 `gorm:"column:studio_id;primaryKey" json:"-"`
	ServiceID int64 `gorm:"column:service_id;primaryKey" json:"service_id"`
}

func (StudioService) TableName() string { return "studio_services" }

// MembershipStatus of an invitation. PENDING resolves to exactly one of the
// other two and never goes back.
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "PENDING"
	StatusAccepted MembershipStatus = "ACCEPTED"
	StatusRejected MembershipStatus = "REJECTED"
)

// Membership is both the invitation and, once accepted, the member link.
type Membership struct {
	ID          int64            `gorm:"column:id;primaryKey" json:"id"`
	StudioID    int64            `gorm:"column:studio_id;index;not null" json:"studio_id"`
	UserID      int64            `gorm:"column:user_id;index;not null" json:"user_id"`
	InvitedBy   int64            `gorm:"column:invited_by" json:"invited_by"`
	Status      MembershipStatus `gorm:"column:status;index;not null" json:"status"`
	Token       string           `gorm:"column:token;uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time        `gorm:"column:expires_at" json:"expires_at"`
	RespondedAt *time.Time       `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at" json:"updated_at"`
}

func (Membership) TableName() string { return "studio_memberships" }

// IsExpired is only meaningful while the invitation is pending.
func (m *Membership) IsExpired(now time.Time) bool {
	return m.Status == StatusPending && now.After(m.ExpiresAt)
}

func Models() []any {
	return []any{&Studio{}, &StudioStyle{}, &StudioService{}, &Membership{}}
}

func (s *Studio) StyleIDs() []int64 {
	ids := make([]int64, 0, len(s.Styles))
	for _, st := range s.Styles {
		ids = append(ids, st.StyleID)
	}
	return ids
}

func (s *Studio) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(s.Services))
	for _, sv := range s.Services {
		ids = append(ids, sv.ServiceID)
	}
	return ids
}
