package studio

import (
	"time"

	"inkbook/internal/domain/user"
)

type CreateStudioRequest struct {
	Name        string       `json:"name" binding:"required,min=2,max=120"`
	LogoURL     string       `json:"logo_url" binding:"omitempty,url"`
	Description string       `json:"description" binding:"max=2000"`
	Address     string       `json:"address" binding:"max=255"`
	City        string       `json:"city" binding:"max=100"`
	Socials     user.Socials `json:"socials"`
	StyleIDs    []int64      `json:"style_ids"`
	ServiceIDs  []int64      `json:"service_ids"`
}

// UpdateStudioRequest: nil fields are left unchanged.
type UpdateStudioRequest struct {
	Name        *string       `json:"name" binding:"omitempty,min=2,max=120"`
	LogoURL     *string       `json:"logo_url"`
	Description *string       `json:"description" binding:"omitempty,max=2000"`
	Address     *string       `json:"address" binding:"omitempty,max=255"`
	City        *string       `json:"city" binding:"omitempty,max=100"`
	Socials     *user.Socials `json:"socials"`
}

type IDsRequest struct {
	IDs []int64 `json:"ids"`
}

type InviteRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// Member is a row of the studio member list. The owner has MembershipID 0.
type Member struct {
	MembershipID int64     `json:"membership_id"`
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	IsOwner      bool      `json:"is_owner"`
	JoinedAt     time.Time `json:"joined_at"`
}

type InvitableArtist struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	City        string `json:"city,omitempty"`
}

// InvitationView is what the invitee (or a deep-link preview) sees.
type InvitationView struct {
	ID            int64            `json:"id"`
	Token         string           `json:"token"`
	StudioID      int64            `json:"studio_id"`
	StudioName    string           `json:"studio_name"`
	StudioLogoURL string           `json:"studio_logo_url,omitempty"`
	UserID        int64            `json:"user_id"`
	Username      string           `json:"username,omitempty"`
	InvitedBy     int64            `json:"invited_by"`
	Status        MembershipStatus `json:"status"`
	Expired       bool             `json:"expired"`
	ExpiresAt     time.Time        `json:"expires_at"`
	CreatedAt     time.Time        `json:"created_at"`
}
