package api

import "time"

type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	X         string `json:"x,omitempty"`
	Website   string `json:"website,omitempty"`
}

type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	City        string    `json:"city,omitempty"`
	Socials     Socials   `json:"socials"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// UserUpdate: nil fields are left unchanged.
type UserUpdate struct {
	Username    *string  `json:"username,omitempty"`
	DisplayName *string  `json:"display_name,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	AvatarURL   *string  `json:"avatar_url,omitempty"`
	City        *string  `json:"city,omitempty"`
	Socials     *Socials `json:"socials,omitempty"`
}

type CatalogItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type StyleChoice struct {
	StyleID   int64 `json:"style_id" validate:"required"`
	IsPrimary bool  `json:"is_primary"`
}

type ProfileStyle struct {
	StyleID   int64 `json:"style_id"`
	Position  int   `json:"position"`
	IsPrimary bool  `json:"is_primary"`
}

type ProjectMedia struct {
	ID           int64  `json:"id,omitempty"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type,omitempty"`
	Position     int    `json:"position,omitempty"`
}

type Project struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Media       []ProjectMedia `json:"media"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ProjectInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Media       []ProjectMedia `json:"media"`
}

type ArtistProfile struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"user_id"`
	HourlyRate      int64          `json:"hourly_rate"`
	MinimumCharge   int64          `json:"minimum_charge"`
	Currency        string         `json:"currency"`
	WorkArrangement string         `json:"work_arrangement"`
	Styles          []ProfileStyle `json:"styles"`
	Services        []struct {
		ServiceID int64 `json:"service_id"`
	} `json:"services"`
	BodyParts []struct {
		BodyPartID int64 `json:"body_part_id"`
	} `json:"body_parts"`
	Projects   []Project `json:"projects"`
	IsComplete bool      `json:"is_complete"`
	Missing    []string  `json:"missing,omitempty"`
}

func (p *ArtistProfile) StyleChoices() []StyleChoice {
	out := make([]StyleChoice, 0, len(p.Styles))
	for _, s := range p.Styles {
		out = append(out, StyleChoice{StyleID: s.StyleID, IsPrimary: s.IsPrimary})
	}
	return out
}

func (p *ArtistProfile) ServiceIDs() []int64 {
	out := make([]int64, 0, len(p.Services))
	for _, s := range p.Services {
		out = append(out, s.ServiceID)
	}
	return out
}

func (p *ArtistProfile) BodyPartIDs() []int64 {
	out := make([]int64, 0, len(p.BodyParts))
	for _, b := range p.BodyParts {
		out = append(out, b.BodyPartID)
	}
	return out
}

type Rates struct {
	HourlyRate      *int64  `json:"hourly_rate,omitempty"`
	MinimumCharge   *int64  `json:"minimum_charge,omitempty"`
	Currency        *string `json:"currency,omitempty"`
	WorkArrangement *string `json:"work_arrangement,omitempty"`
}

type Studio struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	Name        string  `json:"name"`
	LogoURL     string  `json:"logo_url,omitempty"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	Socials     Socials `json:"socials"`
	Styles      []struct {
		StyleID int64 `json:"style_id"`
	} `json:"styles"`
	Services []struct {
		ServiceID int64 `json:"service_id"`
	} `json:"services"`
}

func (s *Studio) StyleIDs() []int64 {
	out := make([]int64, 0, len(s.Styles))
	for _, st := range s.Styles {
		out = append(out, st.StyleID)
	}
	return out
}

func (s *Studio) ServiceIDs() []int64 {
	out := make([]int64, 0, len(s.Services))
	for _, sv := range s.Services {
		out = append(out, sv.ServiceID)
	}
	return out
}

type StudioUpdate struct {
	Name        *string  `json:"name,omitempty"`
	LogoURL     *string  `json:"logo_url,omitempty"`
	Description *string  `json:"description,omitempty"`
	Address     *string  `json:"address,omitempty"`
	City        *string  `json:"city,omitempty"`
	Socials     *Socials `json:"socials,omitempty"`
}

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

// Invitation statuses.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationRejected = "REJECTED"
)

type Invitation struct {
	ID            int64     `json:"id"`
	Token         string    `json:"token,omitempty"`
	StudioID      int64     `json:"studio_id"`
	StudioName    string    `json:"studio_name,omitempty"`
	StudioLogoURL string    `json:"studio_logo_url,omitempty"`
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	InvitedBy     int64     `json:"invited_by,omitempty"`
	Status        string    `json:"status"`
	Expired       bool      `json:"expired,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// Membership is the row returned by accept/reject.
type Membership struct {
	ID          int64      `json:"id"`
	StudioID    int64      `json:"studio_id"`
	UserID      int64      `json:"user_id"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Conversation statuses.
const (
	ConversationRequested = "REQUESTED"
	ConversationActive    = "ACTIVE"
	ConversationDeclined  = "DECLINED"
)

type Conversation struct {
	ID            string     `json:"id"`
	UserAID       int64      `json:"user_a_id"`
	UserBID       int64      `json:"user_b_id"`
	InitiatorID   int64      `json:"initiator_id"`
	Status        string     `json:"status"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	OtherUserID   int64      `json:"other_user_id,omitempty"`
	UnreadCount   int        `json:"unread_count,omitempty"`
	LastMessage   *Message   `json:"last_message,omitempty"`
}

type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       int64      `json:"sender_id"`
	Content        string     `json:"content"`
	MediaURL       string     `json:"media_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
}

type NewMessage struct {
	ID       string `json:"id,omitempty"`
	Content  string `json:"content"`
	MediaURL string `json:"media_url,omitempty"`
}

// Cursor addresses the page of messages strictly older than (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

type MessagesPage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"`
}

type PlanFeatures struct {
	FeaturedListing    bool `json:"featured_listing"`
	UnlimitedPortfolio bool `json:"unlimited_portfolio"`
	StudioTools        bool `json:"studio_tools"`
	Analytics          bool `json:"analytics"`
}

type Plan struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	PriceMonthly int64        `json:"price_monthly"`
	PriceYearly  int64        `json:"price_yearly"`
	Currency     string       `json:"currency"`
	TrialDays    int          `json:"trial_days"`
	MaxProjects  int          `json:"max_projects"`
	Features     PlanFeatures `json:"features"`
}

type Subscription struct {
	ID               string       `json:"id,omitempty"`
	PlanID           string       `json:"plan_id"`
	PlanName         string       `json:"plan_name"`
	Status           string       `json:"status"`
	BillingCycle     string       `json:"billing_cycle"`
	TrialEndsAt      *time.Time   `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time   `json:"current_period_end,omitempty"`
	DaysRemaining    int          `json:"days_remaining"`
	Features         PlanFeatures `json:"features"`
}

type Checkout struct {
	SubscriptionID string `json:"subscription_id"`
	CheckoutURL    string `json:"checkout_url"`
	Status         string `json:"status"`
}

type Asset struct {
	ID           string    `json:"id"`
	SecureURL    string    `json:"secure_url"`
	ResourceType string    `json:"resource_type"`
	Format       string    `json:"format"`
	Bytes        int64     `json:"bytes"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	IOSURL       string    `json:"ios_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ArtistResult struct {
	UserID          int64  `json:"user_id"`
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	City            string `json:"city,omitempty"`
	HourlyRate      int64  `json:"hourly_rate"`
	Currency        string `json:"currency,omitempty"`
	WorkArrangement string `json:"work_arrangement"`
}

type StudioResult struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
	City    string `json:"city,omitempty"`
}

type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type Session struct {
	Token   string         `json:"token"`
	User    User           `json:"user"`
	Profile *ArtistProfile `json:"artist_profile,omitempty"`
}

type Notification struct {
	ID        int64          `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type Inbox struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
	Total         int64          `json:"total"`
}

type SavedArtist struct {
	ArtistID        int64     `json:"artist_id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	City            string    `json:"city,omitempty"`
	HourlyRate      int64     `json:"hourly_rate"`
	Currency        string    `json:"currency"`
	WorkArrangement string    `json:"work_arrangement"`
	SavedAt         time.Time `json:"saved_at"`
}

type Favorites struct {
	Favorites  []SavedArtist `json:"favorites"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

type BlockedUser struct {
	UserID    int64     `json:"user_id"`
	BlockedAt time.Time `json:"blocked_at"`
}
