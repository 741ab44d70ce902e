package user

import "time"

type Role string

const (
	RoleArtist      Role = "artist"
	RoleTattooLover Role = "tattoo_lover"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleArtist || r == RoleTattooLover || r == RoleAdmin
}

// Socials are stored as one JSON column; empty handles are omitted.
type Socials struct {
	Instagram string `json:"instagram,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	X         string `json:"x,omitempty"`
	Website   string `json:"website,omitempty"`
}

type User struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         Role      `gorm:"column:role;index" json:"role"`
	DisplayName  string    `gorm:"column:display_name" json:"display_name"`
	Bio          string    `gorm:"column:bio" json:"bio,omitempty"`
	AvatarURL    string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	City         string    `gorm:"column:city;index" json:"city,omitempty"`
	Socials      Socials   `gorm:"column:socials;serializer:json" json:"socials"`
	IsVisible    bool      `gorm:"column:is_visible" json:"is_visible"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }
