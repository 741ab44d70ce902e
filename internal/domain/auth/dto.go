package auth

import (
	"inkbook/internal/domain/artist"
	"inkbook/internal/domain/user"
)

// Account is the credentials + public profile part shared by both
// registration flows.
type Account struct {
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=8,max=72"`
	Username    string       `json:"username" binding:"required"`
	DisplayName string       `json:"display_name" binding:"required,max=80"`
	Bio         string       `json:"bio" binding:"max=1000"`
	AvatarURL   string       `json:"avatar_url" binding:"omitempty,url"`
	City        string       `json:"city" binding:"max=80"`
	Socials     user.Socials `json:"socials"`
}

type RegisterLoverRequest struct {
	Account
}

// RegisterArtistRequest is the assembled artist wizard: account fields plus
// the complete artist profile.
type RegisterArtistRequest struct {
	Account
	Profile artist.CreateProfileInput `json:"profile" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	User    *user.User      `json:"user"`
	Profile *artist.Profile `json:"artist_profile,omitempty"`
}
