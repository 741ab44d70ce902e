package user

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Username    *string  `json:"username"`
	DisplayName *string  `json:"display_name" binding:"omitempty,max=80"`
	Bio         *string  `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL   *string  `json:"avatar_url" binding:"omitempty,url"`
	City        *string  `json:"city" binding:"omitempty,max=80"`
	Socials     *Socials `json:"socials"`
}

type VisibilityRequest struct {
	IsVisible *bool `json:"is_visible" binding:"required"`
}

// PublicProfile is what other users see.
type PublicProfile struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Role        Role    `json:"role"`
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio,omitempty"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	City        string  `json:"city,omitempty"`
	Socials     Socials `json:"socials"`
}

func toPublic(u *User) PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		City:        u.City,
		Socials:     u.Socials,
	}
}
