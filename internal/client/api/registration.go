package api

import (
	"inkbook/internal/pkg/validator"
)

// LoverRegistration is the assembled tattoo-lover wizard. Field names match
// the wizard's step fields so a wizard can decode straight into it.
type LoverRegistration struct {
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8,max=72"`
	Username      string  `json:"username" validate:"required,min=3,max=30"`
	DisplayName   string  `json:"display_name" validate:"required,max=80"`
	AvatarURL     string  `json:"avatar_url" validate:"omitempty,url"`
	City          string  `json:"city" validate:"max=80"`
	Bio           string  `json:"bio" validate:"max=1000"`
	Socials       Socials `json:"socials"`
	AcceptedTerms bool    `json:"accepted_terms" validate:"eq=true"`
}

func (r LoverRegistration) Validate() error {
	if fields := validator.Validate(r); fields != nil {
		return FieldErrors(fields)
	}
	return nil
}

// ArtistRegistration is the assembled artist wizard, flat as the wizard
// collects it. RegisterArtist nests the profile part for the wire.
type ArtistRegistration struct {
	Email           string        `json:"email" validate:"required,email"`
	Password        string        `json:"password" validate:"required,min=8,max=72"`
	Username        string        `json:"username" validate:"required,min=3,max=30"`
	DisplayName     string        `json:"display_name" validate:"required,max=80"`
	AvatarURL       string        `json:"avatar_url" validate:"omitempty,url"`
	City            string        `json:"city" validate:"required,max=80"`
	Bio             string        `json:"bio" validate:"max=1000"`
	Socials         Socials       `json:"socials"`
	WorkArrangement string        `json:"work_arrangement" validate:"required,oneof=studio guest private traveling"`
	HourlyRate      int64         `json:"hourly_rate" validate:"gte=0"`
	MinimumCharge   int64         `json:"minimum_charge" validate:"gte=0"`
	Currency        string        `json:"currency" validate:"omitempty,len=3"`
	Styles          []StyleChoice `json:"styles" validate:"min=2,dive"`
	ServiceIDs      []int64       `json:"service_ids" validate:"min=1"`
	BodyPartIDs     []int64       `json:"body_part_ids" validate:"min=1"`
}

// Validate applies the tag rules plus the one-primary-style rule the
// backend enforces at registration.
func (r ArtistRegistration) Validate() error {
	fields := validator.Validate(r)
	primaries := 0
	for _, s := range r.Styles {
		if s.IsPrimary {
			primaries++
		}
	}
	if len(r.Styles) > 0 && primaries != 1 {
		if fields == nil {
			fields = map[string]string{}
		}
		fields["Styles"] = "one_primary"
	}
	if fields != nil {
		return FieldErrors(fields)
	}
	return nil
}

type artistProfileBody struct {
	HourlyRate      int64         `json:"hourly_rate"`
	MinimumCharge   int64         `json:"minimum_charge"`
	Currency        string        `json:"currency,omitempty"`
	WorkArrangement string        `json:"work_arrangement"`
	Styles          []StyleChoice `json:"styles"`
	ServiceIDs      []int64       `json:"service_ids"`
	BodyPartIDs     []int64       `json:"body_part_ids"`
}

type accountBody struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	City        string  `json:"city,omitempty"`
	Bio         string  `json:"bio,omitempty"`
	Socials     Socials `json:"socials"`
}

type artistRegistrationBody struct {
	accountBody
	Profile artistProfileBody `json:"profile"`
}

func (r ArtistRegistration) wire() artistRegistrationBody {
	return artistRegistrationBody{
		accountBody: accountBody{
			Email: r.Email, Password: r.Password, Username: r.Username, DisplayName: r.DisplayName,
			AvatarURL: r.AvatarURL, City: r.City, Bio: r.Bio, Socials: r.Socials,
		},
		Profile: artistProfileBody{
			HourlyRate:      r.HourlyRate,
			MinimumCharge:   r.MinimumCharge,
			Currency:        r.Currency,
			WorkArrangement: r.WorkArrangement,
			Styles:          r.Styles,
			ServiceIDs:      r.ServiceIDs,
			BodyPartIDs:     r.BodyPartIDs,
		},
	}
}

func (r LoverRegistration) wire() accountBody {
	return accountBody{
		Email: r.Email, Password: r.Password, Username: r.Username, DisplayName: r.DisplayName,
		AvatarURL: r.AvatarURL, City: r.City, Bio: r.Bio, Socials: r.Socials,
	}
}

// StudioSetup is the assembled studio-setup wizard. InviteUserIDs are sent as
// invitations once the studio exists.
type StudioSetup struct {
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	LogoURL       string  `json:"logo_url" validate:"omitempty,url"`
	Description   string  `json:"description" validate:"max=2000"`
	Address       string  `json:"address" validate:"required,max=255"`
	City          string  `json:"city" validate:"required,max=100"`
	Socials       Socials `json:"socials"`
	StyleIDs      []int64 `json:"style_ids" validate:"min=1"`
	ServiceIDs    []int64 `json:"service_ids" validate:"min=1"`
	InviteUserIDs []int64 `json:"invite_user_ids"`
}

func (s StudioSetup) Validate() error {
	if fields := validator.Validate(s); fields != nil {
		return FieldErrors(fields)
	}
	return nil
}
