package artist

import "time"

type WorkArrangement string

const (
	WorkStudio    WorkArrangement = "studio"
	WorkGuest     WorkArrangement = "guest"
	WorkPrivate   WorkArrangement = "private"
	WorkTraveling WorkArrangement = "traveling"
)

func (w WorkArrangement) Valid() bool {
	switch w {
	case WorkStudio, WorkGuest, WorkPrivate, WorkTraveling:
		return true
	}
	return false
}

// Catalog rows, seeded by cmd/seed.

type Style struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Slug string `gorm:"column:slug;uniqueIndex" json:"slug"`
}

func (Style) TableName() string { return "styles" }

type TattooService struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Slug string `gorm:"column:slug;uniqueIndex" json:"slug"`
}

func (TattooService) TableName() string { return "services" }

type BodyPart struct {
	ID   int64  `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
	Slug string `gorm:"column:slug;uniqueIndex" json:"slug"`
}

func (BodyPart) TableName() string { return "body_parts" }

// Profile is the 1:1 artist extension of a user.
type Profile struct {
	ID              int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID          int64           `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	HourlyRate      int64           `gorm:"column:hourly_rate" json:"hourly_rate"`
	MinimumCharge   int64           `gorm:"column:minimum_charge" json:"minimum_charge"`
	Currency        string          `gorm:"column:currency" json:"currency"`
	WorkArrangement WorkArrangement `gorm:"column:work_arrangement" json:"work_arrangement"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Styles    []ProfileStyle    `gorm:"foreignKey:ProfileID" json:"styles"`
	Services  []ProfileService  `gorm:"foreignKey:ProfileID" json:"services"`
	BodyParts []ProfileBodyPart `gorm:"foreignKey:ProfileID" json:"body_parts"`
	Projects  []Project         `gorm:"foreignKey:ProfileID" json:"projects"`
}

func (Profile) TableName() string { return "artist_profiles" }

type ProfileStyle struct {
	ProfileID int64 `gorm:"column:profile_id;primaryKey" json:"-"`
	StyleID   int64 `gorm:"column:style_id;primaryKey" json:"style_id"`
	Position  int   `gorm:"column:position" json:"position"`
	IsPrimary bool  `gorm:"column:is_primary" json:"is_primary"`
}

func (ProfileStyle) TableName() string { return "artist_styles" }

type ProfileService struct {
	ProfileID int64 `gorm:"column:profile_id;primaryKey" json:"-"`
	ServiceID int64 `gorm:"column:service_id;primaryKey" json:"service_id"`
}

func (ProfileService) TableName() string { return "artist_services" }

type ProfileBodyPart struct {
	ProfileID  int64 `gorm:"column:profile_id;primaryKey" json:"-"`
	BodyPartID int64 `gorm:"column:body_part_id;primaryKey" json:"body_part_id"`
}

func (ProfileBodyPart) TableName() string { return "artist_body_parts" }

// Project is one portfolio entry with ordered media.
type Project struct {
	ID          int64          `gorm:"column:id;primaryKey" json:"id"`
	ProfileID   int64          `gorm:"column:profile_id;index" json:"profile_id"`
	Title       string         `gorm:"column:title" json:"title"`
	Description string         `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
	Media       []ProjectMedia `gorm:"foreignKey:ProjectID" json:"media"`
}

func (Project) TableName() string { return "artist_projects" }

type ProjectMedia struct {
	ID           int64  `gorm:"column:id;primaryKey" json:"id"`
	ProjectID    int64  `gorm:"column:project_id;index" json:"-"`
	URL          string `gorm:"column:url" json:"url"`
	ResourceType string `gorm:"column:resource_type" json:"resource_type"`
	Position     int    `gorm:"column:position" json:"position"`
}

func (ProjectMedia) TableName() string { return "artist_project_media" }

// Models lists every table owned by this package, for migrations.
func Models() []any {
	return []any{
		&Style{}, &TattooService{}, &BodyPart{},
		&Profile{}, &ProfileStyle{}, &ProfileService{}, &ProfileBodyPart{},
		&Project{}, &ProjectMedia{},
	}
}

// StyleIDs returns the style ids in display order.
func (p *Profile) StyleIDs() []int64 {
	ids := make([]int64, 0, len(p.Styles))
	for _, s := range p.Styles {
		ids = append(ids, s.StyleID)
	}
	return ids
}

func (p *Profile) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(p.Services))
	for _, s := range p.Services {
		ids = append(ids, s.ServiceID)
	}
	return ids
}

func (p *Profile) BodyPartIDs() []int64 {
	ids := make([]int64, 0, len(p.BodyParts))
	for _, b := range p.BodyParts {
		ids = append(ids, b.BodyPartID)
	}
	return ids
}
