package favorite

import "time"

// Favorite is an artist saved by a user. Each (user, artist) pair appears once.
type Favorite struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index;uniqueIndex:idx_favorites_user_artist" json:"user_id"`
	ArtistID  int64     `gorm:"column:artist_id;not null;index;uniqueIndex:idx_favorites_user_artist" json:"artist_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Favorite) TableName() string { return "favorites" }

func Models() []any {
	return []any{&Favorite{}}
}

// SavedArtist is the list row: the artist card plus when it was saved.
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
