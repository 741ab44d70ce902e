package search

// ArtistFilter is bound from the query string:
// ?q=&style_ids=1&style_ids=2&service_ids=3&city=&limit=&offset=
type ArtistFilter struct {
	Query      string  `form:"q"`
	StyleIDs   []int64 `form:"style_ids"`
	ServiceIDs []int64 `form:"service_ids"`
	City       string  `form:"city"`
	Limit      int     `form:"limit"`
	Offset     int     `form:"offset"`
}

type StudioFilter struct {
	Query    string  `form:"q"`
	StyleIDs []int64 `form:"style_ids"`
	City     string  `form:"city"`
	Limit    int     `form:"limit"`
	Offset   int     `form:"offset"`
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
