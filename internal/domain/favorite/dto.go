package favorite

type ListResponse struct {
	Favorites  []SavedArtist `json:"favorites"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

type CheckResponse struct {
	IsFavorite bool `json:"is_favorite"`
}
