package media

import (
	"time"

	"inkbook/internal/pkg/cdn"
)

// AssetResponse mirrors the CDN upload response the app stores.
type AssetResponse struct {
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

func toResponse(a *Asset) AssetResponse {
	resp := AssetResponse{
		ID:           a.ID,
		SecureURL:    a.URL,
		ResourceType: a.ResourceType,
		Format:       a.Format,
		Bytes:        a.Bytes,
		Width:        a.Width,
		Height:       a.Height,
		CreatedAt:    a.CreatedAt,
	}
	if a.ResourceType == "video" {
		resp.ThumbnailURL = cdn.VideoThumbnailURL(a.URL)
		resp.IOSURL = cdn.IOSCompatibleURL(a.URL)
	}
	return resp
}
