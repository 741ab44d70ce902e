package media

import "time"

// Asset is one stored media object. Any domain stores its URL, not its ID.
type Asset struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	UserID       int64     `gorm:"column:user_id;index" json:"user_id"`
	Folder       string    `gorm:"column:folder" json:"folder"`
	Key          string    `gorm:"column:storage_key" json:"-"`
	URL          string    `gorm:"column:url" json:"secure_url"`
	ResourceType string    `gorm:"column:resource_type" json:"resource_type"`
	Format       string    `gorm:"column:format" json:"format"`
	MimeType     string    `gorm:"column:mime_type" json:"mime_type"`
	Bytes        int64     `gorm:"column:bytes" json:"bytes"`
	Width        int       `gorm:"column:width" json:"width,omitempty"`
	Height       int       `gorm:"column:height" json:"height,omitempty"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Asset) TableName() string { return "media_assets" }

func Models() []any {
	return []any{&Asset{}}
}
