package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Storage persists media objects under slash-separated keys.
type Storage interface {
	// Put stores data under key and returns the number of bytes written
	Put(ctx context.Context, key string, contentType string, data io.Reader) (int64, error)

	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error
}

// Type represents the storage backend type
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config holds configuration for storage
type Config struct {
	Type         Type
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// New creates a storage instance based on configuration
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// PublicURL joins the public base URL and an object key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
