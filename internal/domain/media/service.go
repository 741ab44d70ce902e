package media

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"inkbook/internal/pkg/storage"

	"github.com/google/uuid"
)

// Folders are the category tags a client may upload into.
var Folders = map[string]bool{
	"avatars":      true,
	"portfolio":    true,
	"studio_logos": true,
	"chat":         true,
}

// allowed maps sniffed MIME types to resource type and format.
var allowed = map[string]struct {
	resourceType string
	format       string
}{
	"image/jpeg": {"image", "jpg"},
	"image/png":  {"image", "png"},
	"image/gif":  {"image", "gif"},
	"image/webp": {"image", "webp"},
	"video/mp4":  {"video", "mp4"},
	"video/webm": {"video", "webm"},
}

type Service struct {
	repo       Repository
	store      storage.Storage
	publicBase string
	maxBytes   int64
}

func NewService(repo Repository, store storage.Storage, publicBase string, maxBytes int64) *Service {
	return &Service{repo: repo, store: store, publicBase: publicBase, maxBytes: maxBytes}
}

// Limit returns the effective size cap; a positive hint can only lower it.
func (s *Service) Limit(hint int64) int64 {
	if hint > 0 && hint < s.maxBytes {
		return hint
	}
	return s.maxBytes
}

// Upload sniffs, measures and stores one file under
// <image|video>/upload/<folder>/<uuid>.<ext>.
func (s *Service) Upload(ctx context.Context, userID int64, folder string, fileHeader *multipart.FileHeader, maxSizeHint int64) (*Asset, error) {
	if !Folders[folder] {
		return nil, ErrInvalidFolder
	}
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.Limit(maxSizeHint) {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	kind, ok := allowed[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}

	var width, height int
	if kind.resourceType == "image" {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if cfg, _, err := image.DecodeConfig(file); err == nil {
			width, height = cfg.Width, cfg.Height
		}
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	key := fmt.Sprintf("%s/upload/%s/%s.%s", kind.resourceType, folder, id, kind.format)
	written, err := s.store.Put(ctx, key, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	asset := &Asset{
		ID:           id,
		UserID:       userID,
		Folder:       folder,
		Key:          key,
		URL:          storage.PublicURL(s.publicBase, key),
		ResourceType: kind.resourceType,
		Format:       kind.format,
		MimeType:     mimeType,
		Bytes:        written,
		Width:        width,
		Height:       height,
		OriginalName: filepath.Base(fileHeader.Filename),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, asset); err != nil {
		_ = s.store.Delete(ctx, key) // rollback object on DB error
		return nil, fmt.Errorf("failed to save media record: %w", err)
	}

	log.Printf("media_uploaded id=%s user_id=%d folder=%s type=%s bytes=%d", id, userID, folder, mimeType, written)
	return asset, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID int64, folder string) ([]*Asset, error) {
	return s.repo.ListByUserID(ctx, userID, folder)
}

// Delete removes the stored object and the record. Only the uploader may.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if asset.UserID != userID {
		return ErrNotOwner
	}
	if err := s.store.Delete(ctx, asset.Key); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
