package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"inkbook/internal/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:media_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func newTestService(t *testing.T, maxBytes int64) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewService(NewRepository(setupTestDB(t)), store, "https://cdn.ink.test", maxBytes), dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fileHeader round-trips content through a multipart form so the header
// behaves like one parsed from a real request.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestUpload_StoresImageWithDimensions(t *testing.T) {
	svc, dir := newTestService(t, 1<<20)
	ctx := context.Background()

	asset, err := svc.Upload(ctx, 7, "portfolio", fileHeader(t, "sleeve.png", pngBytes(t, 40, 20)), 0)
	require.NoError(t, err)

	assert.Equal(t, "image", asset.ResourceType)
	assert.Equal(t, "png", asset.Format)
	assert.Equal(t, 40, asset.Width)
	assert.Equal(t, 20, asset.Height)
	assert.Equal(t, "sleeve.png", asset.OriginalName)
	assert.Equal(t, fmt.Sprintf("image/upload/portfolio/%s.png", asset.ID), asset.Key)
	assert.Equal(t, "https://cdn.ink.test/"+asset.Key, asset.URL)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(asset.Key)))
	assert.NoError(t, err)

	mine, err := svc.ListByUser(ctx, 7, "portfolio")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	none, err := svc.ListByUser(ctx, 7, "avatars")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpload_Rejections(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	ctx := context.Background()
	img := pngBytes(t, 8, 8)

	_, err := svc.Upload(ctx, 1, "memes", fileHeader(t, "a.png", img), 0)
	assert.ErrorIs(t, err, ErrInvalidFolder)

	_, err = svc.Upload(ctx, 1, "avatars", fileHeader(t, "a.txt", []byte("just some plain text")), 0)
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = svc.Upload(ctx, 1, "avatars", fileHeader(t, "empty.png", nil), 0)
	assert.ErrorIs(t, err, ErrEmptyFile)

	// a hint below the file size rejects it
	_, err = svc.Upload(ctx, 1, "avatars", fileHeader(t, "a.png", img), 10)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLimit_HintOnlyLowers(t *testing.T) {
	svc, _ := newTestService(t, 1000)
	assert.Equal(t, int64(1000), svc.Limit(0))
	assert.Equal(t, int64(200), svc.Limit(200))
	assert.Equal(t, int64(1000), svc.Limit(5000))
}

func TestDelete_OwnerOnly(t *testing.T) {
	svc, dir := newTestService(t, 1<<20)
	ctx := context.Background()

	asset, err := svc.Upload(ctx, 7, "chat", fileHeader(t, "pic.png", pngBytes(t, 4, 4)), 0)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, asset.ID, 8), ErrNotOwner)
	require.NoError(t, svc.Delete(ctx, asset.ID, 7))

	_, err = svc.GetByID(ctx, asset.ID)
	assert.ErrorIs(t, err, ErrAssetNotFound)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(asset.Key)))
	assert.True(t, os.IsNotExist(err))
}
