package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	n, err := s.Put(context.Background(), "image/upload/avatars/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	_, err = os.Stat(filepath.Join(dir, "image", "upload", "avatars", "a.png"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "image/upload/avatars/a.png"))
	require.NoError(t, s.Delete(context.Background(), "image/upload/avatars/a.png"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../outside.txt", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.test/image/upload/a.png", PublicURL("https://cdn.test/", "/image/upload/a.png"))
}
