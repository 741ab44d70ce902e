package relationship

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:relationship_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))
	return NewService(NewRepository(db))
}

func TestBlock_IsSymmetricForChecks(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Block(ctx, 1, 1), ErrCannotBlockSelf)
	require.NoError(t, svc.Block(ctx, 1, 2))
	assert.ErrorIs(t, svc.Block(ctx, 1, 2), ErrAlreadyBlocked)

	blocked, err := svc.IsBlocked(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, blocked)

	list, err := svc.ListBlocked(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Unblock(ctx, 1, 2))
	assert.ErrorIs(t, svc.Unblock(ctx, 1, 2), ErrNotBlocked)

	blocked, err = svc.IsBlocked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestHandler_BlockFlow(t *testing.T) {
	svc := setupTestService(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", int64(5))
		c.Next()
	})
	RegisterRoutes(api, NewHandler(svc))

	block := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/relationships/block", bytes.NewBufferString(`{"user_id":6}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, block())
	assert.Equal(t, http.StatusConflict, block())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/relationships/blocked", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":6`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/relationships/block/6", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
