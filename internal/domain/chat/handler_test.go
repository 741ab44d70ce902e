package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkbook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *Handler, asUser int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		c.Set("user_id", asUser)
		c.Next()
	})
	RegisterRoutes(protected, h)
	return r
}

func TestGetMessagesHandler_ClampedLimitStillReportsMore(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)
	for i := 1; i <= 150; i++ {
		_, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	router := newTestRouter(NewHandler(svc, NewHub(), jwt.New("secret", time.Hour)), artist2ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages?limit=200", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool         `json:"success"`
		Data    MessagesPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Messages, maxPageSize)
	assert.True(t, body.Data.HasMore)
	assert.Equal(t, "m51", body.Data.Messages[0].Content)
	assert.Equal(t, "m150", body.Data.Messages[maxPageSize-1].Content)
}

func TestGetMessagesHandler_LastPageHasNoMore(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		_, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	router := newTestRouter(NewHandler(svc, NewHub(), jwt.New("secret", time.Hour)), artist2ID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages?limit=3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data MessagesPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data.Messages, 3)
	assert.False(t, body.Data.HasMore)
}
