package media

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, svc *Service, userID int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	RegisterRoutes(api, NewHandler(svc))
	return r
}

func uploadRequest(t *testing.T, folder, maxSize string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("folder", folder))
	if maxSize != "" {
		require.NoError(t, mw.WriteField("max_size", maxSize))
	}
	fw, err := mw.CreateFormFile("file", "flash.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	r := setupRouter(t, svc, 3)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "avatars", "", pngBytes(t, 12, 12)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool          `json:"success"`
		Data    AssetResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "image", resp.Data.ResourceType)
	assert.Equal(t, 12, resp.Data.Width)
	assert.Contains(t, resp.Data.SecureURL, "/image/upload/avatars/")
}

func TestHandler_UploadErrors(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	r := setupRouter(t, svc, 3)
	img := pngBytes(t, 12, 12)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "avatars", "16", img))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "nope", "", img))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "avatars", "abc", img))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeleteForbiddenForOthers(t *testing.T) {
	svc, _ := newTestService(t, 1<<20)
	owner := setupRouter(t, svc, 3)

	w := httptest.NewRecorder()
	owner.ServeHTTP(w, uploadRequest(t, "portfolio", "", pngBytes(t, 2, 2)))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data AssetResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	other := setupRouter(t, svc, 4)
	w = httptest.NewRecorder()
	other.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/media/"+resp.Data.ID, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	owner.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/media/"+resp.Data.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	owner.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/media/"+resp.Data.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
