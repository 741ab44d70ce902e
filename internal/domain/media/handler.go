package media

import (
	"errors"
	"net/http"
	"strconv"

	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for media uploads.
// Any authenticated user can upload. Ownership is tracked by user_id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload an image or video
// @Description Multipart upload with a folder tag and an optional max_size hint in bytes.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param folder formData string true "avatars | portfolio | studio_logos | chat"
// @Param max_size formData int false "Max size hint in bytes, capped by the server"
// @Success 201 {object} AssetResponse
// @Failure 400,401,413,500 {object} map[string]interface{}
// @Router /media [post]
func (h *Handler) Upload(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var hint int64
	if raw := c.PostForm("max_size"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "max_size must be a positive integer")
			return
		}
		hint = v
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.Limit(hint)+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			handleError(c, ErrFileTooLarge)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "no file provided")
		return
	}

	asset, err := h.service.Upload(c.Request.Context(), userID, c.PostForm("folder"), fileHeader, hint)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toResponse(asset))
}

func (h *Handler) GetByID(c *gin.Context) {
	asset, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(asset))
}

func (h *Handler) ListMy(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	assets, err := h.service.ListByUser(c.Request.Context(), userID, c.Query("folder"))
	if err != nil {
		handleError(c, err)
		return
	}
	items := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, toResponse(a))
	}
	response.Success(c, http.StatusOK, items)
}

// Delete godoc
// @Summary Delete an uploaded media object
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param id path string true "Media ID"
// @Failure 403,404,500 {object} map[string]interface{}
// @Router /media/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "deleted")
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAssetNotFound):
		response.Error(c, http.StatusNotFound, "MEDIA_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotOwner):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ErrInvalidMimeType), errors.Is(err, ErrInvalidFolder), errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "upload failed")
	}
}

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return id
}
