package favorite

import (
	"errors"
	"net/http"
	"strconv"

	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetFavorites godoc
// @Summary List saved artists
// @Tags Favorite
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} ListResponse
// @Router /favorites [get]
func (h *Handler) GetFavorites(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	list, err := h.service.List(c.Request.Context(), userID, page, perPage)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// AddFavorite godoc
// @Summary Save an artist
// @Tags Favorite
// @Security BearerAuth
// @Param artist_id path int true "Artist user ID"
// @Success 201 {object} Favorite
// @Failure 404 {object} map[string]interface{} "Artist not found"
// @Failure 409 {object} map[string]interface{} "Already saved"
// @Router /favorites/{artist_id} [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	artistID, ok := artistParam(c)
	if !ok {
		return
	}

	f, err := h.service.Add(c.Request.Context(), userID, artistID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	artistID, ok := artistParam(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), userID, artistID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "removed")
}

func (h *Handler) CheckFavorite(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	artistID, ok := artistParam(c)
	if !ok {
		return
	}

	saved, err := h.service.IsSaved(c.Request.Context(), userID, artistID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, CheckResponse{IsFavorite: saved})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrArtistNotFound):
		response.Error(c, http.StatusNotFound, "ARTIST_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotSaved):
		response.Error(c, http.StatusNotFound, "FAVORITE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadySaved):
		response.Error(c, http.StatusConflict, "ALREADY_SAVED", err.Error())
	case errors.Is(err, ErrCannotSaveSelf):
		response.Error(c, http.StatusBadRequest, "CANNOT_SAVE_SELF", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func artistParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("artist_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid artist id")
		return 0, false
	}
	return id, true
}

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return id
}
