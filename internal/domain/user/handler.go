package user

import (
	"errors"
	"net/http"

	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMe godoc
// @Summary Current user's full profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	u, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// UpdateMe godoc
// @Summary Partial profile update
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "Changed fields only"
// @Router /users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) SetVisibility(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.service.SetVisibility(c.Request.Context(), userID, *req.IsVisible); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"is_visible": *req.IsVisible})
}

func (h *Handler) GetByUsername(c *gin.Context) {
	viewerID := c.GetInt64("user_id")
	p, err := h.service.GetByUsername(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrUsernameTaken):
		response.Error(c, http.StatusConflict, "USERNAME_TAKEN", err.Error())
	case errors.Is(err, ErrInvalidUsername):
		response.Error(c, http.StatusBadRequest, "INVALID_USERNAME", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return id
}
