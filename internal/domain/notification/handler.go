package notification

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

// GetNotifications godoc
// @Summary List notifications
// @Description Latest notifications of the current user with the unread count.
// @Tags Notifications
// @Security BearerAuth
// @Param unread_only query bool false "Only unread"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Router /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	list, err := h.service.List(c.Request.Context(), userID, q)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// GetUnreadCount godoc
// @Summary Unread notification count
// @Tags Notifications
// @Security BearerAuth
// @Success 200 {object} UnreadCountResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	n, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, UnreadCountResponse{UnreadCount: n})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "all_read", "marked": n})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func mustUserID(c *gin.Context) int64 {
	id := c.GetInt64("user_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	}
	return id
}
