package relationship

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

type blockRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// Block godoc
// @Summary Block a user
// @Tags Relationships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body blockRequest true "User to block"
// @Success 200 {object} map[string]interface{}
// @Router /relationships/block [post]
func (h *Handler) Block(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.service.Block(c.Request.Context(), userID, req.UserID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "user blocked")
}

// Unblock godoc
// @Summary Unblock a user
// @Tags Relationships
// @Security BearerAuth
// @Param user_id path int true "User ID to unblock"
// @Success 200 {object} map[string]interface{}
// @Router /relationships/block/{user_id} [delete]
func (h *Handler) Unblock(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user_id")
		return
	}
	if err := h.service.Unblock(c.Request.Context(), userID, targetID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "user unblocked")
}

func (h *Handler) ListBlocked(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	blocked, err := h.service.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, blocked)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCannotBlockSelf):
		response.Error(c, http.StatusBadRequest, "CANNOT_BLOCK_SELF", err.Error())
	case errors.Is(err, ErrAlreadyBlocked):
		response.Error(c, http.StatusConflict, "ALREADY_BLOCKED", err.Error())
	case errors.Is(err, ErrNotBlocked):
		response.Error(c, http.StatusNotFound, "NOT_BLOCKED", err.Error())
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
