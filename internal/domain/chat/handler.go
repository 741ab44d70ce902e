package chat

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"inkbook/internal/pkg/jwt"
	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the chat domain
type Handler struct {
	service *Service
	hub     *Hub
	jwt     *jwt.Service
}

func NewHandler(service *Service, hub *Hub, jwtService *jwt.Service) *Handler {
	return &Handler{service: service, hub: hub, jwt: jwtService}
}

// StartConversation godoc
// @Summary Start or get the conversation with a user
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body StartConversationRequest true "Other participant"
// @Success 201 {object} Conversation
// @Router /conversations [post]
func (h *Handler) StartConversation(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	conv, created, err := h.service.StartConversation(c.Request.Context(), userID, req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, conv)
}

// ListConversations godoc
// @Summary List my conversations
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Router /conversations [get]
func (h *Handler) ListConversations(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	convs, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, convs)
}

func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	n, err := h.service.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unread_count": n})
}

func (h *Handler) GetConversation(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	conv, err := h.service.GetConversation(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, conv)
}

func (h *Handler) Accept(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	conv, err := h.service.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, conv)
}

func (h *Handler) Decline(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	conv, err := h.service.Decline(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, conv)
}

// GetMessages godoc
// @Summary Get one page of messages, oldest first
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param before query string false "created_at of the oldest held message (RFC3339)"
// @Param before_id query string false "id of the oldest held message"
// @Param limit query int false "Limit (default 30, max 100)"
// @Success 200 {object} MessagesPage
// @Router /conversations/{id}/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var cursor *Cursor
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_CURSOR", "before must be RFC3339")
			return
		}
		cursor = &Cursor{CreatedAt: t.UTC(), ID: c.Query("before_id")}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 {
		limit = defaultPageSize
	}

	page, err := h.service.ListMessages(c.Request.Context(), userID, c.Param("id"), cursor, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// SendMessage godoc
// @Summary Send a message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} Message
// @Router /conversations/{id}/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	msg, err := h.service.SendMessage(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	n, err := h.service.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": n})
}

// WebSocket upgrades GET /ws?token=JWT. Browsers cannot set headers on the
// handshake, so the token travels in the query.
func (h *Handler) WebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%d err=%v", claims.UserID, err)
		return
	}
	h.hub.ServeWS(conn, claims.UserID, h.service)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound), errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotRecipient):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAwaitingAcceptance):
		response.Error(c, http.StatusForbidden, "AWAITING_ACCEPTANCE", err.Error())
	case errors.Is(err, ErrConversationDeclined):
		response.Error(c, http.StatusForbidden, "CONVERSATION_DECLINED", err.Error())
	case errors.Is(err, ErrBlocked):
		response.Error(c, http.StatusForbidden, "BLOCKED", err.Error())
	case errors.Is(err, ErrNotRequested), errors.Is(err, ErrMessageIDConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrCannotChatSelf), errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidMessageID):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
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
