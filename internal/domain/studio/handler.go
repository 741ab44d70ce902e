package studio

import (
	"context"
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

// CreateStudio godoc
// @Summary Create the caller's studio
// @Tags Studios
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateStudioRequest true "Studio"
// @Router /studios [post]
func (h *Handler) CreateStudio(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req CreateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	st, err := h.service.CreateStudio(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, st)
}

func (h *Handler) GetMyStudio(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	st, err := h.service.GetMyStudio(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) GetStudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	st, err := h.service.GetStudio(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

// UpdateStudio godoc
// @Summary Partial studio update
// @Tags Studios
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Studio ID"
// @Param body body UpdateStudioRequest true "Changed fields only"
// @Router /studios/{id} [patch]
func (h *Handler) UpdateStudio(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	st, err := h.service.UpdateStudio(c.Request.Context(), userID, id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) SetStyles(c *gin.Context) {
	h.setIDs(c, h.service.SetStudioStyles)
}

func (h *Handler) SetServices(c *gin.Context) {
	h.setIDs(c, h.service.SetStudioServices)
}

func (h *Handler) setIDs(c *gin.Context, apply func(ctx context.Context, ownerID, studioID int64, ids []int64) (*Studio, error)) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	st, err := apply(c.Request.Context(), userID, id, req.IDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) ListMembers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	members, err := h.service.ListMembers(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, members)
}

// SearchInvitable godoc
// @Summary Artists the owner can invite
// @Tags Studios
// @Security BearerAuth
// @Produce json
// @Param id path int true "Studio ID"
// @Param q query string false "Username or display name"
// @Param limit query int false "Max results (default 20)"
// @Router /studios/{id}/invitable [get]
func (h *Handler) SearchInvitable(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	artists, err := h.service.SearchInvitableArtists(c.Request.Context(), userID, id, c.Query("q"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, artists)
}

// Invite godoc
// @Summary Invite an artist to the studio
// @Tags Studios
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Studio ID"
// @Param body body InviteRequest true "Invitee"
// @Router /studios/{id}/invitations [post]
func (h *Handler) Invite(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	m, err := h.service.Invite(c.Request.Context(), userID, id, req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":         m.ID,
		"studio_id":  m.StudioID,
		"user_id":    m.UserID,
		"status":     m.Status,
		"token":      m.Token,
		"expires_at": m.ExpiresAt,
	})
}

func (h *Handler) ListStudioInvitations(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	views, err := h.service.ListStudioInvitations(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	membershipID, ok := pathID(c, "membership_id")
	if !ok {
		return
	}
	if err := h.service.RemoveMember(c.Request.Context(), userID, membershipID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "member removed")
}

func (h *Handler) ListMyInvitations(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	views, err := h.service.ListMyInvitations(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// PreviewInvitation is public: deep links open it before the user signs in.
func (h *Handler) PreviewInvitation(c *gin.Context) {
	v, err := h.service.GetInvitationByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// AcceptInvitation godoc
// @Summary Accept a studio invitation
// @Tags Invitations
// @Security BearerAuth
// @Produce json
// @Param token path string true "Invitation token"
// @Failure 409 {object} map[string]interface{} "already accepted or rejected"
// @Router /invitations/{token}/accept [post]
func (h *Handler) AcceptInvitation(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	m, err := h.service.Accept(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) RejectInvitation(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	m, err := h.service.Reject(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStudioNotFound),
		errors.Is(err, ErrInvitationNotFound),
		errors.Is(err, ErrMembershipNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotStudioOwner), errors.Is(err, ErrNotInvitee):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrInvitationAlreadyAccepted):
		response.Error(c, http.StatusConflict, "INVITATION_ALREADY_ACCEPTED", err.Error())
	case errors.Is(err, ErrInvitationAlreadyRejected):
		response.Error(c, http.StatusConflict, "INVITATION_ALREADY_REJECTED", err.Error())
	case errors.Is(err, ErrInvitationExpired):
		response.Error(c, http.StatusGone, "INVITATION_EXPIRED", err.Error())
	case errors.Is(err, ErrStudioExists),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrInvitationPending):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrCannotRemoveRejected):
		response.Error(c, http.StatusUnprocessableEntity, "CANNOT_REMOVE_REJECTED", err.Error())
	case errors.Is(err, ErrOwnerNotArtist), errors.Is(err, ErrInviteeNotArtist):
		response.Error(c, http.StatusUnprocessableEntity, "ARTIST_PROFILE_REQUIRED", err.Error())
	case errors.Is(err, ErrCannotInviteSelf),
		errors.Is(err, ErrDuplicateID),
		errors.Is(err, ErrUnknownCatalogID):
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

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return 0, false
	}
	return id, true
}
