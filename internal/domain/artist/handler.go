package artist

import (
	"errors"
	"net/http"
	"strconv"

	"inkbook/internal/domain/subscription"
	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListStyles(c *gin.Context) {
	styles, err := h.service.ListStyles(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, styles)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, services)
}

func (h *Handler) ListBodyParts(c *gin.Context) {
	parts, err := h.service.ListBodyParts(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, parts)
}

// GetPublicProfile godoc
// @Summary Artist profile by user id
// @Tags Artists
// @Produce json
// @Param user_id path int true "Artist user ID"
// @Router /artists/{user_id} [get]
func (h *Handler) GetPublicProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid user_id")
		return
	}
	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// GetMyProfile godoc
// @Summary Own artist profile with completeness
// @Tags Artists
// @Security BearerAuth
// @Produce json
// @Router /artist/profile [get]
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdateRates(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.UpdateRates(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) SetStyles(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req StylesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.SetStyles(c.Request.Context(), userID, req.Styles)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) SetServices(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.SetServices(c.Request.Context(), userID, req.IDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) SetBodyParts(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p, err := h.service.SetBodyParts(c.Request.Context(), userID, req.IDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	var req ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	project, err := h.service.CreateProject(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid project id")
		return
	}
	var req ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	project, err := h.service.UpdateProject(c.Request.Context(), userID, projectID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid project id")
		return
	}
	if err := h.service.DeleteProject(c.Request.Context(), userID, projectID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "project deleted")
}

func handleError(c *gin.Context, err error) {
	var incomplete *IncompleteError
	var limit *subscription.LimitError
	switch {
	case errors.As(err, &incomplete):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "PROFILE_INCOMPLETE", err.Error(),
			gin.H{"missing": incomplete.Missing})
	case errors.As(err, &limit):
		response.ErrorWithDetails(c, http.StatusPaymentRequired, "PLAN_LIMIT_REACHED", err.Error(), gin.H{
			"current":    limit.Current,
			"limit":      limit.Limit,
			"plan":       limit.PlanName,
			"upgrade_to": limit.UpgradeTo,
		})
	case errors.Is(err, ErrArtistProfileNotFound):
		response.Error(c, http.StatusNotFound, "ARTIST_PROFILE_NOT_FOUND", err.Error())
	case errors.Is(err, ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, "PROJECT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrProfileExists):
		response.Error(c, http.StatusConflict, "PROFILE_EXISTS", err.Error())
	case errors.Is(err, ErrPrimaryStyleRequired),
		errors.Is(err, ErrDuplicateID),
		errors.Is(err, ErrUnknownCatalogID),
		errors.Is(err, ErrInvalidWorkArrangement),
		errors.Is(err, ErrInvalidRates):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
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
