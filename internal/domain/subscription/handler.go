package subscription

import (
	"errors"
	"net/http"

	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for subscription management.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPlans godoc
// @Summary List all subscription plans
// @Description Returns all available plans. Public endpoint.
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} PlanResponse
// @Router /subscriptions/plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.service.GetPlans(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planToResponse(p))
	}
	response.Success(c, http.StatusOK, resp)
}

// GetMySubscription godoc
// @Summary Get current subscription for the authenticated user
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SubscriptionResponse
// @Router /subscription [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	sub, plan, err := h.service.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buildSubscriptionResponse(sub, plan))
}

// Checkout godoc
// @Summary Start a paid plan checkout
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CheckoutRequest true "Plan and billing cycle"
// @Success 201 {object} CheckoutResponse
// @Router /subscription/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.CreateCheckout(c.Request.Context(), userID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// Cancel godoc
// @Summary Cancel current subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CancelRequest false "Optional cancel reason"
// @Router /subscription/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID := mustUserID(c)
	if userID == 0 {
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Cancel(c.Request.Context(), userID, req.Reason); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "subscription cancelled")
}

// Webhook receives processor notifications. The body is only trusted for its
// event id; the event itself is re-fetched from the processor.
func (h *Handler) Webhook(c *gin.Context) {
	var ev WebhookEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.service.HandleProviderEvent(c.Request.Context(), ev.ID); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "ok")
}

func handleError(c *gin.Context, err error) {
	var limitErr *LimitError
	switch {
	case errors.As(err, &limitErr):
		response.ErrorWithDetails(c, http.StatusPaymentRequired, "PLAN_LIMIT_REACHED", err.Error(), gin.H{
			"current":    limitErr.Current,
			"limit":      limitErr.Limit,
			"plan":       limitErr.PlanName,
			"upgrade_to": limitErr.UpgradeTo,
		})
	case errors.Is(err, ErrPlanNotFound):
		response.Error(c, http.StatusNotFound, "PLAN_NOT_FOUND", err.Error())
	case errors.Is(err, ErrSubscriptionNotFound):
		response.Error(c, http.StatusNotFound, "SUBSCRIPTION_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadySubscribed):
		response.Error(c, http.StatusConflict, "ALREADY_SUBSCRIBED", err.Error())
	case errors.Is(err, ErrCannotCancelFree), errors.Is(err, ErrCannotBuyFree), errors.Is(err, ErrInvalidBillingCycle):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, ErrPaymentsDisabled):
		response.Error(c, http.StatusServiceUnavailable, "PAYMENTS_DISABLED", err.Error())
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
