package subscription

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers routes that don't require authentication
// (the pricing page and the processor webhook).
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/subscriptions/plans", h.GetPlans)
	r.POST("/payments/omise/webhook", h.Webhook)
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	sub := r.Group("/subscription")
	{
		sub.GET("", h.GetMySubscription)
		sub.POST("/checkout", h.Checkout)
		sub.POST("/cancel", h.Cancel)
	}
}
