package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the inbox routes under the protected group
func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	n := protected.Group("/notifications")
	{
		n.GET("", h.GetNotifications)
		n.GET("/unread-count", h.GetUnreadCount)
		n.POST("/:id/read", h.MarkRead)
		n.POST("/read-all", h.MarkAllRead)
	}
}
