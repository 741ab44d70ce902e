package chat

import "github.com/gin-gonic/gin"

// RegisterWSRoute mounts the socket outside the JWT middleware; it
// authenticates with ?token=.
func RegisterWSRoute(r *gin.RouterGroup, h *Handler) {
	r.GET("/ws", h.WebSocket)
}

// RegisterRoutes registers all chat routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	convs := r.Group("/conversations")
	{
		convs.POST("", h.StartConversation)
		convs.GET("", h.ListConversations)
		convs.GET("/unread", h.GetUnreadCount)

		convs.GET("/:id", h.GetConversation)
		convs.POST("/:id/accept", h.Accept)
		convs.POST("/:id/decline", h.Decline)
		convs.GET("/:id/messages", h.GetMessages)
		convs.POST("/:id/messages", h.SendMessage)
		convs.POST("/:id/read", h.MarkRead)
	}
}
