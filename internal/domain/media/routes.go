package media

import "github.com/gin-gonic/gin"

// RegisterRoutes registers media routes under the protected group
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	m := r.Group("/media")
	{
		m.POST("", h.Upload)
		m.GET("", h.ListMy)
		m.GET("/:id", h.GetByID)
		m.DELETE("/:id", h.Delete)
	}
}
