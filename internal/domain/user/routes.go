package user

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the user routes on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	users := r.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)
		users.PUT("/me/visibility", h.SetVisibility)
		users.GET("/:username", h.GetByUsername)
	}
}
