package auth

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register/lover", h.RegisterLover)
		authGroup.POST("/register/artist", h.RegisterArtist)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/username-available", h.UsernameAvailable)
	}
}
