package search

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes: discovery needs no auth.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	s := r.Group("/search")
	{
		s.GET("/artists", h.SearchArtists)
		s.GET("/studios", h.SearchStudios)
	}
}
