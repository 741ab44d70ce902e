package artist

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts catalog lookups and public profiles.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/styles", h.ListStyles)
		catalog.GET("/services", h.ListServices)
		catalog.GET("/body-parts", h.ListBodyParts)
	}
	r.GET("/artists/:user_id", h.GetPublicProfile)
}

// RegisterArtistRoutes expects a group already restricted to role=artist.
func RegisterArtistRoutes(r *gin.RouterGroup, h *Handler) {
	a := r.Group("/artist")
	{
		a.GET("/profile", h.GetMyProfile)
		a.PATCH("/profile/rates", h.UpdateRates)
		a.PUT("/profile/styles", h.SetStyles)
		a.PUT("/profile/services", h.SetServices)
		a.PUT("/profile/body-parts", h.SetBodyParts)

		a.POST("/projects", h.CreateProject)
		a.PUT("/projects/:id", h.UpdateProject)
		a.DELETE("/projects/:id", h.DeleteProject)
	}
}
