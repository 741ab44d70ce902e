package studio

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes: studio pages and the invitation deep-link preview.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/studios/:id", h.GetStudio)
	r.GET("/studios/:id/members", h.ListMembers)
	r.GET("/invitations/:token", h.PreviewInvitation)
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	studios := r.Group("/studios")
	{
		studios.POST("", h.CreateStudio)
		studios.GET("/mine", h.GetMyStudio)
		studios.PATCH("/:id", h.UpdateStudio)
		studios.PUT("/:id/styles", h.SetStyles)
		studios.PUT("/:id/services", h.SetServices)
		studios.GET("/:id/invitable", h.SearchInvitable)
		studios.GET("/:id/invitations", h.ListStudioInvitations)
		studios.POST("/:id/invitations", h.Invite)
		studios.DELETE("/:id/members/:membership_id", h.RemoveMember)
	}

	inv := r.Group("/invitations")
	{
		inv.GET("", h.ListMyInvitations)
		inv.POST("/:token/accept", h.AcceptInvitation)
		inv.POST("/:token/reject", h.RejectInvitation)
	}
}
