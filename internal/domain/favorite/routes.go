package favorite

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/:artist_id", h.AddFavorite)
		favorites.DELETE("/:artist_id", h.RemoveFavorite)
		favorites.GET("/:artist_id/check", h.CheckFavorite)
	}
}
