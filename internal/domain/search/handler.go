package search

import (
	"net/http"

	"inkbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SearchArtists godoc
// @Summary Search visible artists
// @Tags Search
// @Produce json
// @Param q query string false "Username or display name"
// @Param style_ids query []int false "Style filter (any of)"
// @Param service_ids query []int false "Service filter (any of)"
// @Param city query string false "City"
// @Param limit query int false "Page size (max 50)"
// @Param offset query int false "Offset"
// @Router /search/artists [get]
func (h *Handler) SearchArtists(c *gin.Context) {
	var f ArtistFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	page, err := h.service.SearchArtists(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "search failed")
		return
	}
	response.Success(c, http.StatusOK, page)
}

func (h *Handler) SearchStudios(c *gin.Context) {
	var f StudioFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	page, err := h.service.SearchStudios(c.Request.Context(), f)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "search failed")
		return
	}
	response.Success(c, http.StatusOK, page)
}
