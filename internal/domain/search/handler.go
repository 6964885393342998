package search

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tablehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search
// @Summary Search restaurants, events and stories
// @Tags Search
// @Produce json
// @Param q query string true "Search term"
// @Param type query string false "restaurants, events or stories"
// @Param limit query int false "Max results per type"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := h.service.Search(c.Request.Context(), Query{
		Q:     c.Query("q"),
		Type:  c.Query("type"),
		Limit: limit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// RegisterRoutes mounts the search endpoint behind the response cache.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup, cache gin.HandlerFunc) {
	public.GET("/search", cache, h.Search)
}
