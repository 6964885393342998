package restaurant

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tablehub/internal/domain/auth"
	"tablehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRestaurant
// @Summary Create a restaurant
// @Tags Restaurants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Restaurant"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/restaurants [post]
func (h *Handler) CreateRestaurant(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rest, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"restaurant": rest})
}

// GetRestaurant
// @Summary Get a restaurant by ID
// @Tags Restaurants
// @Produce json
// @Param id path integer true "Restaurant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/restaurants/{id} [get]
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rest, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restaurant": rest})
}

// ListMyRestaurants
// @Summary List restaurants operated by the caller
// @Tags Restaurants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/restaurants/mine [get]
func (h *Handler) ListMyRestaurants(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	list, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restaurants": list, "total": len(list)})
}

func (h *Handler) UpdateRestaurant(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rest, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"restaurant": rest})
}

func (h *Handler) DeleteRestaurant(c *gin.Context) {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid restaurant ID")
		return 0, false
	}
	return id, true
}
