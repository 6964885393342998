package story

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

// CreateStory
// @Summary Publish a community story
// @Tags Stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Story"
// @Success 201 {object} map[string]interface{}
// @Router /api/v1/stories [post]
func (h *Handler) CreateStory(c *gin.Context) {
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

	st, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"story": st})
}

// GetStory is public; drafts resolve only for an authenticated author or admin.
func (h *Handler) GetStory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var viewer *auth.Actor
	if actor, ok := auth.ActorFromContext(c); ok {
		viewer = &actor
	}

	st, err := h.service.Get(c.Request.Context(), viewer, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"story": st})
}

func (h *Handler) UpdateStory(c *gin.Context) {
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

	st, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"story": st})
}

func (h *Handler) DeleteStory(c *gin.Context) {
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
	response.Success(c, http.StatusOK, gin.H{"message": "Story deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid story ID")
		return 0, false
	}
	return id, true
}
