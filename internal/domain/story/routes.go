package story

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the read on public behind optionalAuth, which sets
// the actor when a valid token is present but never rejects.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	public.GET("/stories/:id", optionalAuth, h.GetStory)

	protected.POST("/stories", h.CreateStory)
	protected.PUT("/stories/:id", h.UpdateStory)
	protected.DELETE("/stories/:id", h.DeleteStory)
}
