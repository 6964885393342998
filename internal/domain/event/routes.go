package event

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/events/:id", h.GetEvent)

	protected.POST("/events", h.CreateEvent)
	protected.PUT("/events/:id", h.UpdateEvent)
	protected.DELETE("/events/:id", h.DeleteEvent)
}
