package reservation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public code lookup behind limiter and the rest
// behind protected's auth chain.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, limiter gin.HandlerFunc) {
	public.GET("/reservations/code/:code", limiter, h.GetReservationByCode)

	rg := protected.Group("/reservations")
	{
		rg.POST("", h.CreateReservation)
		rg.GET("", h.ListReservations)
		rg.GET("/:id", h.GetReservation)
		rg.PATCH("/:id", h.UpdateReservation)
		rg.DELETE("/:id", h.DeleteReservation)

		rg.PATCH("/:id/confirm", h.ConfirmReservation)
		rg.PATCH("/:id/cancel", h.CancelReservation)
		rg.PATCH("/:id/complete", h.CompleteReservation)
		rg.PATCH("/:id/no-show", h.MarkNoShow)
	}
}
