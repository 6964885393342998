package review

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// Public routes (no auth required)
	if public != nil {
		public.GET("/restaurants/:id/reviews", h.GetByRestaurant)
	}

	// Protected routes (auth required)
	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.DELETE("/reviews/:id", h.Hide)
		protected.POST("/reviews/:id/response", h.AddOwnerResponse)
	}
}
