package restaurant

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts public reads on public and writes on protected.
// cache wraps the public read.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, cache gin.HandlerFunc) {
	public.GET("/restaurants/:id", cache, h.GetRestaurant)

	protected.GET("/restaurants/mine", h.ListMyRestaurants)
	protected.POST("/restaurants", h.CreateRestaurant)
	protected.PUT("/restaurants/:id", h.UpdateRestaurant)
	protected.DELETE("/restaurants/:id", h.DeleteRestaurant)
}
