package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.POST("", h.CreateBooking)
		bookings.PATCH("/:id", h.Update)
		bookings.DELETE("/:id", h.Cancel)
	}

	g.POST("/providers/:id/blocks", authMiddleware, h.CreateBlock)
}
