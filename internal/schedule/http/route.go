package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Slot discovery is public so clients can browse before signing in.
	g.GET("/providers/:id/slots", h.GetSlots)
	g.GET("/providers/:id/availability", h.GetAvailability)

	g.POST("/schedule/check", authMiddleware, h.Check)
}
