package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/providers/:id/calendar.ics", h.ExportICS)

	conns := g.Group("/providers/:id/calendar")
	conns.Use(authMiddleware)
	{
		conns.GET("/connections", h.ListConnections)
		conns.POST("/connections", h.Connect)
		conns.DELETE("/connections/:connId", h.Disconnect)
		conns.POST("/sync", h.Sync)
	}
}
