package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Reading a provider's declared schedule is public; clients browse it.
	g.GET("/providers/:id/availability-config", h.GetConfig)

	// Writing requires auth (and ownership, checked in the handler).
	g.PUT("/providers/:id/availability-config", authMiddleware, h.PutConfig)
}
