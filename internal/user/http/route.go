package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Public Routes ===
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.GET("/providers", h.ListProviders)
	g.GET("/providers/:id", h.GetProvider)

	// === Authenticated Routes ===
	me := g.Group("/users/me")
	me.Use(authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}
}
