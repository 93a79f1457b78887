package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// Portfolio browsing and image delivery are public.
	g.GET("/providers/:id/portfolio", h.ListByProvider)
	g.GET("/portfolio/:id/image", h.Download)
	g.GET("/portfolio/:id/thumbnail", h.DownloadThumbnail)

	authed := g.Group("/portfolio")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Upload)
		authed.DELETE("/:id", h.Delete)
	}
}
