package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetConfig(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	cfg, err := h.service.GetConfig(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ConfigResponse{ProviderID: params.ID, Config: cfg})
}

func (h *Handler) PutConfig(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	// Only the provider themself may change their schedule.
	if auth.GetUserID(c) != params.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	var body PutConfigRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cfg := body.toConfig()
	if err := h.service.SetConfig(c.Request.Context(), params.ID, cfg); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ConfigResponse{ProviderID: params.ID, Config: cfg})
}
