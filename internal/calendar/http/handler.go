package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/calendar"
	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/pkg/response"
)

type Handler struct {
	service calendar.Service
}

func NewHandler(service calendar.Service) *Handler {
	return &Handler{service: service}
}

// requireSelf aborts unless the :id path parameter is the authenticated user.
func requireSelf(c *gin.Context) (string, bool) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", false
	}
	if auth.GetUserID(c) != params.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return "", false
	}
	return params.ID, true
}

func (h *Handler) Connect(c *gin.Context) {
	providerID, ok := requireSelf(c)
	if !ok {
		return
	}

	var body ConnectRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	conn, err := h.service.Connect(c.Request.Context(), providerID, body.Ecosystem, body.Credentials, body.SharesDetail)
	if err != nil {
		if errors.Is(err, calendar.ErrUnknownEcosystem) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewConnectionResponse(conn))
}

func (h *Handler) ListConnections(c *gin.Context) {
	providerID, ok := requireSelf(c)
	if !ok {
		return
	}

	conns, err := h.service.ListConnections(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list connections"})
		return
	}

	items := make([]ConnectionResponse, len(conns))
	for i, conn := range conns {
		items[i] = NewConnectionResponse(conn)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Disconnect(c *gin.Context) {
	connID := c.Param("connId")

	if err := h.service.Disconnect(c.Request.Context(), connID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Sync(c *gin.Context) {
	providerID, ok := requireSelf(c)
	if !ok {
		return
	}

	imported, err := h.service.ImportForProvider(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "calendar sync failed"})
		return
	}
	c.JSON(http.StatusOK, SyncResponse{ImportedEvents: imported})
}

// ExportICS serves the provider's upcoming bookings as an ICS download.
// The feed is public by design so providers can subscribe from any calendar
// product; it exposes no client identity.
func (h *Handler) ExportICS(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	doc, err := h.service.ExportICS(c.Request.Context(), params.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export calendar"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}
