package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/auth"
	"github.com/mirateia/stagetime-backend/internal/commitment"
	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/pkg/response"
)

type Handler struct {
	service commitment.Service
}

func NewHandler(service commitment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cm, err := h.service.CreateBooking(c.Request.Context(), commitment.CreateBookingRequest{
		ClientID:   userID,
		ProviderID: body.ProviderID,
		StartTime:  body.StartTime.UTC(),
		EndTime:    body.EndTime.UTC(),
		Title:      body.Title,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommitmentResponse(cm))
}

func (h *Handler) CreateBlock(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	// Only the provider may block their own time.
	if auth.GetUserID(c) != params.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	var body CreateBlockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cm, err := h.service.CreateBlock(c.Request.Context(), commitment.BlockRequest{
		ProviderID: params.ID,
		StartTime:  body.StartTime.UTC(),
		EndTime:    body.EndTime.UTC(),
		Reason:     body.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommitmentResponse(cm))
}

func (h *Handler) List(c *gin.Context) {
	var q ListCommitmentsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	userID := auth.GetUserID(c)

	filter := commitment.Filter{
		Kind:      q.Kind,
		Status:    q.Status,
		StartTime: q.StartTimeFrom,
		EndTime:   q.StartTimeTo,
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}

	// Providers see their own ledger; everyone else sees their own bookings.
	if q.ProviderID == userID {
		filter.ProviderID = userID
	} else {
		filter.ClientID = userID
		filter.ProviderID = q.ProviderID
	}

	commitments, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list commitments"})
		return
	}

	items := make([]CommitmentResponse, len(commitments))
	for i, cm := range commitments {
		items[i] = NewCommitmentResponse(cm)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	cm, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Only participants may read a commitment.
	userID := auth.GetUserID(c)
	isClient := cm.ClientID != nil && *cm.ClientID == userID
	if !isClient && cm.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewCommitmentResponse(cm))
}

func (h *Handler) Update(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateCommitmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cm, err := h.service.Update(c.Request.Context(), params.ID, commitment.UpdateRequest{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Status:    body.Status,
		Title:     body.Title,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCommitmentResponse(cm))
}

func (h *Handler) Cancel(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), params.ID, auth.GetUserID(c)); err != nil {
		if errors.Is(err, commitment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "commitment not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
