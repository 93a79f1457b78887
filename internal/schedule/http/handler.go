package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirateia/stagetime-backend/internal/pkg/request"
	"github.com/mirateia/stagetime-backend/internal/pkg/response"
	"github.com/mirateia/stagetime-backend/internal/schedule"
)

const defaultRangeDays = 14

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func bindRange(c *gin.Context) (providerID string, from, to time.Time, ok bool) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return "", time.Time{}, time.Time{}, false
	}

	var q SlotRangeRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range", "details": err.Error()})
		return "", time.Time{}, time.Time{}, false
	}

	from, to = q.From, q.To
	if from.IsZero() {
		from = time.Now().UTC()
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, defaultRangeDays)
	}
	return params.ID, from, to, true
}

func (h *Handler) GetSlots(c *gin.Context) {
	providerID, from, to, ok := bindRange(c)
	if !ok {
		return
	}

	slots, err := h.service.GenerateSlots(c.Request.Context(), providerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SlotsResponse{
		ProviderID: providerID,
		From:       from,
		To:         to,
		Slots:      slots,
	})
}

func (h *Handler) GetAvailability(c *gin.Context) {
	providerID, from, to, ok := bindRange(c)
	if !ok {
		return
	}

	report, err := h.service.GetAvailability(c.Request.Context(), providerID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Check runs conflict detection for a candidate interval. On conflict the
// response also proposes nearby alternatives; failing to compute them only
// degrades the response, it never fails the check.
func (h *Handler) Check(c *gin.Context) {
	var body CheckRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.service.Check(ctx, body.ProviderID, body.Start, body.End, body.ExcludeCommitmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := CheckResponse{HasConflict: result.HasConflict, Sources: result.Sources}
	if resp.Sources == nil {
		resp.Sources = []schedule.ConflictSource{}
	}

	if result.HasConflict {
		alts, err := h.service.FindAlternatives(ctx, body.ProviderID, body.Start, body.End)
		if err != nil {
			log.Printf("schedule check: alternative search failed for provider %s: %v", body.ProviderID, err)
		} else {
			resp.Alternatives = alts
		}
	}

	c.JSON(http.StatusOK, resp)
}
