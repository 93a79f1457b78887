package http

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/schedule"
)

// SlotRangeRequest bounds a slot or availability query. Both bounds are
// RFC 3339; when omitted the handler defaults to the next two weeks.
type SlotRangeRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type SlotsResponse struct {
	ProviderID string                   `json:"provider_id"`
	From       time.Time                `json:"from"`
	To         time.Time                `json:"to"`
	Slots      []schedule.CandidateSlot `json:"slots"`
}

type CheckRequest struct {
	ProviderID          string    `json:"provider_id" binding:"required,uuid"`
	Start               time.Time `json:"start" binding:"required"`
	End                 time.Time `json:"end" binding:"required"`
	ExcludeCommitmentID string    `json:"exclude_commitment_id"`
}

// CheckResponse carries the aggregated detection result; alternatives are
// populated only when the candidate conflicts.
type CheckResponse struct {
	HasConflict  bool                       `json:"has_conflict"`
	Sources      []schedule.ConflictSource  `json:"sources"`
	Alternatives []schedule.AlternativeSlot `json:"alternatives,omitempty"`
}
