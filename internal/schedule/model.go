package schedule

import (
	"net/http"
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/apperror"
)

var (
	ErrInvalidInterval = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidRange    = apperror.New(http.StatusBadRequest, "range start must be before range end")
)

// Conflict source names. Policy violations are reported as named sources so
// UIs can render a specific reason; they are data, not errors.
const (
	SourceInternal       = "internal"        // A platform booking
	SourceExternal       = "external"        // An imported external event
	SourceBlocked        = "blocked"         // A manual block
	SourceAdvancePolicy  = "advance_policy"  // min/max advance bounds
	SourceOutsideWindows = "outside_windows" // No declared window covers the interval
	SourceBlackout       = "blackout"        // A blackout date
)

// ConflictSource describes one competing claim on the candidate interval.
type ConflictSource struct {
	Source      string    `json:"source"`
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

// ConflictResult aggregates every overlapping reason at once; detection never
// short-circuits on the first hit.
type ConflictResult struct {
	HasConflict bool             `json:"has_conflict"`
	Sources     []ConflictSource `json:"sources"`
}

// CandidateSlot is a generated, bookable time interval. Ephemeral: computed
// per request, never persisted.
type CandidateSlot struct {
	Start                   time.Time `json:"start"`
	End                     time.Time `json:"end"`
	DurationMinutes         int       `json:"duration_minutes"`
	Timezone                string    `json:"timezone"`
	Available               bool      `json:"available"`
	ConflictingCommitmentID string    `json:"conflicting_commitment_id,omitempty"`
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AlternativeSlot is a conflict-free interval near a rejected candidate.
type AlternativeSlot struct {
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	Confidence Confidence `json:"confidence"`
}

// AvailabilityReport is the reporting composition of slot generation and
// conflict detection.
type AvailabilityReport struct {
	AvailableSlots []CandidateSlot     `json:"available_slots"`
	BusySlots      []CandidateSlot     `json:"busy_slots"`
	Summary        AvailabilitySummary `json:"summary"`
}

type AvailabilitySummary struct {
	RangeStart     time.Time `json:"range_start"`
	RangeEnd       time.Time `json:"range_end"`
	TotalSlots     int       `json:"total_slots"`
	AvailableCount int       `json:"available_count"`
	BusyCount      int       `json:"busy_count"`
}
