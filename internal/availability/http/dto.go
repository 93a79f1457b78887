package http

import (
	"github.com/mirateia/stagetime-backend/internal/availability"
)

// ConfigResponse mirrors the stored document plus the owning provider.
type ConfigResponse struct {
	ProviderID string              `json:"provider_id"`
	Config     availability.Config `json:"config"`
}

// PutConfigRequest is the whole-document replacement body.
// Validation of ranges and window times happens in the service layer so the
// response can name the exact violating entry.
type PutConfigRequest struct {
	WeeklyWindows       []availability.WeeklyWindow `json:"weekly_windows"`
	BlackoutDates       []availability.BlackoutDate `json:"blackout_dates"`
	BufferMinutes       int                         `json:"buffer_minutes"`
	SlotDurationMinutes int                         `json:"slot_duration_minutes"`
	MinAdvanceHours     int                         `json:"min_advance_hours"`
	MaxAdvanceDays      int                         `json:"max_advance_days"`
	AutoAccept          bool                        `json:"auto_accept"`
}

func (r PutConfigRequest) toConfig() availability.Config {
	cfg := availability.Config{
		WeeklyWindows:       r.WeeklyWindows,
		BlackoutDates:       r.BlackoutDates,
		BufferMinutes:       r.BufferMinutes,
		SlotDurationMinutes: r.SlotDurationMinutes,
		MinAdvanceHours:     r.MinAdvanceHours,
		MaxAdvanceDays:      r.MaxAdvanceDays,
		AutoAccept:          r.AutoAccept,
	}
	if cfg.WeeklyWindows == nil {
		cfg.WeeklyWindows = []availability.WeeklyWindow{}
	}
	if cfg.BlackoutDates == nil {
		cfg.BlackoutDates = []availability.BlackoutDate{}
	}
	return cfg
}
