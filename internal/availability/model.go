package availability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "availability config not found")
	ErrInvalidConfig = apperror.New(http.StatusBadRequest, "invalid availability config")
)

const dateLayout = "2006-01-02"

// WeeklyWindow declares a recurring working window on one weekday.
// Times are local wall-clock "HH:MM" strings interpreted in Timezone.
type WeeklyWindow struct {
	Weekday   int    `json:"day_of_week"` // 0 = Sunday ... 6 = Saturday
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

// Minutes returns the window bounds as minutes from midnight.
func (w WeeklyWindow) Minutes() (start, end int, err error) {
	start, err = parseClock(w.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = parseClock(w.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Location resolves the window's timezone, defaulting to UTC when empty.
func (w WeeklyWindow) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(w.Timezone)
}

// BlackoutDate marks a calendar date (or date range) as unbookable.
// With Recurring set, the weekday of Date repeats within [Date, EndDate].
type BlackoutDate struct {
	Date      string  `json:"date"` // "2006-01-02"
	EndDate   *string `json:"end_date,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Recurring bool    `json:"recurring"`
}

// Covers reports whether the calendar date d falls under this blackout.
func (b BlackoutDate) Covers(d time.Time) bool {
	from, err := time.Parse(dateLayout, b.Date)
	if err != nil {
		return false
	}

	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	var until time.Time
	if b.EndDate != nil {
		until, err = time.Parse(dateLayout, *b.EndDate)
		if err != nil {
			return false
		}
	}

	if b.Recurring {
		if day.Weekday() != from.Weekday() {
			return false
		}
		if day.Before(from) {
			return false
		}
		if b.EndDate != nil && day.After(until) {
			return false
		}
		return true
	}

	if b.EndDate == nil {
		// A blackout with no end date blocks exactly that one calendar date.
		return day.Equal(from)
	}
	return !day.Before(from) && !day.After(until)
}

// Config is a provider's declared schedule configuration. Updates are atomic
// whole-document replacements, never partial merges.
type Config struct {
	WeeklyWindows       []WeeklyWindow `json:"weekly_windows"`
	BlackoutDates       []BlackoutDate `json:"blackout_dates"`
	BufferMinutes       int            `json:"buffer_minutes"`
	SlotDurationMinutes int            `json:"slot_duration_minutes"`
	MinAdvanceHours     int            `json:"min_advance_hours"`
	MaxAdvanceDays      int            `json:"max_advance_days"`
	AutoAccept          bool           `json:"auto_accept"`
}

// DefaultConfig is what providers get before configuring anything.
func DefaultConfig() Config {
	return Config{
		WeeklyWindows:       []WeeklyWindow{},
		BlackoutDates:       []BlackoutDate{},
		BufferMinutes:       30,
		SlotDurationMinutes: 60,
		MinAdvanceHours:     24,
		MaxAdvanceDays:      90,
		AutoAccept:          false,
	}
}

// Validate checks the whole document. Any violation rejects the entire update.
func (c Config) Validate() error {
	if c.BufferMinutes < 0 || c.BufferMinutes > 240 {
		return apperror.Wrap(fmt.Errorf("buffer_minutes %d out of range [0,240]", c.BufferMinutes),
			http.StatusBadRequest, "buffer_minutes must be between 0 and 240")
	}
	if c.SlotDurationMinutes < 15 || c.SlotDurationMinutes > 480 {
		return apperror.Wrap(fmt.Errorf("slot_duration_minutes %d out of range [15,480]", c.SlotDurationMinutes),
			http.StatusBadRequest, "slot_duration_minutes must be between 15 and 480")
	}
	if c.MinAdvanceHours < 0 || c.MinAdvanceHours > 72 {
		return apperror.Wrap(fmt.Errorf("min_advance_hours %d out of range [0,72]", c.MinAdvanceHours),
			http.StatusBadRequest, "min_advance_hours must be between 0 and 72")
	}
	if c.MaxAdvanceDays < 1 || c.MaxAdvanceDays > 365 {
		return apperror.Wrap(fmt.Errorf("max_advance_days %d out of range [1,365]", c.MaxAdvanceDays),
			http.StatusBadRequest, "max_advance_days must be between 1 and 365")
	}

	for i, w := range c.WeeklyWindows {
		if w.Weekday < 0 || w.Weekday > 6 {
			return apperror.Wrap(fmt.Errorf("window %d: day_of_week %d out of range", i, w.Weekday),
				http.StatusBadRequest, fmt.Sprintf("window %d: day_of_week must be between 0 and 6", i))
		}
		start, end, err := w.Minutes()
		if err != nil {
			return apperror.Wrap(err, http.StatusBadRequest,
				fmt.Sprintf("window %d: times must be HH:MM", i))
		}
		if end <= start {
			return apperror.Wrap(fmt.Errorf("window %d: end %q not after start %q", i, w.EndTime, w.StartTime),
				http.StatusBadRequest, fmt.Sprintf("window %d: end_time must be after start_time", i))
		}
		if _, err := w.Location(); err != nil {
			return apperror.Wrap(err, http.StatusBadRequest,
				fmt.Sprintf("window %d: unknown timezone %q", i, w.Timezone))
		}
	}

	for i, b := range c.BlackoutDates {
		if _, err := time.Parse(dateLayout, b.Date); err != nil {
			return apperror.Wrap(err, http.StatusBadRequest,
				fmt.Sprintf("blackout %d: date must be YYYY-MM-DD", i))
		}
		if b.EndDate != nil {
			if _, err := time.Parse(dateLayout, *b.EndDate); err != nil {
				return apperror.Wrap(err, http.StatusBadRequest,
					fmt.Sprintf("blackout %d: end_date must be YYYY-MM-DD", i))
			}
		}
	}

	return nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		// Tolerate seconds, some clients send "09:00:00".
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}
