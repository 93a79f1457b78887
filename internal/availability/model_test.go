package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.WeeklyWindows = []WeeklyWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
	}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"with a window", func(c *Config) { *c = validConfig() }, false},
		{"seconds in clock accepted", func(c *Config) {
			c.WeeklyWindows = []WeeklyWindow{{Weekday: 1, StartTime: "09:00:00", EndTime: "17:00:00"}}
		}, false},
		{"buffer too large", func(c *Config) { c.BufferMinutes = 241 }, true},
		{"negative buffer", func(c *Config) { c.BufferMinutes = -1 }, true},
		{"slot too short", func(c *Config) { c.SlotDurationMinutes = 10 }, true},
		{"slot too long", func(c *Config) { c.SlotDurationMinutes = 481 }, true},
		{"min advance too large", func(c *Config) { c.MinAdvanceHours = 73 }, true},
		{"max advance zero", func(c *Config) { c.MaxAdvanceDays = 0 }, true},
		{"max advance too large", func(c *Config) { c.MaxAdvanceDays = 366 }, true},
		{"bad weekday", func(c *Config) {
			c.WeeklyWindows = []WeeklyWindow{{Weekday: 7, StartTime: "09:00", EndTime: "17:00"}}
		}, true},
		{"unparseable clock", func(c *Config) {
			c.WeeklyWindows = []WeeklyWindow{{Weekday: 1, StartTime: "9am", EndTime: "17:00"}}
		}, true},
		{"end not after start", func(c *Config) {
			c.WeeklyWindows = []WeeklyWindow{{Weekday: 1, StartTime: "17:00", EndTime: "09:00"}}
		}, true},
		{"unknown timezone", func(c *Config) {
			c.WeeklyWindows = []WeeklyWindow{{Weekday: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "Mars/Olympus"}}
		}, true},
		{"bad blackout date", func(c *Config) {
			c.BlackoutDates = []BlackoutDate{{Date: "March 9"}}
		}, true},
		{"bad blackout end date", func(c *Config) {
			end := "soon"
			c.BlackoutDates = []BlackoutDate{{Date: "2026-03-09", EndDate: &end}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeeklyWindowMinutes(t *testing.T) {
	w := WeeklyWindow{Weekday: 1, StartTime: "09:30", EndTime: "17:15"}
	start, end, err := w.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, start)
	assert.Equal(t, 17*60+15, end)
}

func TestWeeklyWindowLocationDefaultsToUTC(t *testing.T) {
	loc, err := WeeklyWindow{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestBlackoutDateCovers(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	}
	end := "2026-03-20"

	tests := []struct {
		name     string
		blackout BlackoutDate
		date     time.Time
		want     bool
	}{
		{"exact date matches", BlackoutDate{Date: "2026-03-09"}, day(2026, 3, 9), true},
		{"single date does not bleed", BlackoutDate{Date: "2026-03-09"}, day(2026, 3, 10), false},
		{"range start inclusive", BlackoutDate{Date: "2026-03-09", EndDate: &end}, day(2026, 3, 9), true},
		{"range end inclusive", BlackoutDate{Date: "2026-03-09", EndDate: &end}, day(2026, 3, 20), true},
		{"outside range", BlackoutDate{Date: "2026-03-09", EndDate: &end}, day(2026, 3, 21), false},
		{"recurring matches same weekday later", BlackoutDate{Date: "2026-03-09", Recurring: true}, day(2026, 4, 6), true},
		{"recurring skips other weekdays", BlackoutDate{Date: "2026-03-09", Recurring: true}, day(2026, 4, 7), false},
		{"recurring not before anchor", BlackoutDate{Date: "2026-03-09", Recurring: true}, day(2026, 3, 2), false},
		{"recurring bounded by end date", BlackoutDate{Date: "2026-03-09", Recurring: true, EndDate: &end}, day(2026, 4, 6), false},
		{"garbage date never covers", BlackoutDate{Date: "whenever"}, day(2026, 3, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.blackout.Covers(tt.date))
		})
	}
}
