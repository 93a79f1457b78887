package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSRoundTrip(t *testing.T) {
	events := []Event{
		{
			ID:          "ev-1",
			Title:       "Mixing session; studio A, room 2",
			Description: "Bring stems\nand references",
			Start:       time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
			End:         time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:    "ev-2",
			Title: "Rehearsal",
			Start: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC),
		},
	}

	doc := WriteICS(events)
	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, doc, "DTSTART:20260309T100000Z\r\n")

	parsed, err := ParseICS(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, events[0], parsed[0])
	assert.Equal(t, events[1], parsed[1])
}

func TestParseICSForeignFeed(t *testing.T) {
	// Folded lines, parameters on properties, unknown properties, all-day
	// events: the shapes real feeds produce.
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:abc123",
		"DTSTART;TZID=UTC:20260309T100000Z",
		"DTEND:20260309T110000Z",
		"SUMMARY:Long title that a feed",
		" decided to fold onto two lines",
		"LOCATION:somewhere",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:allday",
		"DTSTART:20260310",
		"DTEND:20260311",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:broken-no-times",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := ParseICS(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 2, "the event without times must be dropped")

	assert.Equal(t, "abc123", events[0].ID)
	assert.Equal(t, "Long title that a feeddecided to fold onto two lines", events[0].Title)
	assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), events[0].Start)

	assert.Equal(t, "allday", events[1].ID)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), events[1].Start)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), events[1].End)
}

func TestParseWeeklyHours(t *testing.T) {
	text := strings.Join([]string{
		"# studio hours",
		"MON 09:00-17:00",
		"",
		"tue 10:00-18:00 America/New_York",
		"SA 12:00-16:00",
	}, "\n")

	windows, err := ParseWeeklyHours(text)
	require.NoError(t, err)
	require.Len(t, windows, 3)

	assert.Equal(t, 1, windows[0].Weekday)
	assert.Equal(t, "09:00", windows[0].StartTime)
	assert.Equal(t, "17:00", windows[0].EndTime)
	assert.Empty(t, windows[0].Timezone)

	assert.Equal(t, 2, windows[1].Weekday)
	assert.Equal(t, "America/New_York", windows[1].Timezone)

	assert.Equal(t, 6, windows[2].Weekday)
}

func TestParseWeeklyHoursRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unknown weekday", "FUNDAY 09:00-17:00"},
		{"missing time range", "MON"},
		{"bad time range", "MON 09:00"},
		{"unparseable clock", "MON 25:00-26:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeeklyHours(tt.text)
			assert.Error(t, err)
		})
	}
}
