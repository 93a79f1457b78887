package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mirateia/stagetime-backend/internal/availability"
)

const (
	icsDateTimeLayout = "20060102T150405Z"
	icsDateLayout     = "20060102"
)

// WriteICS serializes events into an iCalendar document. Only the fields the
// booking data model carries (start, end, title, description) are written.
func WriteICS(events []Event) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//stagetime//booking-backend//EN\r\n")

	for _, ev := range events {
		b.WriteString("BEGIN:VEVENT\r\n")
		if ev.ID != "" {
			fmt.Fprintf(&b, "UID:%s\r\n", ev.ID)
		}
		fmt.Fprintf(&b, "DTSTART:%s\r\n", ev.Start.UTC().Format(icsDateTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", ev.End.UTC().Format(icsDateTimeLayout))
		if ev.Title != "" {
			fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICSText(ev.Title))
		}
		if ev.Description != "" {
			fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICSText(ev.Description))
		}
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// ParseICS reads VEVENT blocks out of an iCalendar stream. Unknown properties
// are skipped; folded lines (continuation lines starting with whitespace) are
// unfolded first.
func ParseICS(r io.Reader) ([]Event, error) {
	var events []Event
	var current *Event

	scanner := bufio.NewScanner(r)
	var pending string

	flush := func(line string) {
		if current == nil || line == "" {
			return
		}
		name, value := splitICSLine(line)
		switch name {
		case "UID":
			current.ID = value
		case "SUMMARY":
			current.Title = unescapeICSText(value)
		case "DESCRIPTION":
			current.Description = unescapeICSText(value)
		case "DTSTART":
			if t, err := parseICSTime(value); err == nil {
				current.Start = t
			}
		case "DTEND":
			if t, err := parseICSTime(value); err == nil {
				current.End = t
			}
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// Folded continuation line: belongs to the previous property.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			pending += strings.TrimLeft(line, " \t")
			continue
		}

		flush(pending)
		pending = line

		switch line {
		case "BEGIN:VEVENT":
			current = &Event{}
			pending = ""
		case "END:VEVENT":
			if current != nil && !current.Start.IsZero() && !current.End.IsZero() {
				events = append(events, *current)
			}
			current = nil
			pending = ""
		}
	}
	flush(pending)

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ics stream failed: %w", err)
	}

	return events, nil
}

// icsWeekdays maps the day tokens accepted by ParseWeeklyHours.
var icsWeekdays = map[string]int{
	"SUN": 0, "MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6,
	"SU": 0, "MO": 1, "TU": 2, "WE": 3, "TH": 4, "FR": 5, "SA": 6,
}

// ParseWeeklyHours parses lines of weekday/time pairs into weekly windows,
// e.g. "MON 09:00-17:00" or "TUE 10:00-18:00 America/New_York". Blank lines
// and lines starting with '#' are ignored.
func ParseWeeklyHours(text string) ([]availability.WeeklyWindow, error) {
	var windows []availability.WeeklyWindow

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected \"DAY HH:MM-HH:MM [tz]\", got %q", lineNo+1, line)
		}

		day, ok := icsWeekdays[strings.ToUpper(fields[0])]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown weekday %q", lineNo+1, fields[0])
		}

		times := strings.SplitN(fields[1], "-", 2)
		if len(times) != 2 {
			return nil, fmt.Errorf("line %d: expected time range HH:MM-HH:MM, got %q", lineNo+1, fields[1])
		}

		w := availability.WeeklyWindow{
			Weekday:   day,
			StartTime: times[0],
			EndTime:   times[1],
		}
		if len(fields) >= 3 {
			w.Timezone = fields[2]
		}

		if _, _, err := w.Minutes(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}

		windows = append(windows, w)
	}

	return windows, nil
}

func parseICSTime(value string) (time.Time, error) {
	if t, err := time.Parse(icsDateTimeLayout, value); err == nil {
		return t, nil
	}
	// Date-only values (all-day events) start at midnight UTC.
	if t, err := time.Parse(icsDateLayout, value); err == nil {
		return t, nil
	}
	// Local-time values without the trailing Z are treated as UTC; the feed
	// contract for this engine is UTC-only.
	return time.Parse("20060102T150405", value)
}

// splitICSLine splits "NAME;PARAM=X:value" into NAME and value.
func splitICSLine(line string) (name, value string) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return line, ""
	}
	name, value = line[:idx], line[idx+1:]
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return strings.ToUpper(name), value
}

func escapeICSText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func unescapeICSText(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\,", ",")
	s = strings.ReplaceAll(s, "\\;", ";")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}
