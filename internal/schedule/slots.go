package schedule

import (
	"sort"
	"time"
)

// GenerateSlots computes bookable slots over [rangeStart, rangeEnd) from a
// snapshot. Pure: the same snapshot and range always produce the same slots.
//
// Per declared window the walk steps through matching days in the window's
// own timezone, skipping blackout dates, and steps within the day by slot
// duration plus buffer. A slot is emitted only when it fits entirely inside
// the window; it is marked unavailable when it starts before the minimum
// advance bound or overlaps a buffer-inflated commitment.
func GenerateSlots(snap Snapshot, rangeStart, rangeEnd time.Time) []CandidateSlot {
	cfg := snap.Config
	duration := time.Duration(cfg.SlotDurationMinutes) * time.Minute
	step := duration + time.Duration(cfg.BufferMinutes)*time.Minute

	// The booking horizon caps how far out slots exist at all.
	if maxEnd := snap.Now.AddDate(0, 0, cfg.MaxAdvanceDays); rangeEnd.After(maxEnd) {
		rangeEnd = maxEnd
	}
	if !rangeEnd.After(rangeStart) {
		return []CandidateSlot{}
	}
	minStart := snap.Now.Add(time.Duration(cfg.MinAdvanceHours) * time.Hour)

	slots := []CandidateSlot{}
	for _, w := range cfg.WeeklyWindows {
		loc, err := w.Location()
		if err != nil {
			continue // Validated on write; skip rather than fail the whole range.
		}
		startMin, endMin, err := w.Minutes()
		if err != nil {
			continue
		}
		tz := w.Timezone
		if tz == "" {
			tz = "UTC"
		}

		local := rangeStart.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		for ; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
			if int(day.Weekday()) != w.Weekday || snap.isBlackedOut(day) {
				continue
			}

			// Wall-clock construction so DST transitions keep window times
			// honest instead of drifting by an hour.
			winStart := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, loc)
			winEnd := time.Date(day.Year(), day.Month(), day.Day(), endMin/60, endMin%60, 0, 0, loc)

			for t := winStart; !t.Add(duration).After(winEnd); t = t.Add(step) {
				slotEnd := t.Add(duration)
				if t.Before(rangeStart) || slotEnd.After(rangeEnd) {
					continue
				}

				slot := CandidateSlot{
					Start:           t,
					End:             slotEnd,
					DurationMinutes: cfg.SlotDurationMinutes,
					Timezone:        tz,
					Available:       true,
				}
				if t.Before(minStart) {
					slot.Available = false
				} else if id, ok := snap.overlapsCommitment(t, slotEnd); ok {
					slot.Available = false
					slot.ConflictingCommitmentID = id
				}
				slots = append(slots, slot)
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots
}
