package schedule

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/commitment"
)

// Snapshot is everything slot generation needs, captured once per request so
// the walk over the range sees a single consistent view.
type Snapshot struct {
	Config      availability.Config
	Commitments []*commitment.Commitment
	Now         time.Time
}

// isBlackedOut reports whether the calendar date of day is blacked out.
func (s Snapshot) isBlackedOut(day time.Time) bool {
	for _, b := range s.Config.BlackoutDates {
		if b.Covers(day) {
			return true
		}
	}
	return false
}

// overlapsCommitment tests [start, end) against every commitment inflated by
// the buffer on both sides. Overlap is strict: intervals that merely touch do
// not conflict. Returns the first overlapping commitment's ID.
func (s Snapshot) overlapsCommitment(start, end time.Time) (string, bool) {
	buffer := time.Duration(s.Config.BufferMinutes) * time.Minute
	for _, cm := range s.Commitments {
		if cm.StartTime.Add(-buffer).Before(end) && cm.EndTime.Add(buffer).After(start) {
			return cm.ID, true
		}
	}
	return "", false
}
