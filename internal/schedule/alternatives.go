package schedule

import (
	"context"
	"time"
)

const maxAlternatives = 3

// FindAlternatives proposes conflict-free intervals near a rejected candidate:
// the same duration shifted to end at the candidate start, shifted to begin at
// the candidate end, and the same time the next day. Each proposal is
// re-validated through full conflict detection before it is offered, and the
// nearby-first ordering is preserved.
func (s *service) FindAlternatives(ctx context.Context, providerID string, start, end time.Time) ([]AlternativeSlot, error) {
	if !end.After(start) {
		return nil, ErrInvalidInterval
	}
	duration := end.Sub(start)

	candidates := []AlternativeSlot{
		{Start: start.Add(-duration), End: start, Confidence: ConfidenceHigh},
		{Start: end, End: end.Add(duration), Confidence: ConfidenceHigh},
		{Start: start.Add(24 * time.Hour), End: end.Add(24 * time.Hour), Confidence: ConfidenceMedium},
	}

	alternatives := []AlternativeSlot{}
	for _, cand := range candidates {
		result, err := s.Check(ctx, providerID, cand.Start, cand.End, "")
		if err != nil {
			return nil, err
		}
		if result.HasConflict {
			continue
		}
		alternatives = append(alternatives, cand)
		if len(alternatives) == maxAlternatives {
			break
		}
	}
	return alternatives, nil
}
