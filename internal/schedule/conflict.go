package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/commitment"
)

// Check aggregates every conflict against [start, end): policy violations,
// ledger commitments, and external calendars. Detection sources run
// concurrently and fail open: a broken or slow source is logged and treated
// as no conflict, never as an error.
func (s *service) Check(ctx context.Context, providerID string, start, end time.Time, excludeID string) (ConflictResult, error) {
	if !end.After(start) {
		return ConflictResult{}, ErrInvalidInterval
	}

	cfg, err := s.configs.GetConfig(ctx, providerID)
	if err != nil {
		return ConflictResult{}, err
	}
	now := s.now()
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute

	sources := policySources(cfg, now, start, end)

	conns, err := s.connections.ListByProvider(ctx, providerID)
	if err != nil {
		log.Printf("conflict check: list calendar connections failed for provider %s: %v", providerID, err)
		conns = nil
	}

	var (
		internalSources []ConflictSource
		blockedSources  []ConflictSource
		adapterSources  = make([]*ConflictSource, len(conns))
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.ledger.ListInRange(gctx, providerID,
			[]commitment.Kind{commitment.KindBooking, commitment.KindExternal},
			commitment.BlockingStatuses,
			start.Add(-buffer), end.Add(buffer), excludeID)
		if err != nil {
			log.Printf("conflict check: ledger query failed for provider %s: %v", providerID, err)
			return nil
		}
		internalSources = commitmentSources(items, buffer, start, end)
		return nil
	})

	g.Go(func() error {
		items, err := s.ledger.ListInRange(gctx, providerID,
			[]commitment.Kind{commitment.KindBlocked},
			commitment.BlockingStatuses,
			start.Add(-buffer), end.Add(buffer), excludeID)
		if err != nil {
			log.Printf("conflict check: block query failed for provider %s: %v", providerID, err)
			return nil
		}
		blockedSources = commitmentSources(items, buffer, start, end)
		return nil
	})

	for i, conn := range conns {
		i, conn := i, conn
		g.Go(func() error {
			adapter, err := s.adapters.Get(conn.Ecosystem)
			if err != nil {
				log.Printf("conflict check: no adapter for ecosystem %q (provider %s)", conn.Ecosystem, providerID)
				return nil
			}

			callCtx, cancel := context.WithTimeout(gctx, s.adapterTimeout)
			defer cancel()

			busy, err := adapter.HasConflict(callCtx, conn.Credentials, start, end)
			if err != nil {
				log.Printf("conflict check: %s adapter failed for provider %s: %v", conn.Ecosystem, providerID, err)
				return nil
			}
			if busy {
				// Adapters answer yes/no only, so the source carries the
				// candidate interval as a placeholder.
				adapterSources[i] = &ConflictSource{
					Source: conn.Ecosystem,
					Title:  "External calendar busy",
					Start:  start,
					End:    end,
				}
			}
			return nil
		})
	}

	// Workers swallow their own errors, so Wait cannot fail.
	_ = g.Wait()

	sources = append(sources, internalSources...)
	sources = append(sources, blockedSources...)
	for _, src := range adapterSources {
		if src != nil {
			sources = append(sources, *src)
		}
	}

	return ConflictResult{HasConflict: len(sources) > 0, Sources: sources}, nil
}

// HasBlockingConflict is the ledger-only check the booking write path runs
// under the provider's write lock. External calendars and policy are advisory
// there; only persisted commitments can reject a write.
func (s *service) HasBlockingConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	cfg, err := s.configs.GetConfig(ctx, providerID)
	if err != nil {
		return false, err
	}
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute

	items, err := s.ledger.ListInRange(ctx, providerID,
		[]commitment.Kind{commitment.KindBooking, commitment.KindBlocked, commitment.KindExternal},
		commitment.BlockingStatuses,
		start.Add(-buffer), end.Add(buffer), excludeID)
	if err != nil {
		return false, err
	}

	for _, cm := range items {
		if cm.StartTime.Add(-buffer).Before(end) && cm.EndTime.Add(buffer).After(start) {
			return true, nil
		}
	}
	return false, nil
}

// commitmentSources keeps the commitments whose buffer-inflated interval
// strictly overlaps [start, end) and maps them to conflict sources.
func commitmentSources(items []*commitment.Commitment, buffer time.Duration, start, end time.Time) []ConflictSource {
	var sources []ConflictSource
	for _, cm := range items {
		if !cm.StartTime.Add(-buffer).Before(end) || !cm.EndTime.Add(buffer).After(start) {
			continue
		}
		sources = append(sources, ConflictSource{
			Source: sourceForKind(cm.Kind),
			ID:     cm.ID,
			Title:  cm.Title,
			Start:  cm.StartTime,
			End:    cm.EndTime,
		})
	}
	return sources
}

func sourceForKind(k commitment.Kind) string {
	switch k {
	case commitment.KindBlocked:
		return SourceBlocked
	case commitment.KindExternal:
		return SourceExternal
	default:
		return SourceInternal
	}
}

// policySources evaluates the declarative schedule policy. Violations are
// reported as sources alongside real commitments, not as errors.
func policySources(cfg availability.Config, now, start, end time.Time) []ConflictSource {
	var sources []ConflictSource

	if minStart := now.Add(time.Duration(cfg.MinAdvanceHours) * time.Hour); start.Before(minStart) {
		sources = append(sources, ConflictSource{
			Source:      SourceAdvancePolicy,
			Title:       "Too soon",
			Start:       start,
			End:         end,
			Description: fmt.Sprintf("bookings require at least %d hours notice", cfg.MinAdvanceHours),
		})
	}
	if maxEnd := now.AddDate(0, 0, cfg.MaxAdvanceDays); end.After(maxEnd) {
		sources = append(sources, ConflictSource{
			Source:      SourceAdvancePolicy,
			Title:       "Too far ahead",
			Start:       start,
			End:         end,
			Description: fmt.Sprintf("bookings may be made at most %d days ahead", cfg.MaxAdvanceDays),
		})
	}

	if !withinWindows(cfg.WeeklyWindows, start, end) {
		sources = append(sources, ConflictSource{
			Source:      SourceOutsideWindows,
			Title:       "Outside working hours",
			Start:       start,
			End:         end,
			Description: "no declared window covers this interval",
		})
	}

	if reason, ok := blackoutCovering(cfg.BlackoutDates, start, end); ok {
		src := ConflictSource{
			Source:      SourceBlackout,
			Title:       "Blackout date",
			Start:       start,
			End:         end,
			Description: reason,
		}
		sources = append(sources, src)
	}

	return sources
}

// withinWindows reports whether some declared window fully contains
// [start, end), evaluated on the window's own wall clock. No windows means
// nothing is inside.
func withinWindows(windows []availability.WeeklyWindow, start, end time.Time) bool {
	for _, w := range windows {
		loc, err := w.Location()
		if err != nil {
			continue
		}
		startMin, endMin, err := w.Minutes()
		if err != nil {
			continue
		}

		local := start.In(loc)
		if int(local.Weekday()) != w.Weekday {
			continue
		}
		winStart := time.Date(local.Year(), local.Month(), local.Day(), startMin/60, startMin%60, 0, 0, loc)
		winEnd := time.Date(local.Year(), local.Month(), local.Day(), endMin/60, endMin%60, 0, 0, loc)
		if !start.Before(winStart) && !end.After(winEnd) {
			return true
		}
	}
	return false
}

// blackoutCovering checks every calendar date the interval touches.
func blackoutCovering(blackouts []availability.BlackoutDate, start, end time.Time) (string, bool) {
	day := start.UTC().Truncate(24 * time.Hour)
	last := end.UTC().Add(-time.Nanosecond).Truncate(24 * time.Hour)
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		for _, b := range blackouts {
			if b.Covers(day) {
				reason := b.Reason
				if reason == "" {
					reason = "provider is unavailable on this date"
				}
				return reason, true
			}
		}
	}
	return "", false
}
