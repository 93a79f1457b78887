package schedule

import (
	"context"
	"time"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/calendar"
	"github.com/mirateia/stagetime-backend/internal/commitment"
)

// ConfigSource is the slice of the availability store the engine needs.
type ConfigSource interface {
	GetConfig(ctx context.Context, providerID string) (availability.Config, error)
}

// Ledger is the slice of the commitment store the engine needs.
type Ledger interface {
	ListInRange(ctx context.Context, providerID string, kinds []commitment.Kind, statuses []commitment.Status, start, end time.Time, excludeID string) ([]*commitment.Commitment, error)
}

// ConnectionSource lists a provider's external calendar connections.
type ConnectionSource interface {
	ListByProvider(ctx context.Context, providerID string) ([]*calendar.Connection, error)
}

// AdapterRegistry resolves ecosystem names to adapters.
type AdapterRegistry interface {
	Get(ecosystem string) (calendar.Adapter, error)
}

// Service is the scheduling engine: slot generation, conflict detection,
// alternative search, and the availability report composed from the first two.
type Service interface {
	// GenerateSlots computes the provider's slots over [rangeStart, rangeEnd).
	GenerateSlots(ctx context.Context, providerID string, rangeStart, rangeEnd time.Time) ([]CandidateSlot, error)

	// Check runs full conflict detection for a candidate interval, including
	// policy checks and external calendars. excludeID names a commitment to
	// ignore, so reschedules do not collide with themselves.
	Check(ctx context.Context, providerID string, start, end time.Time, excludeID string) (ConflictResult, error)

	// HasBlockingConflict is the fast ledger-only answer used on the booking
	// write path. No policy or external sources.
	HasBlockingConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error)

	// FindAlternatives proposes up to three conflict-free intervals near a
	// rejected candidate.
	FindAlternatives(ctx context.Context, providerID string, start, end time.Time) ([]AlternativeSlot, error)

	// GetAvailability partitions generated slots into available and busy.
	GetAvailability(ctx context.Context, providerID string, rangeStart, rangeEnd time.Time) (AvailabilityReport, error)
}

type service struct {
	configs        ConfigSource
	ledger         Ledger
	connections    ConnectionSource
	adapters       AdapterRegistry
	adapterTimeout time.Duration
	now            func() time.Time
}

func NewService(configs ConfigSource, ledger Ledger, connections ConnectionSource, adapters AdapterRegistry, adapterTimeout time.Duration) Service {
	return &service{
		configs:        configs,
		ledger:         ledger,
		connections:    connections,
		adapters:       adapters,
		adapterTimeout: adapterTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) GenerateSlots(ctx context.Context, providerID string, rangeStart, rangeEnd time.Time) ([]CandidateSlot, error) {
	if !rangeEnd.After(rangeStart) {
		return nil, ErrInvalidRange
	}

	snap, err := s.snapshot(ctx, providerID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(snap, rangeStart, rangeEnd), nil
}

func (s *service) GetAvailability(ctx context.Context, providerID string, rangeStart, rangeEnd time.Time) (AvailabilityReport, error) {
	slots, err := s.GenerateSlots(ctx, providerID, rangeStart, rangeEnd)
	if err != nil {
		return AvailabilityReport{}, err
	}

	report := AvailabilityReport{
		AvailableSlots: []CandidateSlot{},
		BusySlots:      []CandidateSlot{},
		Summary: AvailabilitySummary{
			RangeStart: rangeStart,
			RangeEnd:   rangeEnd,
			TotalSlots: len(slots),
		},
	}
	for _, slot := range slots {
		if slot.Available {
			report.AvailableSlots = append(report.AvailableSlots, slot)
		} else {
			report.BusySlots = append(report.BusySlots, slot)
		}
	}
	report.Summary.AvailableCount = len(report.AvailableSlots)
	report.Summary.BusyCount = len(report.BusySlots)
	return report, nil
}

// snapshot loads the config and the blocking commitments overlapping the
// buffer-widened range in one place, so generation works on a fixed view.
func (s *service) snapshot(ctx context.Context, providerID string, rangeStart, rangeEnd time.Time) (Snapshot, error) {
	cfg, err := s.configs.GetConfig(ctx, providerID)
	if err != nil {
		return Snapshot{}, err
	}

	// Commitments just outside the range still matter once inflated by the
	// buffer, so widen the query symmetrically.
	buffer := time.Duration(cfg.BufferMinutes) * time.Minute
	items, err := s.ledger.ListInRange(ctx, providerID,
		[]commitment.Kind{commitment.KindBooking, commitment.KindBlocked, commitment.KindExternal},
		commitment.BlockingStatuses,
		rangeStart.Add(-buffer), rangeEnd.Add(buffer), "")
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Config: cfg, Commitments: items, Now: s.now()}, nil
}
