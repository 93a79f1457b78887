package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mirateia/stagetime-backend/internal/commitment"
)

// Ledger is the slice of the commitment store the sync layer needs.
type Ledger interface {
	ReplaceExternal(ctx context.Context, providerID, source string, events []*commitment.Commitment) error
	ListInRange(ctx context.Context, providerID string, kinds []commitment.Kind, statuses []commitment.Status, start, end time.Time, excludeID string) ([]*commitment.Commitment, error)
}

// Service manages calendar connections and moves events across the boundary:
// imports land in the ledger as kind=external, exports serialize bookings to
// an ICS document.
type Service interface {
	Connect(ctx context.Context, providerID, ecosystem string, creds Credentials, sharesDetail bool) (*Connection, error)
	ListConnections(ctx context.Context, providerID string) ([]*Connection, error)
	Disconnect(ctx context.Context, id, providerID string) error

	// ImportForProvider pulls events from every connection over the sync
	// horizon and replaces the provider's imported ledger rows. Returns the
	// number of events imported.
	ImportForProvider(ctx context.Context, providerID string) (int, error)

	// ExportICS renders the provider's upcoming platform bookings as an
	// iCalendar document.
	ExportICS(ctx context.Context, providerID string) (string, error)
}

type service struct {
	repo        Repository
	registry    *Registry
	ledger      Ledger
	horizonDays int
	now         func() time.Time
}

func NewService(repo Repository, registry *Registry, ledger Ledger, horizonDays int) Service {
	return &service{
		repo:        repo,
		registry:    registry,
		ledger:      ledger,
		horizonDays: horizonDays,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Connect(ctx context.Context, providerID, ecosystem string, creds Credentials, sharesDetail bool) (*Connection, error) {
	if _, err := s.registry.Get(ecosystem); err != nil {
		return nil, err
	}

	conn := &Connection{
		ProviderID:   providerID,
		Ecosystem:    ecosystem,
		Credentials:  creds,
		SharesDetail: sharesDetail,
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *service) ListConnections(ctx context.Context, providerID string) ([]*Connection, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

func (s *service) Disconnect(ctx context.Context, id, providerID string) error {
	conn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if conn.ProviderID != providerID {
		return ErrConnectionNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ImportForProvider(ctx context.Context, providerID string) (int, error) {
	conns, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return 0, err
	}

	windowStart := s.now()
	windowEnd := windowStart.AddDate(0, 0, s.horizonDays)

	imported := 0
	for _, conn := range conns {
		adapter, err := s.registry.Get(conn.Ecosystem)
		if err != nil {
			log.Printf("calendar sync: provider %s has connection to unregistered ecosystem %q", providerID, conn.Ecosystem)
			continue
		}

		events, err := adapter.ImportEvents(ctx, conn.Credentials, windowStart, windowEnd)
		if err != nil {
			// One broken calendar must not abort the rest of the sync.
			log.Printf("calendar sync: import from %s failed for provider %s: %v", conn.Ecosystem, providerID, err)
			continue
		}

		rows := make([]*commitment.Commitment, 0, len(events))
		for _, ev := range events {
			evID := ev.ID
			if !conn.SharesDetail {
				// Busy-only connection: keep the interval, drop the detail.
				ev.Title = "Busy"
			}
			rows = append(rows, &commitment.Commitment{
				ProviderID:      providerID,
				StartTime:       ev.Start,
				EndTime:         ev.End,
				Kind:            commitment.KindExternal,
				Status:          commitment.StatusConfirmed,
				Source:          conn.Ecosystem,
				Title:           ev.Title,
				ExternalEventID: &evID,
			})
		}

		if err := s.ledger.ReplaceExternal(ctx, providerID, conn.Ecosystem, rows); err != nil {
			return imported, fmt.Errorf("replace imported events failed: %w", err)
		}
		imported += len(rows)

		if err := s.repo.UpdateLastSynced(ctx, conn.ID, s.now()); err != nil {
			log.Printf("calendar sync: update last_synced_at failed for connection %s: %v", conn.ID, err)
		}
	}

	return imported, nil
}

func (s *service) ExportICS(ctx context.Context, providerID string) (string, error) {
	from := s.now()
	to := from.AddDate(0, 0, s.horizonDays)

	bookings, err := s.ledger.ListInRange(ctx, providerID,
		[]commitment.Kind{commitment.KindBooking},
		commitment.BlockingStatuses,
		from, to, "")
	if err != nil {
		return "", fmt.Errorf("list bookings for export failed: %w", err)
	}

	events := make([]Event, 0, len(bookings))
	for _, b := range bookings {
		title := b.Title
		if title == "" {
			title = "Booking"
		}
		events = append(events, Event{
			ID:          b.ID,
			Title:       title,
			Description: "Booked via stagetime",
			Start:       b.StartTime,
			End:         b.EndTime,
		})
	}

	return WriteICS(events), nil
}
