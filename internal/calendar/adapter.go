package calendar

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrExportUnsupported is returned by adapters that cannot write events
	// back to the external calendar (e.g. read-only feeds).
	ErrExportUnsupported = errors.New("adapter does not support exporting events")

	ErrUnknownEcosystem = errors.New("unknown calendar ecosystem")
)

// Event is the neutral representation of an external calendar event.
// Richer detail than this is best-effort only.
type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// Credentials is the opaque per-connection secret material handed to an
// adapter. Each ecosystem defines its own keys (tokens, feed URLs, ...).
type Credentials map[string]string

// Adapter abstracts one external calendar ecosystem. The engine assumes
// nothing beyond this contract.
type Adapter interface {
	// HasConflict answers a single yes/no question: does anything on the
	// external calendar overlap [start, end)?
	HasConflict(ctx context.Context, creds Credentials, start, end time.Time) (bool, error)

	// ImportEvents lists events overlapping the window.
	ImportEvents(ctx context.Context, creds Credentials, windowStart, windowEnd time.Time) ([]Event, error)

	// ExportEvent pushes an event to the external calendar, returning the
	// external event id. Adapters may return ErrExportUnsupported.
	ExportEvent(ctx context.Context, creds Credentials, ev Event) (string, error)
}
