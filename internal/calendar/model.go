package calendar

import (
	"net/http"
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/apperror"
)

var (
	ErrConnectionNotFound = apperror.New(http.StatusNotFound, "calendar connection not found")
	ErrAlreadyConnected   = apperror.New(http.StatusConflict, "calendar already connected for this ecosystem")
)

// Connection links a provider to one external calendar.
type Connection struct {
	ID         string
	ProviderID string
	Ecosystem  string
	// Credentials is stored as an opaque JSON document; only the matching
	// adapter interprets it.
	Credentials Credentials
	// SharesDetail is false when the external calendar only answers
	// busy/free. Conflicts from such connections get a placeholder source.
	SharesDetail bool
	CreatedAt    time.Time
	LastSyncedAt *time.Time
}
