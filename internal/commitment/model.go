package commitment

import (
	"net/http"
	"time"

	"github.com/mirateia/stagetime-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "commitment not found")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "interval conflicts with an existing commitment")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid commitment status")
	ErrProviderNotFound = apperror.New(http.StatusNotFound, "provider not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot create commitment in the past")
	ErrNotABooking      = apperror.New(http.StatusBadRequest, "commitment is not a booking")
)

// Kind classifies what is consuming the provider's time.
type Kind string

const (
	KindBooking  Kind = "booking"  // A client booking on this platform
	KindBlocked  Kind = "blocked"  // A manual block by the provider
	KindExternal Kind = "external" // An event imported from an external calendar
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// BlockingStatuses are the statuses under which a commitment claims the
// provider's time for conflict purposes.
var BlockingStatuses = []Status{StatusConfirmed, StatusInProgress}

// Commitment is any interval consuming a provider's time: a booking, a manual
// block, or an imported external event.
type Commitment struct {
	ID              string
	ProviderID      string
	ClientID        *string // Set for bookings only
	StartTime       time.Time
	EndTime         time.Time
	Kind            Kind
	Status          Status
	Source          string // e.g. "platform", "manual", or an external ecosystem name
	Title           string
	ExternalEventID *string // Set for imported events
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing commitments.
type Filter struct {
	ProviderID string
	ClientID   string
	Kind       string
	Status     string
	StartTime  *time.Time // Commitments ending after this time
	EndTime    *time.Time // Commitments starting before this time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
