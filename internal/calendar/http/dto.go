package http

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/calendar"
)

type ConnectionResponse struct {
	ID           string     `json:"id"`
	Ecosystem    string     `json:"ecosystem"`
	SharesDetail bool       `json:"shares_detail"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// NewConnectionResponse intentionally omits credentials.
func NewConnectionResponse(conn *calendar.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:           conn.ID,
		Ecosystem:    conn.Ecosystem,
		SharesDetail: conn.SharesDetail,
		CreatedAt:    conn.CreatedAt,
		LastSyncedAt: conn.LastSyncedAt,
	}
}

type ConnectRequest struct {
	Ecosystem    string            `json:"ecosystem" binding:"required"`
	Credentials  map[string]string `json:"credentials" binding:"required"`
	SharesDetail bool              `json:"shares_detail"`
}

type SyncResponse struct {
	ImportedEvents int `json:"imported_events"`
}
