package http

import (
	"time"

	"github.com/mirateia/stagetime-backend/internal/commitment"
	"github.com/mirateia/stagetime-backend/internal/pkg/request"
)

type CommitmentResponse struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"provider_id"`
	ClientID   *string   `json:"client_id,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewCommitmentResponse(cm *commitment.Commitment) CommitmentResponse {
	return CommitmentResponse{
		ID:         cm.ID,
		ProviderID: cm.ProviderID,
		ClientID:   cm.ClientID,
		StartTime:  cm.StartTime,
		EndTime:    cm.EndTime,
		Kind:       string(cm.Kind),
		Status:     string(cm.Status),
		Source:     cm.Source,
		Title:      cm.Title,
		CreatedAt:  cm.CreatedAt,
		UpdatedAt:  cm.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	ProviderID string    `json:"provider_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Title      string    `json:"title"`
}

type CreateBlockRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
}

type UpdateCommitmentRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    *string    `json:"status" binding:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	Title     *string    `json:"title"`
}

// ListCommitmentsRequest defines query parameters for listing commitments.
type ListCommitmentsRequest struct {
	request.ListParams
	ProviderID    string     `form:"provider_id" binding:"omitempty,uuid"`
	Kind          string     `form:"kind" binding:"omitempty,oneof=booking blocked external"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
}
