package commitment

import (
	"context"
	"time"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/user"
)

// SourcePlatform marks commitments created through this marketplace.
const SourcePlatform = "platform"

// SourceManual marks intervals the provider blocked by hand.
const SourceManual = "manual"

// ProviderSource validates that a provider account exists and is active.
type ProviderSource interface {
	GetProvider(ctx context.Context, id string) (*user.User, error)
}

// ConfigSource exposes the provider's availability configuration.
type ConfigSource interface {
	GetConfig(ctx context.Context, providerID string) (availability.Config, error)
}

// ConflictChecker answers whether an interval collides with any competing
// time claim. Implemented by the schedule engine.
type ConflictChecker interface {
	HasBlockingConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error)
}

type CreateBookingRequest struct {
	ClientID   string
	ProviderID string
	StartTime  time.Time
	EndTime    time.Time
	Title      string
}

type BlockRequest struct {
	ProviderID string
	StartTime  time.Time
	EndTime    time.Time
	Reason     string
}

type UpdateRequest struct {
	StartTime *time.Time
	EndTime   *time.Time
	Status    *string
	Title     *string
}

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Commitment, error)
	CreateBlock(ctx context.Context, req BlockRequest) (*Commitment, error)
	GetByID(ctx context.Context, id string) (*Commitment, error)
	List(ctx context.Context, filter Filter) ([]*Commitment, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Commitment, error)
	Cancel(ctx context.Context, id string, actorID string) error
}

type service struct {
	repo      Repository
	providers ProviderSource
	configs   ConfigSource
	checker   ConflictChecker
	locks     *providerLocks
	now       func() time.Time
}

func NewService(repo Repository, providers ProviderSource, configs ConfigSource, checker ConflictChecker) Service {
	return &service{
		repo:      repo,
		providers: providers,
		configs:   configs,
		checker:   checker,
		locks:     newProviderLocks(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Commitment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	if _, err := s.providers.GetProvider(ctx, req.ProviderID); err != nil {
		return nil, ErrProviderNotFound
	}

	cfg, err := s.configs.GetConfig(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if cfg.AutoAccept {
		status = StatusConfirmed
	}

	// Serialize check + insert per provider so two overlapping requests
	// cannot both pass the conflict check.
	mu := s.locks.lock(req.ProviderID)
	defer mu.Unlock()

	hasConflict, err := s.checker.HasBlockingConflict(ctx, req.ProviderID, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}
	if hasConflict {
		return nil, ErrTimeConflict
	}

	cm := &Commitment{
		ProviderID: req.ProviderID,
		ClientID:   &req.ClientID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Kind:       KindBooking,
		Status:     status,
		Source:     SourcePlatform,
		Title:      req.Title,
	}

	if err := s.repo.Create(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *service) CreateBlock(ctx context.Context, req BlockRequest) (*Commitment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	mu := s.locks.lock(req.ProviderID)
	defer mu.Unlock()

	// A manual block is the provider claiming their own time; it may overlap
	// existing commitments, so no conflict check here.
	cm := &Commitment{
		ProviderID: req.ProviderID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Kind:       KindBlocked,
		Status:     StatusConfirmed,
		Source:     SourceManual,
		Title:      req.Reason,
	}

	if err := s.repo.Create(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Commitment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Commitment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string) (*Commitment, error) {
	cm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isClient := cm.ClientID != nil && *cm.ClientID == actorID
	isProvider := cm.ProviderID == actorID

	if !isClient && !isProvider {
		return nil, ErrPermissionDenied
	}

	newStart := cm.StartTime
	newEnd := cm.EndTime
	timeChanged := false

	if req.StartTime != nil {
		newStart = *req.StartTime
		timeChanged = true
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
		timeChanged = true
	}

	if timeChanged {
		if cm.Kind == KindExternal {
			// Imported events are owned by the external calendar.
			return nil, ErrPermissionDenied
		}
		if !newEnd.After(newStart) {
			return nil, ErrInvalidTimeRange
		}
		if req.StartTime != nil && req.StartTime.Before(s.now()) {
			return nil, ErrStartTimePast
		}

		// Re-check excluding the commitment itself so a reschedule does not
		// collide with its own old interval.
		mu := s.locks.lock(cm.ProviderID)
		defer mu.Unlock()

		hasConflict, err := s.checker.HasBlockingConflict(ctx, cm.ProviderID, newStart, newEnd, cm.ID)
		if err != nil {
			return nil, err
		}
		if hasConflict {
			return nil, ErrTimeConflict
		}
		cm.StartTime = newStart
		cm.EndTime = newEnd
	}

	if req.Status != nil {
		st := Status(*req.Status)
		switch st {
		case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		default:
			return nil, ErrInvalidStatus
		}

		// Clients may only cancel; everything else is the provider's call.
		if isClient && !isProvider && st != StatusCancelled {
			return nil, ErrPermissionDenied
		}
		cm.Status = st
	}

	if req.Title != nil {
		cm.Title = *req.Title
	}

	if err := s.repo.Update(ctx, cm); err != nil {
		return nil, err
	}

	return cm, nil
}

func (s *service) Cancel(ctx context.Context, id string, actorID string) error {
	cm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isClient := cm.ClientID != nil && *cm.ClientID == actorID
	isProvider := cm.ProviderID == actorID
	if !isClient && !isProvider {
		return ErrPermissionDenied
	}

	// Manual blocks are removed outright; bookings keep a cancelled record.
	if cm.Kind == KindBlocked {
		return s.repo.Delete(ctx, id)
	}

	cm.Status = StatusCancelled
	return s.repo.Update(ctx, cm)
}
