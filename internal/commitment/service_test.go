package commitment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/user"
)

// ==== Fakes ====

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]*Commitment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]*Commitment)}
}

func (r *memoryRepo) Create(ctx context.Context, cm *Commitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cm.ID == "" {
		cm.ID = uuid.New().String()
	}
	cm.CreatedAt = time.Now().UTC()
	cm.UpdatedAt = cm.CreatedAt
	cp := *cm
	r.items[cm.ID] = &cp
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*Commitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cm, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *cm
	return &cp, nil
}

func (r *memoryRepo) List(ctx context.Context, filter Filter) ([]*Commitment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Commitment
	for _, cm := range r.items {
		cp := *cm
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Update(ctx context.Context, cm *Commitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[cm.ID]; !ok {
		return ErrNotFound
	}
	cm.UpdatedAt = time.Now().UTC()
	cp := *cm
	r.items[cm.ID] = &cp
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryRepo) ListInRange(ctx context.Context, providerID string, kinds []Kind, statuses []Status, start, end time.Time, excludeID string) ([]*Commitment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Commitment
	for _, cm := range r.items {
		if cm.ProviderID != providerID || (excludeID != "" && cm.ID == excludeID) {
			continue
		}
		if !hasKind(kinds, cm.Kind) || !hasStatus(statuses, cm.Status) {
			continue
		}
		if cm.StartTime.Before(end) && cm.EndTime.After(start) {
			cp := *cm
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) ReplaceExternal(ctx context.Context, providerID, source string, events []*Commitment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cm := range r.items {
		if cm.ProviderID == providerID && cm.Kind == KindExternal && cm.Source == source {
			delete(r.items, id)
		}
	}
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		cp := *ev
		r.items[ev.ID] = &cp
	}
	return nil
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

func hasStatus(statuses []Status, s Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

type fakeProviders struct {
	missing bool
}

func (f *fakeProviders) GetProvider(ctx context.Context, id string) (*user.User, error) {
	if f.missing {
		return nil, user.ErrNotFound
	}
	return &user.User{ID: id, IsProvider: true, IsActive: true}, nil
}

type fakeConfigs struct {
	cfg availability.Config
}

func (f *fakeConfigs) GetConfig(ctx context.Context, providerID string) (availability.Config, error) {
	return f.cfg, nil
}

// ledgerChecker answers conflict checks from the repo using the strict
// half-open overlap test, the way the schedule engine does.
type ledgerChecker struct {
	repo Repository
}

func (c *ledgerChecker) HasBlockingConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (bool, error) {
	items, err := c.repo.ListInRange(ctx, providerID,
		[]Kind{KindBooking, KindBlocked, KindExternal}, BlockingStatuses,
		start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

type env struct {
	repo    *memoryRepo
	configs *fakeConfigs
	service *service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		repo:    newMemoryRepo(),
		configs: &fakeConfigs{cfg: availability.DefaultConfig()},
	}
	svc := NewService(e.repo, &fakeProviders{}, e.configs, &ledgerChecker{repo: e.repo})
	e.service = svc.(*service)
	e.service.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }
	return e
}

func slot(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

// ==== Tests ====

func TestCreateBookingLifecycle(t *testing.T) {
	e := newEnv(t)

	cm, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID:   "client-1",
		ProviderID: "prov-1",
		StartTime:  slot(9, 10),
		EndTime:    slot(9, 11),
		Title:      "Vocal session",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, cm.ID)
	assert.Equal(t, KindBooking, cm.Kind)
	assert.Equal(t, StatusPending, cm.Status, "manual-accept providers start bookings pending")
	assert.Equal(t, SourcePlatform, cm.Source)
	require.NotNil(t, cm.ClientID)
	assert.Equal(t, "client-1", *cm.ClientID)
}

func TestCreateBookingAutoAccept(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	cm, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID:   "client-1",
		ProviderID: "prov-1",
		StartTime:  slot(9, 10),
		EndTime:    slot(9, 11),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, cm.Status)
}

func TestCreateBookingValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c", ProviderID: "p",
		StartTime: slot(9, 11), EndTime: slot(9, 10),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c", ProviderID: "p",
		StartTime: slot(1, 10), EndTime: slot(1, 11), // Before the frozen now
	})
	assert.ErrorIs(t, err, ErrStartTimePast)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	first, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	_, err = e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c2", ProviderID: "prov-1",
		StartTime: slot(9, 10).Add(30 * time.Minute), EndTime: slot(9, 11).Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrTimeConflict)

	// Touching the confirmed booking is fine.
	_, err = e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c3", ProviderID: "prov-1",
		StartTime: first.EndTime, EndTime: first.EndTime.Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateBookingPendingDoesNotBlock(t *testing.T) {
	e := newEnv(t)

	// Manual-accept: the first booking stays pending and must not claim the
	// interval.
	_, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	_, err = e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c2", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	assert.NoError(t, err)
}

func TestConcurrentOverlappingBookings(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.service.CreateBooking(context.Background(), CreateBookingRequest{
				ClientID:   "client",
				ProviderID: "prov-1",
				StartTime:  slot(9, 10),
				EndTime:    slot(9, 11),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrTimeConflict)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the racing bookings may win")
}

func TestCreateBlockSkipsConflictCheck(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	_, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	blk, err := e.service.CreateBlock(context.Background(), BlockRequest{
		ProviderID: "prov-1",
		StartTime:  slot(9, 10),
		EndTime:    slot(9, 12),
		Reason:     "gear maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, KindBlocked, blk.Kind)
	assert.Equal(t, StatusConfirmed, blk.Status)
	assert.Equal(t, SourceManual, blk.Source)
}

func TestUpdateReschedule(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	cm, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "client-1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	t.Run("shifting within its own old interval succeeds", func(t *testing.T) {
		newStart := slot(9, 10).Add(30 * time.Minute)
		newEnd := slot(9, 11).Add(30 * time.Minute)
		updated, err := e.service.Update(context.Background(), cm.ID,
			UpdateRequest{StartTime: &newStart, EndTime: &newEnd}, "prov-1")
		require.NoError(t, err)
		assert.Equal(t, newStart, updated.StartTime)
	})

	t.Run("strangers cannot touch it", func(t *testing.T) {
		title := "hijacked"
		_, err := e.service.Update(context.Background(), cm.ID, UpdateRequest{Title: &title}, "intruder")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("clients may only cancel", func(t *testing.T) {
		confirmed := string(StatusConfirmed)
		_, err := e.service.Update(context.Background(), cm.ID, UpdateRequest{Status: &confirmed}, "client-1")
		assert.ErrorIs(t, err, ErrPermissionDenied)

		cancelled := string(StatusCancelled)
		updated, err := e.service.Update(context.Background(), cm.ID, UpdateRequest{Status: &cancelled}, "client-1")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
	})
}

func TestUpdateRescheduleConflicts(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	first, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	second, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "c2", ProviderID: "prov-1",
		StartTime: slot(9, 14), EndTime: slot(9, 15),
	})
	require.NoError(t, err)

	// Moving the second onto the first must fail.
	newStart, newEnd := first.StartTime, first.EndTime
	_, err = e.service.Update(context.Background(), second.ID,
		UpdateRequest{StartTime: &newStart, EndTime: &newEnd}, "prov-1")
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestCancelSemantics(t *testing.T) {
	e := newEnv(t)
	e.configs.cfg.AutoAccept = true

	cm, err := e.service.CreateBooking(context.Background(), CreateBookingRequest{
		ClientID: "client-1", ProviderID: "prov-1",
		StartTime: slot(9, 10), EndTime: slot(9, 11),
	})
	require.NoError(t, err)

	blk, err := e.service.CreateBlock(context.Background(), BlockRequest{
		ProviderID: "prov-1", StartTime: slot(9, 12), EndTime: slot(9, 13),
	})
	require.NoError(t, err)

	// Bookings keep a cancelled record.
	require.NoError(t, e.service.Cancel(context.Background(), cm.ID, "client-1"))
	got, err := e.service.GetByID(context.Background(), cm.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// Blocks disappear.
	require.NoError(t, e.service.Cancel(context.Background(), blk.ID, "prov-1"))
	_, err = e.service.GetByID(context.Background(), blk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
