package schedule

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirateia/stagetime-backend/internal/availability"
	"github.com/mirateia/stagetime-backend/internal/calendar"
	"github.com/mirateia/stagetime-backend/internal/commitment"
)

// ==== Fakes ====

type fakeConfigs struct {
	cfg availability.Config
	err error
}

func (f *fakeConfigs) GetConfig(ctx context.Context, providerID string) (availability.Config, error) {
	if f.err != nil {
		return availability.Config{}, f.err
	}
	return f.cfg, nil
}

type fakeLedger struct {
	items []*commitment.Commitment
	err   error
}

func (f *fakeLedger) ListInRange(ctx context.Context, providerID string, kinds []commitment.Kind, statuses []commitment.Status, start, end time.Time, excludeID string) ([]*commitment.Commitment, error) {
	if f.err != nil {
		return nil, f.err
	}

	var out []*commitment.Commitment
	for _, cm := range f.items {
		if cm.ID == excludeID && excludeID != "" {
			continue
		}
		if !containsKind(kinds, cm.Kind) || !containsStatus(statuses, cm.Status) {
			continue
		}
		if cm.StartTime.Before(end) && cm.EndTime.After(start) {
			out = append(out, cm)
		}
	}
	return out, nil
}

func containsKind(kinds []commitment.Kind, k commitment.Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

func containsStatus(statuses []commitment.Status, s commitment.Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

type fakeConnections struct {
	conns []*calendar.Connection
	err   error
}

func (f *fakeConnections) ListByProvider(ctx context.Context, providerID string) ([]*calendar.Connection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conns, nil
}

type fakeAdapter struct {
	busy  bool
	err   error
	delay time.Duration
}

func (f *fakeAdapter) HasConflict(ctx context.Context, creds calendar.Credentials, start, end time.Time) (bool, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return false, f.err
	}
	return f.busy, nil
}

func (f *fakeAdapter) ImportEvents(ctx context.Context, creds calendar.Credentials, windowStart, windowEnd time.Time) ([]calendar.Event, error) {
	return nil, nil
}

func (f *fakeAdapter) ExportEvent(ctx context.Context, creds calendar.Credentials, ev calendar.Event) (string, error) {
	return "", calendar.ErrExportUnsupported
}

type testEnv struct {
	configs     *fakeConfigs
	ledger      *fakeLedger
	connections *fakeConnections
	registry    *calendar.Registry
	service     *service
}

func newTestEnv(cfg availability.Config) *testEnv {
	env := &testEnv{
		configs:     &fakeConfigs{cfg: cfg},
		ledger:      &fakeLedger{},
		connections: &fakeConnections{},
		registry:    calendar.NewRegistry(),
	}
	svc := NewService(env.configs, env.ledger, env.connections, env.registry, 200*time.Millisecond)
	env.service = svc.(*service)
	env.service.now = func() time.Time { return testNow }
	return env
}

func openConfig() availability.Config {
	cfg := mondayConfig()
	cfg.BufferMinutes = 0
	cfg.WeeklyWindows = []availability.WeeklyWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
		{Weekday: 2, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
	}
	return cfg
}

func booking(id string, start, end time.Time) *commitment.Commitment {
	return &commitment.Commitment{
		ID:        id,
		StartTime: start,
		EndTime:   end,
		Kind:      commitment.KindBooking,
		Status:    commitment.StatusConfirmed,
		Title:     "Session",
	}
}

// ==== Tests ====

func TestCheckInternalConflict(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = []*commitment.Commitment{
		booking("bk-1", at(testDay, 10, 30), at(testDay, 11, 30)),
	}

	result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
	require.NoError(t, err)

	assert.True(t, result.HasConflict)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, SourceInternal, result.Sources[0].Source)
	assert.Equal(t, "bk-1", result.Sources[0].ID)
	assert.Equal(t, at(testDay, 10, 30), result.Sources[0].Start)
}

func TestCheckExcludeSelf(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = []*commitment.Commitment{
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)),
	}

	// A reschedule re-validating its own interval must not collide with
	// itself.
	result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "bk-1")
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	assert.Empty(t, result.Sources)
}

func TestCheckTouchingIsNotConflict(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = []*commitment.Commitment{
		booking("bk-1", at(testDay, 11, 0), at(testDay, 12, 0)),
	}

	result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
}

func TestCheckPolicyViolations(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		mutate     func(*availability.Config)
		wantSource string
	}{
		{
			name:       "too little notice",
			start:      testNow.Add(2 * time.Hour),
			end:        testNow.Add(3 * time.Hour),
			wantSource: SourceAdvancePolicy,
		},
		{
			name:       "too far ahead",
			start:      at(testNow.AddDate(0, 0, 120), 10, 0),
			end:        at(testNow.AddDate(0, 0, 120), 11, 0),
			wantSource: SourceAdvancePolicy,
		},
		{
			name:       "no window covers the interval",
			start:      at(testDay.AddDate(0, 0, 5), 10, 0), // Saturday
			end:        at(testDay.AddDate(0, 0, 5), 11, 0),
			wantSource: SourceOutsideWindows,
		},
		{
			name:  "blackout date",
			start: at(testDay, 10, 0),
			end:   at(testDay, 11, 0),
			mutate: func(cfg *availability.Config) {
				cfg.BlackoutDates = []availability.BlackoutDate{{Date: "2026-03-09", Reason: "on tour"}}
			},
			wantSource: SourceBlackout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := openConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			env := newTestEnv(cfg)

			result, err := env.service.Check(context.Background(), "prov-1", tt.start, tt.end, "")
			require.NoError(t, err)
			require.True(t, result.HasConflict)

			found := false
			for _, src := range result.Sources {
				if src.Source == tt.wantSource {
					found = true
				}
			}
			assert.True(t, found, "expected a %s source, got %+v", tt.wantSource, result.Sources)
		})
	}
}

func TestCheckBlackoutReasonSurfaces(t *testing.T) {
	cfg := openConfig()
	cfg.BlackoutDates = []availability.BlackoutDate{{Date: "2026-03-09", Reason: "on tour"}}
	env := newTestEnv(cfg)

	result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
	require.NoError(t, err)
	require.True(t, result.HasConflict)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "on tour", result.Sources[0].Description)
}

func TestCheckAggregatesAllSources(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = []*commitment.Commitment{
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)),
		{
			ID:        "blk-1",
			StartTime: at(testDay, 10, 30),
			EndTime:   at(testDay, 12, 0),
			Kind:      commitment.KindBlocked,
			Status:    commitment.StatusConfirmed,
		},
	}
	env.registry.Register("ics_feed", &fakeAdapter{busy: true})
	env.connections.conns = []*calendar.Connection{
		{ID: "conn-1", ProviderID: "prov-1", Ecosystem: "ics_feed"},
	}

	result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
	require.NoError(t, err)
	require.True(t, result.HasConflict)
	require.Len(t, result.Sources, 3)

	bySource := map[string]int{}
	for _, src := range result.Sources {
		bySource[src.Source]++
	}
	assert.Equal(t, 1, bySource[SourceInternal])
	assert.Equal(t, 1, bySource[SourceBlocked])
	assert.Equal(t, 1, bySource["ics_feed"])
}

func TestCheckFailsOpen(t *testing.T) {
	t.Run("broken ledger", func(t *testing.T) {
		env := newTestEnv(openConfig())
		env.ledger.err = context.DeadlineExceeded

		result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict)
	})

	t.Run("broken adapter", func(t *testing.T) {
		env := newTestEnv(openConfig())
		env.registry.Register("ics_feed", &fakeAdapter{err: assert.AnError})
		env.connections.conns = []*calendar.Connection{
			{ID: "conn-1", ProviderID: "prov-1", Ecosystem: "ics_feed"},
		}

		result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict)
	})

	t.Run("slow adapter is cut off by the timeout", func(t *testing.T) {
		env := newTestEnv(openConfig())
		env.registry.Register("ics_feed", &fakeAdapter{busy: true, delay: 5 * time.Second})
		env.connections.conns = []*calendar.Connection{
			{ID: "conn-1", ProviderID: "prov-1", Ecosystem: "ics_feed"},
		}

		started := time.Now()
		result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict)
		assert.Less(t, time.Since(started), 2*time.Second)
	})

	t.Run("broken connection listing skips adapters", func(t *testing.T) {
		env := newTestEnv(openConfig())
		env.connections.err = assert.AnError

		result, err := env.service.Check(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0), "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict)
	})
}

func TestCheckInvalidInterval(t *testing.T) {
	env := newTestEnv(openConfig())
	_, err := env.service.Check(context.Background(), "prov-1", at(testDay, 11, 0), at(testDay, 10, 0), "")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestHasBlockingConflictOverlapProperty(t *testing.T) {
	env := newTestEnv(openConfig())
	bkStart, bkEnd := at(testDay, 10, 0), at(testDay, 11, 0)
	env.ledger.items = []*commitment.Commitment{booking("bk-1", bkStart, bkEnd)}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		startMin := rng.Intn(23 * 60)
		lengthMin := 1 + rng.Intn(120)
		start := testDay.Add(time.Duration(startMin) * time.Minute)
		end := start.Add(time.Duration(lengthMin) * time.Minute)

		got, err := env.service.HasBlockingConflict(context.Background(), "prov-1", start, end, "")
		require.NoError(t, err)

		want := bkStart.Before(end) && bkEnd.After(start)
		if got != want {
			t.Fatalf("interval [%v, %v): got conflict=%v, want %v", start, end, got, want)
		}
	}
}

func TestHasBlockingConflictAppliesBuffer(t *testing.T) {
	cfg := openConfig()
	cfg.BufferMinutes = 15
	env := newTestEnv(cfg)
	env.ledger.items = []*commitment.Commitment{
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)),
	}

	// 11:00-12:00 touches the booking but falls inside its 15 min buffer.
	got, err := env.service.HasBlockingConflict(context.Background(), "prov-1", at(testDay, 11, 0), at(testDay, 12, 0), "")
	require.NoError(t, err)
	assert.True(t, got)

	// 11:15-12:15 clears the buffer exactly; touching the inflated interval
	// is still not an overlap.
	got, err = env.service.HasBlockingConflict(context.Background(), "prov-1", at(testDay, 11, 15), at(testDay, 12, 15), "")
	require.NoError(t, err)
	assert.False(t, got)
}
