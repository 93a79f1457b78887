package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirateia/stagetime-backend/internal/availability"
)

func TestFindAlternativesAllThree(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = append(env.ledger.items,
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)))

	alts, err := env.service.FindAlternatives(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0))
	require.NoError(t, err)
	require.Len(t, alts, 3)

	// Nearby-first: before, after, then same time next day.
	assert.Equal(t, at(testDay, 9, 0), alts[0].Start)
	assert.Equal(t, at(testDay, 10, 0), alts[0].End)
	assert.Equal(t, ConfidenceHigh, alts[0].Confidence)

	assert.Equal(t, at(testDay, 11, 0), alts[1].Start)
	assert.Equal(t, at(testDay, 12, 0), alts[1].End)
	assert.Equal(t, ConfidenceHigh, alts[1].Confidence)

	assert.Equal(t, at(dayAfter, 10, 0), alts[2].Start)
	assert.Equal(t, at(dayAfter, 11, 0), alts[2].End)
	assert.Equal(t, ConfidenceMedium, alts[2].Confidence)
}

func TestFindAlternativesAreRevalidated(t *testing.T) {
	env := newTestEnv(openConfig())
	env.ledger.items = append(env.ledger.items,
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)),
		booking("bk-2", at(testDay, 11, 30), at(testDay, 12, 30))) // Overlaps the after-proposal

	alts, err := env.service.FindAlternatives(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0))
	require.NoError(t, err)
	require.Len(t, alts, 2)

	assert.Equal(t, at(testDay, 9, 0), alts[0].Start)
	assert.Equal(t, at(dayAfter, 10, 0), alts[1].Start)

	// Every proposal must itself pass a full check.
	for _, alt := range alts {
		result, err := env.service.Check(context.Background(), "prov-1", alt.Start, alt.End, "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict)
	}
}

func TestFindAlternativesRespectWindows(t *testing.T) {
	// Monday-only windows: the next-day proposal lands on Tuesday and must
	// be dropped.
	cfg := openConfig()
	cfg.WeeklyWindows = []availability.WeeklyWindow{
		{Weekday: 1, StartTime: "09:00", EndTime: "17:00", Timezone: "UTC"},
	}
	env := newTestEnv(cfg)
	env.ledger.items = append(env.ledger.items,
		booking("bk-1", at(testDay, 10, 0), at(testDay, 11, 0)))

	alts, err := env.service.FindAlternatives(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0))
	require.NoError(t, err)
	require.Len(t, alts, 2)
	for _, alt := range alts {
		assert.Equal(t, time.Monday, alt.Start.Weekday())
	}
}

func TestFindAlternativesNoneAvailable(t *testing.T) {
	env := newTestEnv(openConfig())
	// The whole week is blocked solid.
	env.ledger.items = append(env.ledger.items,
		booking("bk-1", testDay, weekAfter))

	alts, err := env.service.FindAlternatives(context.Background(), "prov-1", at(testDay, 10, 0), at(testDay, 11, 0))
	require.NoError(t, err)
	assert.Empty(t, alts)
}
