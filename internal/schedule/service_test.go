package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailabilityPartitions(t *testing.T) {
	env := newTestEnv(mondayConfig())
	env.ledger.items = append(env.ledger.items,
		booking("bk-1", at(testDay, 10, 0), at(testDay, 10, 30)))

	report, err := env.service.GetAvailability(context.Background(), "prov-1", testDay, dayAfter)
	require.NoError(t, err)

	// The 09:00 and 10:15 slots both fall inside the buffered booking.
	assert.Equal(t, 2, report.Summary.TotalSlots)
	assert.Equal(t, 0, report.Summary.AvailableCount)
	assert.Equal(t, 2, report.Summary.BusyCount)
	assert.Empty(t, report.AvailableSlots)
	require.Len(t, report.BusySlots, 2)
	for _, s := range report.BusySlots {
		assert.Equal(t, "bk-1", s.ConflictingCommitmentID)
	}

	assert.Equal(t, testDay, report.Summary.RangeStart)
	assert.Equal(t, dayAfter, report.Summary.RangeEnd)
}

func TestGenerateSlotsServiceWidensLedgerQuery(t *testing.T) {
	env := newTestEnv(mondayConfig())
	// Ends just before the range opens; with the 15 min buffer it still
	// collides with the 09:00 slot... but only if the ledger query was
	// widened enough to fetch it.
	env.ledger.items = append(env.ledger.items,
		booking("bk-0", at(testDay, 8, 0), at(testDay, 8, 50)))

	slots, err := env.service.GenerateSlots(context.Background(), "prov-1", at(testDay, 9, 0), dayAfter)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.False(t, slots[0].Available)
	assert.Equal(t, "bk-0", slots[0].ConflictingCommitmentID)
}

func TestGenerateSlotsServiceInvalidRange(t *testing.T) {
	env := newTestEnv(mondayConfig())
	_, err := env.service.GenerateSlots(context.Background(), "prov-1", dayAfter, testDay)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
