package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	assert.True(t, tr.CanSubmit())

	h, err := tr.Submit("ord-1")
	require.NoError(t, err)
	assert.Equal(t, Submitted, h.State)
	assert.False(t, tr.CanSubmit())

	// Second submission while in flight must fail.
	_, err = tr.Submit("ord-2")
	assert.ErrorIs(t, err, ErrOrderInFlight)

	assert.True(t, tr.OnReport(Report{OrderID: "ord-1", State: Working}))
	assert.False(t, tr.CanSubmit())

	assert.True(t, tr.OnReport(Report{OrderID: "ord-1", State: Filled, FilledQty: 2, AvgFillPrice: 18000.25}))
	assert.True(t, tr.CanSubmit())

	h, ok := tr.Current()
	assert.True(t, ok)
	assert.Equal(t, Filled, h.State)
}

func TestTrackerIgnoresForeignReports(t *testing.T) {
	tr := NewTracker()
	_, err := tr.Submit("ord-1")
	require.NoError(t, err)

	assert.False(t, tr.OnReport(Report{OrderID: "manual-77", State: Filled}))
	assert.False(t, tr.CanSubmit(), "foreign report must not release the handle")

	// Reports before any submission are ignored too.
	fresh := NewTracker()
	assert.False(t, fresh.OnReport(Report{OrderID: "ord-1", State: Filled}))
}

func TestTrackerResubmitAfterTerminal(t *testing.T) {
	tr := NewTracker()

	for _, terminal := range []State{Cancelled, Rejected, Filled} {
		h, err := tr.Submit("ord-" + terminal.String())
		require.NoError(t, err)
		require.True(t, tr.OnReport(Report{OrderID: h.ID, State: terminal}))
		assert.True(t, tr.CanSubmit())
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	_, err := tr.Submit("ord-1")
	require.NoError(t, err)

	tr.Reset()
	assert.True(t, tr.CanSubmit())
	_, ok := tr.Current()
	assert.False(t, ok)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "NONE", None.String())
	assert.Equal(t, "SUBMITTED", Submitted.String())
	assert.Equal(t, "WORKING", Working.String())
	assert.Equal(t, "FILLED", Filled.String())
	assert.Equal(t, "CANCELLED", Cancelled.String())
	assert.Equal(t, "REJECTED", Rejected.String())
}
