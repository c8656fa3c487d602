package position

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ev(action Action, qty int) ExecutionEvent {
	return ExecutionEvent{
		Account:    "SIM-1",
		Instrument: "MNQ",
		Action:     action,
		Quantity:   qty,
		Time:       time.Now(),
	}
}

func TestReconcilerManualOnlySequence(t *testing.T) {
	// No system order ever submitted: purely manual trades still drive flatness.
	r := NewReconciler("SIM-1", "MNQ")
	assert.True(t, r.IsFlat())

	r.Fold(ev(Buy, 2))
	assert.False(t, r.IsFlat())
	assert.Equal(t, 2, r.NetQuantity())
	assert.False(t, r.TakeFlatEdge())

	r.Fold(ev(Sell, 1))
	assert.Equal(t, 1, r.NetQuantity())
	assert.False(t, r.TakeFlatEdge())

	r.Fold(ev(Sell, 1))
	assert.True(t, r.IsFlat())

	// Exactly one edge per zero-crossing.
	assert.True(t, r.TakeFlatEdge())
	assert.False(t, r.TakeFlatEdge())

	// Second round trip produces a second edge.
	r.Fold(ev(Buy, 3))
	r.Fold(ev(Sell, 3))
	assert.True(t, r.TakeFlatEdge())
	assert.False(t, r.TakeFlatEdge())
}

func TestReconcilerClampAndShortMarker(t *testing.T) {
	r := NewReconciler("SIM-1", "MNQ")

	r.Fold(ev(Sell, 2))
	assert.Equal(t, 0, r.NetQuantity(), "net quantity is clamped at zero")
	assert.True(t, r.ShortSuspected())
	assert.False(t, r.TakeFlatEdge(), "clamp from flat is not a flat transition")

	// A buy taking us long again clears the marker.
	r.Fold(ev(Buy, 1))
	assert.False(t, r.ShortSuspected())
	assert.Equal(t, 1, r.NetQuantity())
}

func TestReconcilerFiltersMismatchedEvents(t *testing.T) {
	r := NewReconciler("SIM-1", "MNQ")

	r.Fold(ExecutionEvent{Account: "OTHER", Instrument: "MNQ", Action: Buy, Quantity: 5})
	r.Fold(ExecutionEvent{Account: "SIM-1", Instrument: "ES", Action: Buy, Quantity: 5})
	r.Fold(ExecutionEvent{Account: "SIM-1", Instrument: "MNQ", Action: Buy, Quantity: 0})
	r.Fold(ExecutionEvent{Account: "SIM-1", Instrument: "MNQ", Action: Buy, Quantity: -3})

	assert.True(t, r.IsFlat())
	assert.Equal(t, 0, r.NetQuantity())
}

func TestReconcilerBuyToCoverAndSellShort(t *testing.T) {
	r := NewReconciler("SIM-1", "MNQ")

	r.Fold(ev(BuyToCover, 2))
	assert.Equal(t, 2, r.NetQuantity())

	r.Fold(ev(SellShort, 2))
	assert.True(t, r.IsFlat())
	assert.True(t, r.TakeFlatEdge())
}

func TestReconcilerReset(t *testing.T) {
	r := NewReconciler("SIM-1", "MNQ")
	r.Fold(ev(Buy, 2))
	r.Fold(ev(Sell, 2))
	r.Fold(ev(Sell, 1))

	r.Reset()
	assert.True(t, r.IsFlat())
	assert.False(t, r.TakeFlatEdge())
	assert.False(t, r.ShortSuspected())
}

func TestReconcilerConcurrentFolds(t *testing.T) {
	// Folding from the report goroutine must be safe alongside reads.
	r := NewReconciler("SIM-1", "MNQ")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Fold(ev(Buy, 1))
				r.Fold(ev(Sell, 1))
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				_ = r.IsFlat()
				_ = r.ShortSuspected()
			}
		}
	}()
	wg.Wait()
	close(done)

	assert.Equal(t, 0, r.NetQuantity())
}
