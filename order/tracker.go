// Package order tracks the lifecycle of the single outstanding entry order.
package order

import (
	"errors"
	"time"
)

// State of an entry order handle.
type State int

const (
	None State = iota
	Submitted
	Working
	Filled
	Cancelled
	Rejected
)

func (s State) String() string {
	switch s {
	case Submitted:
		return "SUBMITTED"
	case Working:
		return "WORKING"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	default:
		return "NONE"
	}
}

// Terminal reports whether the state is final. None counts as terminal since
// there is nothing in flight.
func (s State) Terminal() bool {
	switch s {
	case Filled, Cancelled, Rejected, None:
		return true
	}
	return false
}

// Report is one asynchronous order-state update from the broker.
type Report struct {
	OrderID      string
	State        State
	FilledQty    int
	AvgFillPrice float64
	Time         time.Time
}

// Handle identifies the tracked entry order.
type Handle struct {
	ID    string
	State State
}

// ErrOrderInFlight is returned when a submission is attempted while the
// previous entry order is still live.
var ErrOrderInFlight = errors.New("entry order already in flight")

// Tracker guarantees at most one in-flight entry order. Cancellation and
// timeouts are the broker's responsibility; the tracker only observes
// terminal states, it never times out a working order itself.
type Tracker struct {
	handle Handle
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// CanSubmit is true exactly when no handle exists or the existing handle
// reached a terminal state.
func (t *Tracker) CanSubmit() bool {
	return t.handle.State.Terminal()
}

// Submit registers a new entry order id. It fails if an order is in flight.
func (t *Tracker) Submit(id string) (Handle, error) {
	if !t.CanSubmit() {
		return t.handle, ErrOrderInFlight
	}
	t.handle = Handle{ID: id, State: Submitted}
	return t.handle, nil
}

// OnReport applies a broker report to the tracked handle. Reports for any
// other order id are ignored; applied reports return true.
func (t *Tracker) OnReport(rep Report) bool {
	if t.handle.ID == "" || rep.OrderID != t.handle.ID {
		return false
	}
	t.handle.State = rep.State
	return true
}

// Current returns the tracked handle and whether one has ever been submitted.
func (t *Tracker) Current() (Handle, bool) {
	return t.handle, t.handle.ID != ""
}

// Reset forgets the tracked handle, used on trading-day rollover.
func (t *Tracker) Reset() {
	t.handle = Handle{}
}
