// Package position folds account-level execution events into a locally
// observed net position. Executions may come from this system's own orders or
// from manual orders placed outside it; the account stream is the single
// source of truth for flatness, never the system's own order handle.
package position

import (
	"sync"
	"time"
)

// Action is the broker-reported direction of an execution.
type Action int

const (
	Buy Action = iota
	BuyToCover
	Sell
	SellShort
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case BuyToCover:
		return "BUY_TO_COVER"
	case Sell:
		return "SELL"
	case SellShort:
		return "SELL_SHORT"
	}
	return "UNKNOWN"
}

// buySide reports whether the action increases net quantity.
func (a Action) buySide() bool {
	return a == Buy || a == BuyToCover
}

// ExecutionEvent is one account-level fill, independent of which order (bot
// or human) produced it.
type ExecutionEvent struct {
	ID         string
	Account    string
	Instrument string
	Action     Action
	Quantity   int
	Price      float64
	Time       time.Time
}

// Reconciler maintains the observed net quantity for one account/instrument
// pair. Fold may be called from the broker's delivery goroutine while the
// bar-close path reads; a single mutex serializes both.
//
// Net quantity is clamped at a floor of zero: the system never models a short
// inventory of its own. A clamp leaves a sticky short marker so the entry
// gate can refuse to act on top of an adverse external position.
type Reconciler struct {
	mu sync.Mutex

	account    string
	instrument string

	netQty      int
	flatPending bool
	shortSeen   bool
}

func NewReconciler(account, instrument string) *Reconciler {
	return &Reconciler{account: account, instrument: instrument}
}

// Fold applies one execution event. Events for another account or instrument,
// or with a non-positive quantity, are no-ops.
func (r *Reconciler) Fold(ev ExecutionEvent) {
	if ev.Account != r.account || ev.Instrument != r.instrument {
		return
	}
	if ev.Quantity <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	was := r.netQty
	if ev.Action.buySide() {
		r.netQty += ev.Quantity
		if r.netQty > 0 {
			r.shortSeen = false
		}
	} else {
		r.netQty -= ev.Quantity
		if r.netQty < 0 {
			// More sold than we were long: an external short exists.
			r.netQty = 0
			r.shortSeen = true
		}
	}

	if was > 0 && r.netQty == 0 {
		r.flatPending = true
	}
}

// NetQuantity returns the observed (clamped) net quantity.
func (r *Reconciler) NetQuantity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.netQty
}

// IsFlat reports whether the observed net quantity is zero.
func (r *Reconciler) IsFlat() bool {
	return r.NetQuantity() == 0
}

// ShortSuspected reports whether sells have exceeded observed longs, meaning
// a short position likely exists outside this system's bookkeeping.
func (r *Reconciler) ShortSuspected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortSeen
}

// TakeFlatEdge returns true exactly once after a transition to flat. The
// caller consumes it at the next bar-close boundary so the cooldown timer is
// pinned to the right bar.
func (r *Reconciler) TakeFlatEdge() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.flatPending {
		return false
	}
	r.flatPending = false
	return true
}

// Reset clears all observed state, used on trading-day rollover.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.netQty = 0
	r.flatPending = false
	r.shortSeen = false
}
