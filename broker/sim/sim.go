// Package sim is an in-process broker for replay runs and tests. Market
// orders fill immediately at the current mark price; every fill is echoed on
// the account execution stream, and manual fills can be injected to stand in
// for a human trading the same account.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Thomas18181818/avwap-bot/broker"
	"github.com/Thomas18181818/avwap-bot/order"
	"github.com/Thomas18181818/avwap-bot/position"
)

const streamBuffer = 256

type Engine struct {
	mu sync.Mutex

	account    string
	instrument string

	mark     float64
	markTime time.Time

	// avg-cost inventory for realized P&L
	longQty  int
	avgCost  float64
	realized float64

	reports chan order.Report
	execs   chan position.ExecutionEvent
	closed  bool
}

var _ broker.Broker = (*Engine)(nil)

func New(account, instrument string) *Engine {
	return &Engine{
		account:    account,
		instrument: instrument,
		reports:    make(chan order.Report, streamBuffer),
		execs:      make(chan position.ExecutionEvent, streamBuffer),
	}
}

// MarkPrice sets the price market orders fill at.
func (e *Engine) MarkPrice(p float64, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mark = p
	e.markTime = at
}

// SubmitOrder accepts a market-buy intent and emits the full report sequence
// (submitted, working, filled) plus the account execution, without blocking
// on anything but channel capacity.
func (e *Engine) SubmitOrder(_ context.Context, intent broker.OrderIntent) error {
	if intent.Quantity <= 0 {
		return fmt.Errorf("order quantity must be positive, got %d", intent.Quantity)
	}
	if intent.Instrument != e.instrument {
		return fmt.Errorf("instrument %s not tradable on this session", intent.Instrument)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("broker closed")
	}
	if e.mark <= 0 {
		// No price yet: reject rather than fill at garbage.
		e.reports <- order.Report{OrderID: intent.ClientID, State: order.Rejected, Time: e.markTime}
		return nil
	}

	fill := e.mark
	now := e.markTime

	e.reports <- order.Report{OrderID: intent.ClientID, State: order.Submitted, Time: now}
	e.reports <- order.Report{OrderID: intent.ClientID, State: order.Working, Time: now}
	e.reports <- order.Report{
		OrderID:      intent.ClientID,
		State:        order.Filled,
		FilledQty:    intent.Quantity,
		AvgFillPrice: fill,
		Time:         now,
	}

	e.applyFillLocked(position.Buy, intent.Quantity, fill, now)
	return nil
}

// InjectExecution plays a manual (human-originated) fill onto the account
// stream. The sim also books it against inventory so realized P&L reflects
// manual exits.
func (e *Engine) InjectExecution(action position.Action, qty int, price float64, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.applyFillLocked(action, qty, price, at)
}

func (e *Engine) applyFillLocked(action position.Action, qty int, price float64, at time.Time) {
	switch action {
	case position.Buy, position.BuyToCover:
		total := e.avgCost*float64(e.longQty) + price*float64(qty)
		e.longQty += qty
		e.avgCost = total / float64(e.longQty)
	case position.Sell, position.SellShort:
		closed := qty
		if closed > e.longQty {
			closed = e.longQty
		}
		e.realized += (price - e.avgCost) * float64(closed)
		e.longQty -= closed
		if e.longQty == 0 {
			e.avgCost = 0
		}
	}

	e.execs <- position.ExecutionEvent{
		ID:         uuid.NewString(),
		Account:    e.account,
		Instrument: e.instrument,
		Action:     action,
		Quantity:   qty,
		Price:      price,
		Time:       at,
	}
}

func (e *Engine) Account(context.Context) (broker.AccountSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return broker.AccountSnapshot{ID: e.account, RealizedPnL: e.realized}, nil
}

func (e *Engine) Reports() <-chan order.Report { return e.reports }

func (e *Engine) Executions() <-chan position.ExecutionEvent { return e.execs }

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	close(e.reports)
	close(e.execs)
	return nil
}
