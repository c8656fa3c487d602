// Package broker defines the boundary to the account/execution collaborator.
// The core submits fire-and-forget order intents and consumes two
// asynchronous streams back: order-state reports for its own orders and
// account-level execution events for every fill on the account, whether the
// order came from this system or from a human.
package broker

import (
	"context"

	"github.com/Thomas18181818/avwap-bot/order"
	"github.com/Thomas18181818/avwap-bot/position"
)

type Side int

const (
	Buy Side = iota
)

func (s Side) String() string { return "BUY" }

type OrderType int

const (
	Market OrderType = iota
)

func (t OrderType) String() string { return "MARKET" }

// OrderIntent is a single entry-order submission. ClientID is assigned by the
// caller and echoed in every report for that order. StopTicks/TargetTicks are
// advisory distances for brokers that attach protective orders (managed
// variant); zero means unmanaged, exits are handled elsewhere.
type OrderIntent struct {
	ClientID    string
	Account     string
	Instrument  string
	Side        Side
	Type        OrderType
	Quantity    int
	SignalName  string
	StopTicks   int
	TargetTicks int
}

// AccountSnapshot carries the account-level figures the core reads.
type AccountSnapshot struct {
	ID          string
	RealizedPnL float64
}

// Broker is the account connectivity seam. SubmitOrder must not block on a
// broker round-trip: outcomes arrive later on Reports. Executions delivers
// account-level fills independent of order origin.
type Broker interface {
	SubmitOrder(ctx context.Context, intent OrderIntent) error
	Account(ctx context.Context) (AccountSnapshot, error)
	Reports() <-chan order.Report
	Executions() <-chan position.ExecutionEvent
	Close() error
}
