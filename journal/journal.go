// Package journal persists what the engine decided and what the broker did,
// so a session can be audited bar by bar after the fact.
package journal

import (
	"time"
)

// DecisionRecord captures one bar-close evaluation.
type DecisionRecord struct {
	BarTime    time.Time
	Instrument string
	VWAP       float64
	VWAPOK     bool
	VetoCode   string // empty when an entry was submitted
	OrderID    string // empty when no entry was submitted
	Quantity   int
}

// OrderRecord captures one order status report.
type OrderRecord struct {
	OrderID    string
	Instrument string
	State      string
	FilledQty  int
	AvgPrice   float64
	Time       time.Time
}

type Journal interface {
	RecordDecision(DecisionRecord) error
	RecordOrder(OrderRecord) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordDecision(DecisionRecord) error { return nil }
func (Nop) RecordOrder(OrderRecord) error       { return nil }
func (Nop) Close() error                        { return nil }
