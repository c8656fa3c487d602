// Package feed supplies the two external inputs the engine consumes: closed
// bars from the market-data collaborator and the anchor marker's position
// from the charting collaborator.
package feed

import (
	"sync"
	"time"

	"github.com/Thomas18181818/avwap-bot/market"
)

// BarSource streams closed bars in time order. The channel closes when the
// source is exhausted or failed; Err reports the failure, if any.
type BarSource interface {
	Bars() <-chan market.Bar
	Err() error
	Close() error
}

// AnchorSource reports the anchor marker's current position. It is polled
// once per bar-close evaluation; ok=false means no marker is placed.
type AnchorSource interface {
	Anchor() (time.Time, bool)
}

// AnchorValue is a settable in-memory AnchorSource, the seam tests and the
// replay command inject anchor moves through.
type AnchorValue struct {
	mu  sync.Mutex
	at  time.Time
	set bool
}

func NewAnchorValue() *AnchorValue {
	return &AnchorValue{}
}

// Set places or moves the marker.
func (a *AnchorValue) Set(at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.at = at
	a.set = true
}

// Clear removes the marker.
func (a *AnchorValue) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.set = false
}

func (a *AnchorValue) Anchor() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.at, a.set
}
