// Package indicators holds the streaming indicators consumed by strategies.
package indicators

import (
	"fmt"
	"time"

	"github.com/Thomas18181818/avwap-bot/market"
)

// PricePolicy selects the per-bar representative price used in the VWAP sum.
type PricePolicy int

const (
	// Typical uses the mean of high, low and close.
	Typical PricePolicy = iota
	// LowOnly uses the bar low alone.
	LowOnly
)

func (p PricePolicy) String() string {
	switch p {
	case LowOnly:
		return "low"
	default:
		return "typical"
	}
}

// ParsePricePolicy maps a config string to a policy.
func ParsePricePolicy(s string) (PricePolicy, error) {
	switch s {
	case "typical", "":
		return Typical, nil
	case "low":
		return LowOnly, nil
	}
	return Typical, fmt.Errorf("unknown price policy %q", s)
}

// Apply returns the representative price for one bar.
func (p PricePolicy) Apply(b market.Bar) float64 {
	if p == LowOnly {
		return b.Low
	}
	return b.Typical()
}

// AnchoredVWAP is the volume-weighted average of representative price from the
// anchor bar through the latest bar, inclusive.
//
// While the anchor version is unchanged the aggregate is extended bar by bar;
// a version change throws the carried sums away and recomputes over the new
// window, since the summation window itself changed.
type AnchoredVWAP struct {
	series    *market.Series
	policy    PricePolicy
	tolerance time.Duration

	// aggregate state, valid for (version, barsSeen)
	version   int
	anchorIdx int
	barsSeen  int
	sumPV     float64
	sumVol    float64
}

func NewAnchoredVWAP(series *market.Series, policy PricePolicy, tolerance time.Duration) *AnchoredVWAP {
	if tolerance <= 0 {
		tolerance = 60 * time.Second
	}
	return &AnchoredVWAP{
		series:    series,
		policy:    policy,
		tolerance: tolerance,
		version:   -1,
		anchorIdx: -1,
	}
}

func (a *AnchoredVWAP) Name() string {
	return fmt.Sprintf("AVWAP(%s)", a.policy)
}

// Recompute brings the aggregate up to the latest bar for the given anchor.
// present=false marks the anchor as absent for this bar without discarding
// the carried sums, so the marker reappearing on the same bar is cheap.
func (a *AnchoredVWAP) Recompute(anchorTime time.Time, version int, present bool) {
	if !present {
		return
	}

	if version != a.version {
		a.rebuild(anchorTime, version)
		return
	}
	if a.anchorIdx < 0 {
		// Anchor was out of history last time; the bar may have shown up since.
		a.rebuild(anchorTime, version)
		return
	}

	// Same window: extend over bars appended since the last call.
	for i := a.barsSeen; i < a.series.Len(); i++ {
		b := a.series.At(i)
		a.sumPV += a.policy.Apply(b) * b.Volume
		a.sumVol += b.Volume
	}
	a.barsSeen = a.series.Len()
}

func (a *AnchoredVWAP) rebuild(anchorTime time.Time, version int) {
	a.version = version
	a.sumPV = 0
	a.sumVol = 0
	a.barsSeen = a.series.Len()

	a.anchorIdx = a.series.FindTime(anchorTime, a.tolerance)
	if a.anchorIdx < 0 {
		return
	}
	for i := a.anchorIdx; i < a.series.Len(); i++ {
		b := a.series.At(i)
		a.sumPV += a.policy.Apply(b) * b.Volume
		a.sumVol += b.Volume
	}
}

// Value returns the current anchored VWAP. defined is false when the anchor is
// unresolved (absent or predating available history) or when total volume over
// the window is zero; callers must treat that as "no signal", never as zero.
func (a *AnchoredVWAP) Value() (float64, bool) {
	if a.anchorIdx < 0 || a.sumVol <= 0 {
		return 0, false
	}
	return a.sumPV / a.sumVol, true
}

// Reset drops all aggregate state.
func (a *AnchoredVWAP) Reset() {
	a.version = -1
	a.anchorIdx = -1
	a.barsSeen = 0
	a.sumPV = 0
	a.sumVol = 0
}
