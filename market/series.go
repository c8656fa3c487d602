package market

import (
	"errors"
	"time"
)

// ErrOutOfOrder is returned when a bar does not extend the series forward in time.
var ErrOutOfOrder = errors.New("bar timestamp not after previous bar")

// Series is an append-only, strictly time-ordered sequence of closed bars.
// It can be indexed by absolute position or by distance from the latest bar.
type Series struct {
	bars []Bar
}

func NewSeries() *Series {
	return &Series{}
}

// Append adds a closed bar to the end of the series. The bar's timestamp must
// be strictly after the previous bar's timestamp.
func (s *Series) Append(b Bar) error {
	if n := len(s.bars); n > 0 && !b.Time.After(s.bars[n-1].Time) {
		return ErrOutOfOrder
	}
	s.bars = append(s.bars, b)
	return nil
}

func (s *Series) Len() int {
	return len(s.bars)
}

// At returns the bar at absolute index i (0 = oldest).
func (s *Series) At(i int) Bar {
	return s.bars[i]
}

// Ago returns the bar barsAgo behind the latest bar (0 = latest) and whether
// the series is deep enough to answer.
func (s *Series) Ago(barsAgo int) (Bar, bool) {
	i := len(s.bars) - 1 - barsAgo
	if barsAgo < 0 || i < 0 {
		return Bar{}, false
	}
	return s.bars[i], true
}

// Last returns the most recent bar, if any.
func (s *Series) Last() (Bar, bool) {
	return s.Ago(0)
}

// FindTime scans from the most recent bar backward for a bar whose timestamp
// is within tol of target, returning its absolute index or -1. Anchors sit
// near the front of typical working windows, so the back-scan is cheap; only
// the result matters, not the search order.
func (s *Series) FindTime(target time.Time, tol time.Duration) int {
	if target.IsZero() {
		return -1
	}
	for i := len(s.bars) - 1; i >= 0; i-- {
		d := s.bars[i].Time.Sub(target)
		if d < 0 {
			d = -d
		}
		if d <= tol {
			return i
		}
	}
	return -1
}
