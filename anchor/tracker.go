// Package anchor tracks the manually placed reference instant that anchored
// VWAP summation starts from. The chart collaborator reports the marker's
// current timestamp once per bar; the tracker turns that stream into a stable
// (timestamp, version) pair so downstream code can tell real relocations from
// sub-bar placement jitter.
package anchor

import "time"

// DefaultTolerance absorbs placement jitter when a marker does not land
// exactly on a sample boundary.
const DefaultTolerance = 60 * time.Second

type Tracker struct {
	tolerance time.Duration

	anchorTime time.Time
	version    int
	present    bool
}

func NewTracker(tolerance time.Duration) *Tracker {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Tracker{tolerance: tolerance}
}

// Observe reports the marker's current position for this bar. A zero candidate
// means the marker is gone; the last anchor time is remembered so putting the
// marker back on the same bar does not count as a relocation.
//
// The returned version increments once per relocation that exceeds the
// tolerance window. Observe is idempotent for an unchanged candidate.
func (t *Tracker) Observe(candidate time.Time) (time.Time, int, bool) {
	if candidate.IsZero() {
		t.present = false
		return t.anchorTime, t.version, false
	}

	if t.anchorTime.IsZero() {
		t.anchorTime = candidate
		t.version++
	} else {
		d := candidate.Sub(t.anchorTime)
		if d < 0 {
			d = -d
		}
		if d > t.tolerance {
			t.anchorTime = candidate
			t.version++
		}
	}

	t.present = true
	return t.anchorTime, t.version, true
}

// Time returns the resolved anchor timestamp, which is only meaningful while
// Present reports true.
func (t *Tracker) Time() time.Time { return t.anchorTime }

// Version returns the relocation counter.
func (t *Tracker) Version() int { return t.version }

// Present reports whether the marker was seen on the most recent observation.
func (t *Tracker) Present() bool { return t.present }
