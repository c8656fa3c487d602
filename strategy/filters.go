package strategy

import "github.com/Thomas18181818/avwap-bot/market"

// TouchesBand reports whether the bar's high/low range brackets the VWAP
// value within tol price units.
func TouchesBand(b market.Bar, vwap, tol float64) bool {
	return b.Low <= vwap+tol && b.High >= vwap-tol
}

// TouchFromAbove is the directional variant of the touch test: the previous
// bar closed clearly above the VWAP, the current bar's low tests the
// tolerance band, and the close does not fall back below the VWAP. A
// rejection/bounce, not a breakdown-through.
func TouchFromAbove(prev, cur market.Bar, vwap, tol float64) bool {
	wasAbove := prev.Close > vwap+tol
	touchesNow := cur.Low <= vwap+tol
	closesAbove := cur.Close >= vwap
	return wasAbove && touchesNow && closesAbove
}

// ImbalancePasses compares the upper wick to the lower wick. The lower wick
// is floored at one tick to avoid dividing by zero on marubozu-style bars.
func ImbalancePasses(b market.Bar, tickSize float64) bool {
	body := b.Open
	if b.Close > body {
		body = b.Close
	}
	upper := b.High - body

	base := b.Open
	if b.Close < base {
		base = b.Close
	}
	lower := base - b.Low
	if lower < tickSize {
		lower = tickSize
	}

	return upper/lower >= 1.0
}

// FootprintPasses requires the close-over-open delta, in ticks, to reach the
// configured minimum.
func FootprintPasses(b market.Bar, tickSize, minDeltaTicks float64) bool {
	if tickSize <= 0 {
		return false
	}
	return (b.Close-b.Open)/tickSize >= minDeltaTicks
}
