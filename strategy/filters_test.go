package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Thomas18181818/avwap-bot/market"
)

func TestTouchesBand(t *testing.T) {
	bar := market.Bar{High: 102, Low: 99}

	assert.True(t, TouchesBand(bar, 100, 0.5))
	assert.True(t, TouchesBand(bar, 98.6, 0.5), "band overlaps from below")
	assert.True(t, TouchesBand(bar, 102.4, 0.5), "band overlaps from above")
	assert.False(t, TouchesBand(bar, 103, 0.5))
	assert.False(t, TouchesBand(bar, 98, 0.5))
}

func TestTouchFromAbove(t *testing.T) {
	vwap := 100.0
	tol := 1.0

	prevAbove := market.Bar{Close: 102}
	prevAt := market.Bar{Close: 100.5}

	t.Run("rejection bounce passes", func(t *testing.T) {
		cur := market.Bar{Low: 100.5, Close: 101}
		assert.True(t, TouchFromAbove(prevAbove, cur, vwap, tol))
	})

	t.Run("previous bar not clearly above", func(t *testing.T) {
		cur := market.Bar{Low: 100.5, Close: 101}
		assert.False(t, TouchFromAbove(prevAt, cur, vwap, tol))
	})

	t.Run("no touch of the band", func(t *testing.T) {
		cur := market.Bar{Low: 101.5, Close: 102}
		assert.False(t, TouchFromAbove(prevAbove, cur, vwap, tol))
	})

	t.Run("breakdown through closes below", func(t *testing.T) {
		cur := market.Bar{Low: 98, Close: 99.5}
		assert.False(t, TouchFromAbove(prevAbove, cur, vwap, tol))
	})
}

func TestImbalancePasses(t *testing.T) {
	tick := 0.25

	// Upper wick 2.0 vs lower wick 1.0.
	assert.True(t, ImbalancePasses(market.Bar{Open: 100, High: 103, Low: 99, Close: 101}, tick))

	// Upper wick 0.5 vs lower wick 2.0.
	assert.False(t, ImbalancePasses(market.Bar{Open: 101, High: 101.5, Low: 98, Close: 100}, tick))

	// No lower wick at all: floored at one tick, large upper wick still passes.
	assert.True(t, ImbalancePasses(market.Bar{Open: 100, High: 103, Low: 100, Close: 100.5}, tick))
}

func TestFootprintPasses(t *testing.T) {
	tick := 0.25

	assert.True(t, FootprintPasses(market.Bar{Open: 100, Close: 100.5}, tick, 2))
	assert.False(t, FootprintPasses(market.Bar{Open: 100, Close: 100.25}, tick, 2))
	assert.False(t, FootprintPasses(market.Bar{Open: 100, Close: 99}, tick, 2))
	assert.False(t, FootprintPasses(market.Bar{Open: 100, Close: 101}, 0, 2), "bad tick size fails safe")
}
