package market

import "time"

// Bar is one closed OHLCV bar. Bars are immutable once produced.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Typical returns the mean of high, low and close.
func (b Bar) Typical() float64 {
	return (b.High + b.Low + b.Close) / 3.0
}

// Range returns the high-low spread of the bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}
