package risk

import "time"

// Policy holds the per-day circuit breakers for entry submissions.
type Policy struct {
	MaxTradesPerDay int     // e.g. 3
	MaxDailyLoss    float64 // account currency, positive number
}

// Counters is the per-trading-day bookkeeping. It is reset transactionally at
// the first bar of a new calendar day.
type Counters struct {
	TradingDay        time.Time // date component only, UTC of the bar clock
	TradesOpenedToday int

	// Realized P&L observed at session start; the day's performance is the
	// delta from this baseline.
	SessionStartRealizedPnL float64
}

// Roll resets the counters when barTime lands on a new calendar day and
// reports whether a reset happened. realizedPnL is the account's cumulative
// realized P&L at that moment, captured as the new session baseline.
func (c *Counters) Roll(barTime time.Time, realizedPnL float64) bool {
	day := barTime.Truncate(24 * time.Hour)
	if c.TradingDay.Equal(day) {
		return false
	}
	c.TradingDay = day
	c.TradesOpenedToday = 0
	c.SessionStartRealizedPnL = realizedPnL
	return true
}

// SessionPnL is the realized performance since the session baseline.
func (c *Counters) SessionPnL(realizedPnL float64) float64 {
	return realizedPnL - c.SessionStartRealizedPnL
}
