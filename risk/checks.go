package risk

import "fmt"

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of the daily risk gate. A veto here is an expected,
// logged outcome, not an error.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate applies the daily circuit breakers. realizedPnL is the account's
// cumulative realized P&L; the session delta is measured against the
// counters' baseline. A day that hits either limit stays vetoed until the
// next calendar day resets the counters.
func Evaluate(p Policy, c Counters, realizedPnL float64) Decision {
	d := Decision{Allowed: true}

	if p.MaxTradesPerDay > 0 && c.TradesOpenedToday >= p.MaxTradesPerDay {
		d.add("MAX_TRADES_PER_DAY",
			fmt.Sprintf("trades today %d >= max %d", c.TradesOpenedToday, p.MaxTradesPerDay))
	}

	if p.MaxDailyLoss > 0 {
		if pnl := c.SessionPnL(realizedPnL); pnl <= -p.MaxDailyLoss {
			d.add("DAILY_LOSS_LIMIT",
				fmt.Sprintf("session realized %.2f <= limit %.2f", pnl, -p.MaxDailyLoss))
		}
	}

	return d
}
