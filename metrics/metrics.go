// Package metrics exposes the engine's operational counters in Prometheus
// text exposition format:
//   - avwap_bars_total                 – bars consumed from the feed
//   - avwap_decisions_total{outcome}   – evaluations by outcome (submitted or veto code)
//   - avwap_orders_total{state}        – order reports by state
//   - avwap_net_position               – reconciled net position (gauge)
//   - avwap_vwap_value                 – latest anchored VWAP (gauge)
//   - avwap_realized_pnl               – account realized P/L (gauge)
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bars = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avwap_bars_total",
			Help: "Bars consumed from the feed",
		},
	)

	decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avwap_decisions_total",
			Help: "Bar-close evaluations by outcome",
		},
		[]string{"outcome"}, // SUBMITTED or the veto code
	)

	orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avwap_orders_total",
			Help: "Order status reports by state",
		},
		[]string{"state"},
	)

	netPosition = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avwap_net_position",
			Help: "Reconciled net position in contracts",
		},
	)

	vwapValue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avwap_vwap_value",
			Help: "Latest anchored VWAP value",
		},
	)

	realizedPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avwap_realized_pnl",
			Help: "Account realized P/L",
		},
	)
)

func init() {
	prometheus.MustRegister(bars, decisions, orders)
	prometheus.MustRegister(netPosition, vwapValue, realizedPnL)
}

func IncBar()                    { bars.Inc() }
func IncDecision(outcome string) { decisions.WithLabelValues(outcome).Inc() }
func IncOrder(state string)      { orders.WithLabelValues(state).Inc() }
func SetNetPosition(qty int)     { netPosition.Set(float64(qty)) }
func SetVWAP(v float64)          { vwapValue.Set(v) }
func SetRealizedPnL(v float64)   { realizedPnL.Set(v) }

// Handler serves the registered metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
