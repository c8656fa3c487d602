// Package strategy implements the anchored-VWAP entry decision state machine.
//
// The machine runs once per closed bar and decides whether to emit exactly
// one order-submission intent. Gating layers are evaluated in a fixed order,
// each a hard veto: daily risk, data readiness, position, order-in-flight,
// cooldowns, price proximity, then the optional orderflow confirmations.
// Exit management is external in the unmanaged variant, which is why account
// executions, not the bot's own order handle, decide flatness.
package strategy

import (
	"fmt"
	"time"

	"github.com/Thomas18181818/avwap-bot/anchor"
	"github.com/Thomas18181818/avwap-bot/broker"
	"github.com/Thomas18181818/avwap-bot/indicators"
	"github.com/Thomas18181818/avwap-bot/market"
	"github.com/Thomas18181818/avwap-bot/order"
	"github.com/Thomas18181818/avwap-bot/pkg/id"
	"github.com/Thomas18181818/avwap-bot/position"
	"github.com/Thomas18181818/avwap-bot/risk"
)

// EntryMode selects between the two historical max-position semantics.
type EntryMode int

const (
	// Single permits one entry at a time: the account must be flat.
	Single EntryMode = iota
	// Accumulate adds PositionSize per qualifying bar up to MaxPosition.
	Accumulate
)

// ParseEntryMode maps a config string to a mode.
func ParseEntryMode(s string) (EntryMode, error) {
	switch s {
	case "single", "":
		return Single, nil
	case "accumulate":
		return Accumulate, nil
	}
	return Single, fmt.Errorf("unknown entry mode %q", s)
}

func (m EntryMode) String() string {
	if m == Accumulate {
		return "accumulate"
	}
	return "single"
}

type State int

const (
	Idle State = iota
	AwaitingFill
)

func (s State) String() string {
	if s == AwaitingFill {
		return "AWAITING_FILL"
	}
	return "IDLE"
}

type Config struct {
	Account    string
	Instrument string
	TickSize   float64
	SignalName string

	Mode         EntryMode
	PositionSize int
	MaxPosition  int // Accumulate cap; defaults to PositionSize

	EntryToleranceTicks int
	StopTicks           int // 0 = unmanaged, no protective orders attached
	TargetTicks         int

	WarmupBars          int
	CooldownBars        int
	AnchorStabilityBars int

	DirectionalFilter     bool
	ImbalanceFilter       bool
	FootprintConfirmation bool
	MinBullishDeltaTicks  float64

	PricePolicy     indicators.PricePolicy
	AnchorTolerance time.Duration

	Risk risk.Policy
}

// Evaluation is the outcome of one bar-close decision. At most one of Intent
// and Veto is set; both nil never happens for a completed evaluation.
type Evaluation struct {
	BarIndex    int
	BarTime     time.Time
	VWAP        float64
	VWAPDefined bool
	NewDay      bool

	Intent *broker.OrderIntent
	Veto   *risk.Violation
}

// Submitted reports whether this bar produced an order intent.
func (e Evaluation) Submitted() bool { return e.Intent != nil }

// VetoCode returns the veto code, or "" when the bar submitted.
func (e Evaluation) VetoCode() string {
	if e.Veto == nil {
		return ""
	}
	return e.Veto.Code
}

// AVWAP is the orchestrating state machine. It is not goroutine-safe by
// itself: OnBar and OnReport must be called from the same event loop, while
// the position reconciler absorbs executions from any goroutine.
type AVWAP struct {
	cfg Config

	series  *market.Series
	anchors *anchor.Tracker
	vwap    *indicators.AnchoredVWAP
	pos     *position.Reconciler
	orders  *order.Tracker

	counters risk.Counters

	state             State
	lastFlatBar       int
	lastEntryBar      int
	anchorMoveBar     int
	lastAnchorVersion int
}

func New(cfg Config, series *market.Series, pos *position.Reconciler) *AVWAP {
	if cfg.SignalName == "" {
		cfg.SignalName = "AVWAPLong"
	}
	if cfg.MaxPosition <= 0 {
		cfg.MaxPosition = cfg.PositionSize
	}
	return &AVWAP{
		cfg:               cfg,
		series:            series,
		anchors:           anchor.NewTracker(cfg.AnchorTolerance),
		vwap:              indicators.NewAnchoredVWAP(series, cfg.PricePolicy, cfg.AnchorTolerance),
		pos:               pos,
		orders:            order.NewTracker(),
		lastFlatBar:       -1,
		lastEntryBar:      -1,
		anchorMoveBar:     -1,
		lastAnchorVersion: -1,
	}
}

func (s *AVWAP) Name() string {
	return fmt.Sprintf("AVWAP_%s(%s)", s.cfg.Mode, s.cfg.PricePolicy)
}

func (s *AVWAP) State() State { return s.state }

// Counters exposes a copy of the daily risk counters.
func (s *AVWAP) Counters() risk.Counters { return s.counters }

func (s *AVWAP) barIndex() int { return s.series.Len() - 1 }

// OnBar evaluates the just-closed latest bar of the series. anchorCandidate
// is the marker position reported by the chart collaborator for this bar
// (zero time = no marker); realizedPnL is the account's cumulative realized
// P&L at the bar close.
func (s *AVWAP) OnBar(anchorCandidate time.Time, realizedPnL float64) Evaluation {
	idx := s.barIndex()
	bar, ok := s.series.Last()
	if !ok {
		return Evaluation{BarIndex: -1, Veto: &risk.Violation{Code: "NO_BARS", Msg: "empty series"}}
	}
	eval := Evaluation{BarIndex: idx, BarTime: bar.Time}

	// Deferred flat edge: applied only at the bar-close boundary so every
	// gate this bar sees the same snapshot.
	if s.pos.TakeFlatEdge() {
		s.lastFlatBar = idx
	}

	// Calendar-day rollover resets every session-scoped counter.
	if s.counters.Roll(bar.Time, realizedPnL) {
		eval.NewDay = true
		s.lastFlatBar = -1
		s.lastEntryBar = -1
		s.anchorMoveBar = -1
		s.lastAnchorVersion = -1
		s.orders.Reset()
		s.pos.Reset()
		s.state = Idle
	}

	// Anchor bookkeeping happens before any veto so stability countdowns and
	// the aggregate stay current on vetoed bars too.
	anchorTime, version, present := s.anchors.Observe(anchorCandidate)
	if present && version != s.lastAnchorVersion {
		s.lastAnchorVersion = version
		s.anchorMoveBar = idx
	}
	s.vwap.Recompute(anchorTime, version, present)
	eval.VWAP, eval.VWAPDefined = s.vwap.Value()

	if idx < s.cfg.WarmupBars {
		return s.veto(eval, "WARMUP", fmt.Sprintf("bar %d of %d warmup", idx, s.cfg.WarmupBars))
	}

	// 1. Daily risk gate.
	if d := risk.Evaluate(s.cfg.Risk, s.counters, realizedPnL); !d.Allowed {
		v := d.Violations[0]
		return s.veto(eval, v.Code, v.Msg)
	}

	// 2. Data readiness.
	if !present {
		return s.veto(eval, "NO_ANCHOR", "anchor marker absent")
	}
	if !eval.VWAPDefined {
		return s.veto(eval, "NO_VWAP", "anchored VWAP undefined")
	}
	if s.cfg.TickSize <= 0 {
		// Corrupt configuration: fail safe by refusing to submit.
		return s.veto(eval, "BAD_TICK_SIZE", fmt.Sprintf("tick size %v", s.cfg.TickSize))
	}

	// 3. Position gate. A short from a disallowed external action always
	// blocks; the machine never offsets an adverse external position.
	if s.pos.ShortSuspected() {
		return s.veto(eval, "SHORT_POSITION", "external short position observed")
	}
	quantity := s.cfg.PositionSize
	switch s.cfg.Mode {
	case Single:
		if !s.pos.IsFlat() {
			return s.veto(eval, "NOT_FLAT", fmt.Sprintf("net position %d", s.pos.NetQuantity()))
		}
	case Accumulate:
		available := s.cfg.MaxPosition - s.pos.NetQuantity()
		if available <= 0 {
			return s.veto(eval, "MAX_POSITION", fmt.Sprintf("net position %d at cap %d", s.pos.NetQuantity(), s.cfg.MaxPosition))
		}
		if quantity > available {
			quantity = available
		}
	}

	// 4. Order-in-flight gate.
	if s.state == AwaitingFill || !s.orders.CanSubmit() {
		return s.veto(eval, "ORDER_IN_FLIGHT", "previous entry order not terminal")
	}

	// 5a. Cooldown after confirmed flat (and after entries in accumulate mode).
	if s.cfg.CooldownBars > 0 {
		if s.lastFlatBar >= 0 && idx-s.lastFlatBar < s.cfg.CooldownBars {
			return s.veto(eval, "COOLDOWN", fmt.Sprintf("%d of %d bars since flat", idx-s.lastFlatBar, s.cfg.CooldownBars))
		}
		if s.cfg.Mode == Accumulate && s.lastEntryBar >= 0 && idx-s.lastEntryBar < s.cfg.CooldownBars {
			return s.veto(eval, "COOLDOWN", fmt.Sprintf("%d of %d bars since entry", idx-s.lastEntryBar, s.cfg.CooldownBars))
		}
	}

	// 5b. A freshly relocated anchor is not trusted until it settles.
	if s.anchorMoveBar >= 0 && idx-s.anchorMoveBar < s.cfg.AnchorStabilityBars {
		return s.veto(eval, "ANCHOR_UNSTABLE", fmt.Sprintf("%d of %d bars since relocation", idx-s.anchorMoveBar, s.cfg.AnchorStabilityBars))
	}

	// 6. Price proximity.
	tol := float64(s.cfg.EntryToleranceTicks) * s.cfg.TickSize
	if !TouchesBand(bar, eval.VWAP, tol) {
		return s.veto(eval, "NO_TOUCH", "bar range does not bracket the VWAP band")
	}
	if s.cfg.DirectionalFilter {
		prev, ok := s.series.Ago(1)
		if !ok || !TouchFromAbove(prev, bar, eval.VWAP, tol) {
			return s.veto(eval, "NOT_FROM_ABOVE", "no rejection pattern from above the VWAP")
		}
	}

	// 7. Optional orderflow confirmations.
	if s.cfg.ImbalanceFilter && !ImbalancePasses(bar, s.cfg.TickSize) {
		return s.veto(eval, "IMBALANCE", "upper/lower wick imbalance below threshold")
	}
	if s.cfg.FootprintConfirmation && !FootprintPasses(bar, s.cfg.TickSize, s.cfg.MinBullishDeltaTicks) {
		return s.veto(eval, "FOOTPRINT", "bullish delta below threshold")
	}

	// Every gate passed: exactly one submission intent this bar.
	clientID := id.New()
	if _, err := s.orders.Submit(clientID); err != nil {
		// CanSubmit was checked above; treat any disagreement as fail-safe.
		return s.veto(eval, "ORDER_IN_FLIGHT", err.Error())
	}
	s.state = AwaitingFill

	eval.Intent = &broker.OrderIntent{
		ClientID:    clientID,
		Account:     s.cfg.Account,
		Instrument:  s.cfg.Instrument,
		Side:        broker.Buy,
		Type:        broker.Market,
		Quantity:    quantity,
		SignalName:  s.cfg.SignalName,
		StopTicks:   s.cfg.StopTicks,
		TargetTicks: s.cfg.TargetTicks,
	}
	return eval
}

// OnReport applies an order-state report. Reports for unrelated orders are
// ignored. A terminal report releases the machine back to Idle; a fill also
// counts against the daily trade cap and pins the accumulate-mode cooldown.
func (s *AVWAP) OnReport(rep order.Report) bool {
	if !s.orders.OnReport(rep) {
		return false
	}
	switch rep.State {
	case order.Filled:
		s.counters.TradesOpenedToday++
		s.lastEntryBar = s.barIndex()
		s.state = Idle
	case order.Cancelled, order.Rejected:
		s.state = Idle
	}
	return true
}

func (s *AVWAP) veto(eval Evaluation, code, msg string) Evaluation {
	eval.Veto = &risk.Violation{Code: code, Msg: msg}
	return eval
}
