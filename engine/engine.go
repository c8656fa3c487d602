// Package engine runs the event loop that ties the feeds, the entry state
// machine, the broker, and the journal together. All strategy mutation
// happens on the loop goroutine; fan-in channels are the only seams.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Thomas18181818/avwap-bot/broker"
	"github.com/Thomas18181818/avwap-bot/feed"
	"github.com/Thomas18181818/avwap-bot/journal"
	"github.com/Thomas18181818/avwap-bot/market"
	"github.com/Thomas18181818/avwap-bot/metrics"
	"github.com/Thomas18181818/avwap-bot/order"
	"github.com/Thomas18181818/avwap-bot/position"
	"github.com/Thomas18181818/avwap-bot/strategy"
)

type Engine struct {
	log *zap.Logger

	series *market.Series
	pos    *position.Reconciler
	strat  *strategy.AVWAP

	brk        broker.Broker
	bars       feed.BarSource
	anchors    feed.AnchorSource
	jrnl       journal.Journal
	instrument string

	// Reports the loop synthesizes itself, e.g. when a submission fails
	// before reaching the broker.
	synth chan order.Report

	realized float64

	// OnEval, when set, observes every completed evaluation. Called on the
	// loop goroutine.
	OnEval func(strategy.Evaluation)
}

func New(log *zap.Logger, cfg strategy.Config, brk broker.Broker, bars feed.BarSource, anchors feed.AnchorSource, jrnl journal.Journal) *Engine {
	if jrnl == nil {
		jrnl = journal.Nop{}
	}
	series := market.NewSeries()
	pos := position.NewReconciler(cfg.Account, cfg.Instrument)
	return &Engine{
		log:     log,
		series:  series,
		pos:     pos,
		strat:   strategy.New(cfg, series, pos),
		brk:        brk,
		bars:       bars,
		anchors:    anchors,
		jrnl:       jrnl,
		instrument: cfg.Instrument,
		synth:      make(chan order.Report, 16),
	}
}

// Position exposes the reconciler for observers.
func (e *Engine) Position() *position.Reconciler { return e.pos }

// Run consumes events until the bar source closes or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("engine starting",
		zap.String("strategy", e.strat.Name()),
	)

	reports := e.brk.Reports()
	execs := e.brk.Executions()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopping", zap.Error(ctx.Err()))
			return ctx.Err()

		case rep := <-e.synth:
			e.handleReport(rep)

		case rep, ok := <-reports:
			if !ok {
				reports = nil
				continue
			}
			e.handleReport(rep)

		case ev, ok := <-execs:
			if !ok {
				execs = nil
				continue
			}
			e.handleExecution(ev)

		case bar, ok := <-e.bars.Bars():
			if !ok {
				if err := e.bars.Err(); err != nil {
					e.log.Error("bar feed failed", zap.Error(err))
					return err
				}
				e.log.Info("bar feed exhausted")
				return nil
			}
			// Anything the broker told us before this close applies first.
			e.drainPending(reports, execs)
			e.handleBar(bar)
		}
	}
}

// drainPending applies all queued reports and executions without blocking,
// so a bar-close evaluation always sees the broker state as of the close.
func (e *Engine) drainPending(reports <-chan order.Report, execs <-chan position.ExecutionEvent) {
	for {
		select {
		case rep := <-e.synth:
			e.handleReport(rep)
		case rep, ok := <-reports:
			if !ok {
				reports = nil
				continue
			}
			e.handleReport(rep)
		case ev, ok := <-execs:
			if !ok {
				execs = nil
				continue
			}
			e.handleExecution(ev)
		default:
			return
		}
	}
}

func (e *Engine) handleBar(bar market.Bar) {
	metrics.IncBar()

	if err := e.series.Append(bar); err != nil {
		e.log.Warn("bar dropped",
			zap.Time("bar_time", bar.Time),
			zap.Error(err),
		)
		return
	}

	e.pollAccount()

	var candidate time.Time
	if at, ok := e.anchors.Anchor(); ok {
		candidate = at
	}

	eval := e.strat.OnBar(candidate, e.realized)

	if eval.NewDay {
		e.log.Info("trading day rolled", zap.Time("bar_time", bar.Time))
	}
	if eval.VWAPDefined {
		metrics.SetVWAP(eval.VWAP)
	}

	outcome := eval.VetoCode()
	if eval.Submitted() {
		outcome = "SUBMITTED"
		e.submit(*eval.Intent)
		e.log.Info("entry submitted",
			zap.String("order_id", eval.Intent.ClientID),
			zap.Int("quantity", eval.Intent.Quantity),
			zap.Float64("vwap", eval.VWAP),
			zap.Time("bar_time", bar.Time),
		)
	} else {
		e.log.Debug("entry vetoed",
			zap.String("code", outcome),
			zap.Time("bar_time", bar.Time),
		)
	}
	metrics.IncDecision(outcome)

	rec := journal.DecisionRecord{
		BarTime:    bar.Time,
		Instrument: e.instrument,
		VWAP:       eval.VWAP,
		VWAPOK:     eval.VWAPDefined,
		VetoCode:   eval.VetoCode(),
	}
	if eval.Submitted() {
		rec.OrderID = eval.Intent.ClientID
		rec.Quantity = eval.Intent.Quantity
	}
	if err := e.jrnl.RecordDecision(rec); err != nil {
		e.log.Warn("journal decision failed", zap.Error(err))
	}

	if e.OnEval != nil {
		e.OnEval(eval)
	}
}

// submit hands the intent to the broker without blocking the loop. A failed
// handoff becomes a synthetic rejection so the state machine is released.
func (e *Engine) submit(intent broker.OrderIntent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.brk.SubmitOrder(ctx, intent); err != nil {
			e.log.Error("order submission failed",
				zap.String("order_id", intent.ClientID),
				zap.Error(err),
			)
			e.synth <- order.Report{
				OrderID: intent.ClientID,
				State:   order.Rejected,
				Time:    time.Now(),
			}
		}
	}()
}

func (e *Engine) handleReport(rep order.Report) {
	if !e.strat.OnReport(rep) {
		e.log.Debug("foreign order report ignored", zap.String("order_id", rep.OrderID))
		return
	}

	metrics.IncOrder(rep.State.String())
	e.log.Info("order report",
		zap.String("order_id", rep.OrderID),
		zap.Stringer("state", rep.State),
		zap.Int("filled_qty", rep.FilledQty),
	)

	err := e.jrnl.RecordOrder(journal.OrderRecord{
		OrderID:    rep.OrderID,
		Instrument: e.instrument,
		State:      rep.State.String(),
		FilledQty:  rep.FilledQty,
		AvgPrice:   rep.AvgFillPrice,
		Time:       rep.Time,
	})
	if err != nil {
		e.log.Warn("journal order failed", zap.Error(err))
	}
}

func (e *Engine) handleExecution(ev position.ExecutionEvent) {
	e.pos.Fold(ev)
	metrics.SetNetPosition(e.pos.NetQuantity())
	e.log.Debug("execution folded",
		zap.String("exec_id", ev.ID),
		zap.Stringer("action", ev.Action),
		zap.Int("quantity", ev.Quantity),
		zap.Int("net", e.pos.NetQuantity()),
	)
}

func (e *Engine) pollAccount() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	snap, err := e.brk.Account(ctx)
	if err != nil {
		// Stale realized P/L is safer than blocking the loop.
		e.log.Warn("account poll failed", zap.Error(err))
		return
	}
	e.realized = snap.RealizedPnL
	metrics.SetRealizedPnL(snap.RealizedPnL)
}
