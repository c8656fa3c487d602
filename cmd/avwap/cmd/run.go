package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Thomas18181818/avwap-bot/broker/sim"
	"github.com/Thomas18181818/avwap-bot/config"
	"github.com/Thomas18181818/avwap-bot/engine"
	"github.com/Thomas18181818/avwap-bot/feed"
	"github.com/Thomas18181818/avwap-bot/journal"
	"github.com/Thomas18181818/avwap-bot/market"
	"github.com/Thomas18181818/avwap-bot/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot from a config file",
	Long: `Run the entry bot using settings from a configuration file.

The config file selects the bar feed (websocket or CSV), the anchor file the
human edits to move the marker, the journal backend, and all strategy
parameters.

Example:
  avwap run -f examples/configs/live.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runEngine(ctx, log, cfg)
}

func runEngine(ctx context.Context, log *zap.Logger, cfg *config.Config) error {
	sc, err := cfg.BuildStrategy()
	if err != nil {
		return fmt.Errorf("build strategy: %w", err)
	}

	bars, err := openBarSource(cfg)
	if err != nil {
		return err
	}
	defer bars.Close()

	var anchors feed.AnchorSource = feed.NewAnchorValue()
	if cfg.Feed.AnchorFile != "" {
		anchors = feed.NewAnchorFile(cfg.Feed.AnchorFile)
	}

	jrnl, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	brk := sim.New(cfg.Account.ID, cfg.Strategy.Instrument)
	defer brk.Close()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		log.Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
	}

	eng := engine.New(log, sc, brk, markBars(bars, brk), anchors, jrnl)
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openBarSource(cfg *config.Config) (feed.BarSource, error) {
	switch cfg.Feed.Type {
	case "ws":
		src, err := feed.NewWSSource(cfg.Feed.WSURL)
		if err != nil {
			return nil, fmt.Errorf("open bar feed: %w", err)
		}
		return src, nil
	default:
		src, err := feed.NewCSVSource(cfg.Feed.BarsFile)
		if err != nil {
			return nil, fmt.Errorf("open bar file: %w", err)
		}
		return src, nil
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.DecisionsFile, cfg.Journal.OrdersFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

// markingSource tees each bar's close into the fill engine as the mark price
// before the bar reaches the event loop.
type markingSource struct {
	inner feed.BarSource
	brk   *sim.Engine
	out   chan market.Bar
}

func markBars(inner feed.BarSource, brk *sim.Engine) *markingSource {
	m := &markingSource{inner: inner, brk: brk, out: make(chan market.Bar)}
	go func() {
		defer close(m.out)
		for b := range inner.Bars() {
			brk.MarkPrice(b.Close, b.Time)
			m.out <- b
		}
	}()
	return m
}

func (m *markingSource) Bars() <-chan market.Bar { return m.out }
func (m *markingSource) Err() error              { return m.inner.Err() }
func (m *markingSource) Close() error            { return m.inner.Close() }
