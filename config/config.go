package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Thomas18181818/avwap-bot/indicators"
	"github.com/Thomas18181818/avwap-bot/market"
	"github.com/Thomas18181818/avwap-bot/strategy"
)

// Config represents the complete bot configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics"`
}

// AccountConfig identifies the trading account
type AccountConfig struct {
	ID string `json:"id" yaml:"id"`
}

// StrategyConfig contains the entry-machine parameters
type StrategyConfig struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	SignalName string `json:"signal_name,omitempty" yaml:"signal_name,omitempty"`

	Mode         string `json:"mode,omitempty" yaml:"mode,omitempty"` // "single" or "accumulate"
	PositionSize int    `json:"position_size" yaml:"position_size"`
	MaxPosition  int    `json:"max_position,omitempty" yaml:"max_position,omitempty"`

	EntryToleranceTicks int `json:"entry_tolerance_ticks" yaml:"entry_tolerance_ticks"`
	StopTicks           int `json:"stop_ticks,omitempty" yaml:"stop_ticks,omitempty"`
	TargetTicks         int `json:"target_ticks,omitempty" yaml:"target_ticks,omitempty"`

	WarmupBars          int `json:"warmup_bars,omitempty" yaml:"warmup_bars,omitempty"`
	CooldownBars        int `json:"cooldown_bars,omitempty" yaml:"cooldown_bars,omitempty"`
	AnchorStabilityBars int `json:"anchor_stability_bars,omitempty" yaml:"anchor_stability_bars,omitempty"`

	DirectionalFilter     bool    `json:"directional_filter,omitempty" yaml:"directional_filter,omitempty"`
	ImbalanceFilter       bool    `json:"imbalance_filter,omitempty" yaml:"imbalance_filter,omitempty"`
	FootprintConfirmation bool    `json:"footprint_confirmation,omitempty" yaml:"footprint_confirmation,omitempty"`
	MinBullishDeltaTicks  float64 `json:"min_bullish_delta_ticks,omitempty" yaml:"min_bullish_delta_ticks,omitempty"`

	PricePolicy     string `json:"price_policy,omitempty" yaml:"price_policy,omitempty"` // "typical" or "low"
	AnchorTolerance string `json:"anchor_tolerance,omitempty" yaml:"anchor_tolerance,omitempty"`

	MaxTradesPerDay int     `json:"max_trades_per_day,omitempty" yaml:"max_trades_per_day,omitempty"`
	MaxDailyLoss    float64 `json:"max_daily_loss,omitempty" yaml:"max_daily_loss,omitempty"`
}

// FeedConfig selects the bar and anchor inputs
type FeedConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "ws"
	BarsFile   string `json:"bars_file,omitempty" yaml:"bars_file,omitempty"`
	WSURL      string `json:"ws_url,omitempty" yaml:"ws_url,omitempty"`
	AnchorFile string `json:"anchor_file,omitempty" yaml:"anchor_file,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type          string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	DecisionsFile string `json:"decisions_file,omitempty" yaml:"decisions_file,omitempty"`
	OrdersFile    string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Listen  string `json:"listen,omitempty" yaml:"listen,omitempty"`
}

// ParseAnchorTolerance converts the tolerance string to time.Duration
func (s StrategyConfig) ParseAnchorTolerance() (time.Duration, error) {
	if s.AnchorTolerance == "" {
		return 0, nil
	}
	return time.ParseDuration(s.AnchorTolerance)
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Strategy.Instrument == "" {
		return fmt.Errorf("strategy.instrument is required")
	}
	if _, ok := market.Instruments[c.Strategy.Instrument]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Strategy.Instrument)
	}
	if c.Strategy.PositionSize <= 0 {
		return fmt.Errorf("strategy.position_size must be positive")
	}
	if c.Strategy.MaxPosition < 0 {
		return fmt.Errorf("strategy.max_position must not be negative")
	}
	if c.Strategy.EntryToleranceTicks < 0 {
		return fmt.Errorf("strategy.entry_tolerance_ticks must not be negative")
	}
	if _, err := strategy.ParseEntryMode(c.Strategy.Mode); err != nil {
		return err
	}
	if _, err := indicators.ParsePricePolicy(c.Strategy.PricePolicy); err != nil {
		return err
	}
	if _, err := c.Strategy.ParseAnchorTolerance(); err != nil {
		return fmt.Errorf("strategy.anchor_tolerance: %w", err)
	}
	switch c.Feed.Type {
	case "csv":
		if c.Feed.BarsFile == "" {
			return fmt.Errorf("feed.bars_file required for CSV feed")
		}
	case "ws":
		if c.Feed.WSURL == "" {
			return fmt.Errorf("feed.ws_url required for websocket feed")
		}
	default:
		return fmt.Errorf("feed.type must be 'csv' or 'ws'")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.DecisionsFile == "" || c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal decisions_file and orders_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen required when metrics enabled")
	}
	return nil
}

// BuildStrategy builds the entry-machine configuration from the file form.
func (c *Config) BuildStrategy() (strategy.Config, error) {
	mode, err := strategy.ParseEntryMode(c.Strategy.Mode)
	if err != nil {
		return strategy.Config{}, err
	}
	policy, err := indicators.ParsePricePolicy(c.Strategy.PricePolicy)
	if err != nil {
		return strategy.Config{}, err
	}
	tol, err := c.Strategy.ParseAnchorTolerance()
	if err != nil {
		return strategy.Config{}, err
	}
	meta, ok := market.Instruments[c.Strategy.Instrument]
	if !ok {
		return strategy.Config{}, fmt.Errorf("unknown instrument: %s", c.Strategy.Instrument)
	}

	sc := strategy.Config{
		Account:    c.Account.ID,
		Instrument: c.Strategy.Instrument,
		TickSize:   meta.TickSize,
		SignalName: c.Strategy.SignalName,

		Mode:         mode,
		PositionSize: c.Strategy.PositionSize,
		MaxPosition:  c.Strategy.MaxPosition,

		EntryToleranceTicks: c.Strategy.EntryToleranceTicks,
		StopTicks:           c.Strategy.StopTicks,
		TargetTicks:         c.Strategy.TargetTicks,

		WarmupBars:          c.Strategy.WarmupBars,
		CooldownBars:        c.Strategy.CooldownBars,
		AnchorStabilityBars: c.Strategy.AnchorStabilityBars,

		DirectionalFilter:     c.Strategy.DirectionalFilter,
		ImbalanceFilter:       c.Strategy.ImbalanceFilter,
		FootprintConfirmation: c.Strategy.FootprintConfirmation,
		MinBullishDeltaTicks:  c.Strategy.MinBullishDeltaTicks,

		PricePolicy:     policy,
		AnchorTolerance: tol,
	}
	sc.Risk.MaxTradesPerDay = c.Strategy.MaxTradesPerDay
	sc.Risk.MaxDailyLoss = c.Strategy.MaxDailyLoss
	return sc, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID: "SIM-001",
		},
		Strategy: StrategyConfig{
			Instrument:          "MNQ",
			Mode:                "single",
			PositionSize:        1,
			EntryToleranceTicks: 2,
			CooldownBars:        5,
			AnchorStabilityBars: 2,
			PricePolicy:         "typical",
			AnchorTolerance:     "60s",
			MaxTradesPerDay:     3,
			MaxDailyLoss:        500,
		},
		Feed: FeedConfig{
			Type:       "csv",
			BarsFile:   "./bars.csv",
			AnchorFile: "./anchor.txt",
		},
		Journal: JournalConfig{
			Type:          "csv",
			DecisionsFile: "./decisions.csv",
			OrdersFile:    "./orders.csv",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9090",
		},
	}
}
