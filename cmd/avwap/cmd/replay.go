package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Thomas18181818/avwap-bot/config"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay historical bars from CSV",
	Long: `Replay a CSV bar file through the full engine against the simulated
fill engine, journaling every decision the bot would have made.

Can replay from a simple CSV file or from a configuration file.

Examples:
  avwap replay -b data/mnq.csv -a data/anchor.txt
  avwap replay -f examples/configs/replay.yaml`,
	RunE: runReplay,
}

var (
	replayConfigPath string
	replayBarsPath   string
	replayAnchorPath string
	replayDBPath     string
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file with replay settings")
	replayCmd.Flags().StringVarP(&replayBarsPath, "bars", "b", "", "CSV file of bars (time,open,high,low,close,volume)")
	replayCmd.Flags().StringVarP(&replayAnchorPath, "anchor", "a", "", "file holding the anchor timestamp (RFC3339)")
	replayCmd.Flags().StringVarP(&replayDBPath, "db", "d", "./avwap.sqlite", "SQLite journal path")
}

func runReplay(cmd *cobra.Command, args []string) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	var cfg *config.Config
	if replayConfigPath != "" {
		cfg, err = config.LoadFromFile(replayConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		if replayBarsPath == "" {
			return fmt.Errorf("either -config or -bars flag is required")
		}
		cfg = config.Default()
		cfg.Feed.Type = "csv"
		cfg.Feed.BarsFile = replayBarsPath
		cfg.Feed.AnchorFile = replayAnchorPath
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = replayDBPath
	}

	fmt.Printf("Replaying bars from: %s\n", cfg.Feed.BarsFile)

	if err := runEngine(context.Background(), log, cfg); err != nil {
		return fmt.Errorf("replay error: %w", err)
	}

	fmt.Printf("\nReplay complete!\n")
	if cfg.Journal.Type == "csv" {
		fmt.Printf("Results saved to:\n  - %s\n  - %s\n", cfg.Journal.DecisionsFile, cfg.Journal.OrdersFile)
	} else if cfg.Journal.Type == "sqlite" {
		fmt.Printf("Results saved to: %s\n", cfg.Journal.DBPath)
	}

	return nil
}
