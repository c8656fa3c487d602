package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "avwap",
	Short: "An anchored-VWAP entry bot for index futures",
	Long: `Avwap is an automated entry system built around a human-placed anchor.

A human drops an anchor marker on the chart; the bot computes the volume
weighted average price from that anchor forward and, when price pulls back
into the VWAP band, submits a single long entry. Exits stay with the human.

It provides tools for:
  - Running live against a websocket bar feed
  - Replaying historical bars from CSV
  - Journaling every decision and order to CSV or SQLite
  - Daily risk limits on trade count and realized loss`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
