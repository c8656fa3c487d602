package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the avwap CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("avwap version %s\n", version)
		fmt.Println("An anchored-VWAP entry bot for index futures")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
