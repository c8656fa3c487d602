package main

import (
	"os"

	"github.com/Thomas18181818/avwap-bot/cmd/avwap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
