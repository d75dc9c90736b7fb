package main

import (
	"os"

	"github.com/duckworthlewis/dlc/cli/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
