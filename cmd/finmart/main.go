package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/commands"
)

var version = "dev"

func main() {
	// A .env file is optional; environment variables win when both exist.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "finmart",
		Short: "Batch warehouse transform and stream tooling for transaction data",
		Long: `Finmart moves retail banking transaction data through two paths:
a batch dimensional transform that reshapes raw customers, accounts, and
transactions into analytic star-schema datasets, and a streaming path that
classifies transaction messages by amount as they arrive.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewSeedCmd(),
		commands.NewSeedEventsCmd(),
		commands.NewProduceCmd(),
		commands.NewTransformCmd(),
		commands.NewJobStatusCmd(),
		commands.NewJobLogsCmd(),
		commands.NewRecordCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
