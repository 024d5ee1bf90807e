package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/seed"
)

// NewSeedCmd creates the seed command.
func NewSeedCmd() *cobra.Command {
	var (
		customers       int
		accountsPer     int
		transactionsPer int
		randSeed        int64
		skipMigrate     bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the raw tables and fill them with generated data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(customers, accountsPer, transactionsPer, randSeed, skipMigrate)
		},
	}
	cmd.Flags().IntVar(&customers, "customers", 100, "number of customers to generate")
	cmd.Flags().IntVar(&accountsPer, "accounts-per-customer", 2, "accounts per customer")
	cmd.Flags().IntVar(&transactionsPer, "transactions-per-account", 25, "transactions per account")
	cmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 uses the current time)")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not create the schema before seeding")
	return cmd
}

func runSeed(customers, accountsPer, transactionsPer int, randSeed int64, skipMigrate bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !skipMigrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	gen := seed.NewGenerator(randSeed)

	report, err := store.Seed(ctx, gen, customers, accountsPer, transactionsPer)
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	color.Green("Seeded %d customers, %d accounts, %d transactions",
		report.Customers, report.Accounts, report.Transactions)
	return nil
}
