package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/events"
	"github.com/finmart-data/finmart/internal/seed"
)

// NewSeedEventsCmd creates the seed-events command.
func NewSeedEventsCmd() *cobra.Command {
	var (
		from     int64
		to       int64
		randSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed-events",
		Short: "Fill the event collection with generated transaction events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeedEvents(from, to, randSeed)
		},
	}
	cmd.Flags().Int64Var(&from, "from", 1, "first transaction id to cover")
	cmd.Flags().Int64Var(&to, "to", 1000, "last transaction id to cover (inclusive)")
	cmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 uses the current time)")
	return cmd
}

func runSeedEvents(from, to, randSeed int64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Events.MongoURI == "" {
		return fmt.Errorf("events.mongoURI is required for seed-events")
	}
	if to < from {
		return fmt.Errorf("--to must be >= --from")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := events.NewMongoStore(ctx, cfg.Events.MongoURI, cfg.Events.MongoDatabase, cfg.Events.MongoCollection)
	if err != nil {
		return fmt.Errorf("connecting to event store: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	gen := seed.NewGenerator(randSeed)

	n, err := store.Seed(ctx, gen, from, to)
	if err != nil {
		return fmt.Errorf("seeding events: %w", err)
	}

	color.Green("Seeded %d transaction events", n)
	return nil
}
