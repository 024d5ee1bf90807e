package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/jobs"
	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// NewTransformCmd creates the transform command.
func NewTransformCmd() *cobra.Command {
	var (
		wait         bool
		pollInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Run the dimensional transform on the configured engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(wait, pollInterval)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "block until a managed job run finishes")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 15*time.Second, "status poll interval with --wait")
	return cmd
}

func runTransform(wait bool, pollInterval time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Job.Engine == types.EngineLocal {
		return runLocalTransform(cfg)
	}
	return runManagedTransform(cfg, wait, pollInterval)
}

func runLocalTransform(cfg *types.ProjectConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	source, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	eventSource, cleanup, err := openEventSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sink, err := openSink(ctx, cfg)
	if err != nil {
		return err
	}

	transformer := warehouse.New(source, eventSource, sink,
		warehouse.WithJoinPolicy(cfg.Warehouse.JoinPolicy),
		warehouse.WithLogger(newLogger()))

	report, err := transformer.Run(ctx)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}

	color.Green("Transform %s completed in %s", report.RunID, report.Duration.Round(time.Millisecond))
	fmt.Printf("  dim_customers:     %d\n", report.DimCustomers)
	fmt.Printf("  dim_accounts:      %d\n", report.DimAccounts)
	fmt.Printf("  dim_dates:         %d\n", report.DimDates)
	fmt.Printf("  fact_transactions: %d\n", report.FactTransactions)
	if report.OrphansDropped > 0 {
		color.Yellow("  orphans dropped:     %d", report.OrphansDropped)
	}
	if report.OrphansQuarantined > 0 {
		color.Yellow("  orphans quarantined: %d", report.OrphansQuarantined)
	}
	return nil
}

func runManagedTransform(cfg *types.ProjectConfig, wait bool, pollInterval time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	runner := jobs.NewRunner(jobs.WithRegion(cfg.Region))

	job, err := runner.Start(ctx, cfg.Job)
	if err != nil {
		return fmt.Errorf("starting job: %w", err)
	}
	if err := saveJob(job); err != nil {
		return err
	}

	color.Cyan("Started %s job", job.Engine)
	for k, v := range job.Metadata {
		fmt.Printf("  %s: %s\n", k, v)
	}

	if !wait {
		fmt.Println("Check progress with: finmart job-status")
		return nil
	}

	result, err := runner.Wait(ctx, job, pollInterval)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if result.State != jobs.StateSucceeded {
		color.Red("Job finished in state %s (%s)", result.State, result.Message)
		return fmt.Errorf("job did not succeed")
	}
	color.Green("Job succeeded (%s)", result.Message)
	return nil
}
