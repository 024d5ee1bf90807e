package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finmart-data/finmart/internal/jobs"
)

// NewJobStatusCmd creates the job-status command.
func NewJobStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "job-status",
		Short: "Show the state of the most recently started transform job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobStatus()
		},
	}
}

func runJobStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	job, err := loadJob()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner := jobs.NewRunner(jobs.WithRegion(cfg.Region))
	result, err := runner.Status(ctx, job)
	if err != nil {
		return fmt.Errorf("checking job status: %w", err)
	}

	switch result.State {
	case jobs.StateSucceeded:
		color.Green("%s job: %s (%s)", job.Engine, result.State, result.Message)
	case jobs.StateFailed:
		color.Red("%s job: %s (%s)", job.Engine, result.State, result.Message)
	default:
		color.Cyan("%s job: %s (%s)", job.Engine, result.State, result.Message)
	}
	for k, v := range job.Metadata {
		fmt.Printf("  %s: %s\n", k, v)
	}
	return nil
}

// NewJobLogsCmd creates the job-logs command.
func NewJobLogsCmd() *cobra.Command {
	var limit int32

	cmd := &cobra.Command{
		Use:   "job-logs",
		Short: "Print log output from the most recently started transform job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobLogs(limit)
		},
	}
	cmd.Flags().Int32Var(&limit, "limit", 100, "maximum number of log events to print (0 for all)")
	return cmd
}

func runJobLogs(limit int32) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	job, err := loadJob()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	runner := jobs.NewRunner(jobs.WithRegion(cfg.Region))
	events, err := runner.FetchLogs(ctx, cfg.Job, job, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No log events yet.")
		return nil
	}
	for _, ev := range events {
		fmt.Printf("%s  %s\n", ev.Timestamp.Format(time.RFC3339), ev.Message)
	}
	return nil
}
