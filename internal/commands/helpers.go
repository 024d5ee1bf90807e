// Package commands implements the CLI subcommands for the finmart binary.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/finmart-data/finmart/internal/blob"
	"github.com/finmart-data/finmart/internal/config"
	"github.com/finmart-data/finmart/internal/events"
	"github.com/finmart-data/finmart/internal/jobs"
	"github.com/finmart-data/finmart/internal/relational"
	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// jobStateFile records the most recently started managed job so job-status
// and job-logs can find it.
const jobStateFile = ".finmart-job.json"

func loadConfig() (*types.ProjectConfig, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func awsConfigOptions(region string) []func(*awsconfig.LoadOptions) error {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	return optFns
}

// openSource connects to the raw relational database.
func openSource(ctx context.Context, cfg *types.ProjectConfig) (*relational.Store, error) {
	dsn, err := config.ResolveDSN(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	store, err := relational.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to source database: %w", err)
	}
	return store, nil
}

// openEventSource returns the configured event feed and a cleanup func.
func openEventSource(ctx context.Context, cfg *types.ProjectConfig) (warehouse.EventSource, func(), error) {
	if cfg.Events.S3URI != "" {
		store, err := blob.NewS3Store(ctx, cfg.Events.S3URI, cfg.Region)
		if err != nil {
			return nil, nil, fmt.Errorf("opening event feed: %w", err)
		}
		return blob.NewEventReader(store), func() {}, nil
	}
	if cfg.Events.MongoURI != "" {
		store, err := events.NewMongoStore(ctx, cfg.Events.MongoURI, cfg.Events.MongoDatabase, cfg.Events.MongoCollection)
		if err != nil {
			return nil, nil, fmt.Errorf("opening event feed: %w", err)
		}
		cleanup := func() { _ = store.Close(context.Background()) }
		return store, cleanup, nil
	}
	return nil, nil, fmt.Errorf("events: one of s3URI or mongoURI is required")
}

// openSink returns the warehouse output sink for the configured location.
func openSink(ctx context.Context, cfg *types.ProjectConfig) (warehouse.Sink, error) {
	out := cfg.Warehouse.Output
	if out == "" {
		return nil, fmt.Errorf("warehouse.output is required")
	}
	var w blob.DatasetWriter
	if strings.HasPrefix(out, "s3://") {
		store, err := blob.NewS3Store(ctx, out, cfg.Region)
		if err != nil {
			return nil, fmt.Errorf("opening warehouse output: %w", err)
		}
		w = store
	} else {
		store, err := blob.NewLocalStore(out)
		if err != nil {
			return nil, fmt.Errorf("opening warehouse output: %w", err)
		}
		w = store
	}
	return blob.NewWarehouseSink(w), nil
}

func saveJob(job jobs.StartedJob) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding job state: %w", err)
	}
	if err := os.WriteFile(jobStateFile, data, 0o644); err != nil {
		return fmt.Errorf("writing job state: %w", err)
	}
	return nil
}

func loadJob() (jobs.StartedJob, error) {
	var job jobs.StartedJob
	data, err := os.ReadFile(jobStateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return job, fmt.Errorf("no job has been started, run transform first")
		}
		return job, fmt.Errorf("reading job state: %w", err)
	}
	if err := json.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("parsing job state: %w", err)
	}
	return job, nil
}
