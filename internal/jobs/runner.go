// Package jobs starts and tracks the managed batch jobs that run the
// dimensional transform on Glue, EMR, or EMR Serverless.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/emr"
	"github.com/aws/aws-sdk-go-v2/service/emrserverless"
	"github.com/aws/aws-sdk-go-v2/service/glue"

	"github.com/finmart-data/finmart/pkg/types"
)

// State is the normalized status of a managed job run.
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// StartedJob identifies a job run; Metadata carries the engine-specific ids
// needed to check its status later.
type StartedJob struct {
	Engine   types.Engine      `json:"engine"`
	Metadata map[string]string `json:"metadata"`
}

// StatusResult is the normalized result of a status check. Message carries
// the engine's own state string for logging.
type StatusResult struct {
	State   State
	Message string
}

// Runner holds lazily created AWS SDK clients and dispatches job start and
// status checks across the supported engines.
type Runner struct {
	region string

	mu          sync.Mutex
	glueClient  GlueAPI
	emrClient   EMRAPI
	emrSLClient EMRServerlessAPI
	logsClient  LogsAPI
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRegion sets the AWS region for lazily created clients.
func WithRegion(region string) RunnerOption {
	return func(r *Runner) { r.region = region }
}

// WithGlueClient sets a custom Glue client (useful for testing).
func WithGlueClient(c GlueAPI) RunnerOption {
	return func(r *Runner) { r.glueClient = c }
}

// WithEMRClient sets a custom EMR client.
func WithEMRClient(c EMRAPI) RunnerOption {
	return func(r *Runner) { r.emrClient = c }
}

// WithEMRServerlessClient sets a custom EMR Serverless client.
func WithEMRServerlessClient(c EMRServerlessAPI) RunnerOption {
	return func(r *Runner) { r.emrSLClient = c }
}

// WithLogsClient sets a custom CloudWatch Logs client.
func WithLogsClient(c LogsAPI) RunnerOption {
	return func(r *Runner) { r.logsClient = c }
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start launches the configured job and returns its identity.
func (r *Runner) Start(ctx context.Context, cfg types.JobConfig) (StartedJob, error) {
	switch cfg.Engine {
	case types.EngineGlue:
		client, err := r.getGlueClient()
		if err != nil {
			return StartedJob{}, err
		}
		meta, err := startGlue(ctx, cfg, client)
		if err != nil {
			return StartedJob{}, err
		}
		return StartedJob{Engine: cfg.Engine, Metadata: meta}, nil
	case types.EngineEMR:
		client, err := r.getEMRClient()
		if err != nil {
			return StartedJob{}, err
		}
		meta, err := startEMR(ctx, cfg, client)
		if err != nil {
			return StartedJob{}, err
		}
		return StartedJob{Engine: cfg.Engine, Metadata: meta}, nil
	case types.EngineEMRServerless:
		client, err := r.getEMRServerlessClient()
		if err != nil {
			return StartedJob{}, err
		}
		meta, err := startEMRServerless(ctx, cfg, client)
		if err != nil {
			return StartedJob{}, err
		}
		return StartedJob{Engine: cfg.Engine, Metadata: meta}, nil
	default:
		return StartedJob{}, fmt.Errorf("unsupported job engine: %s", cfg.Engine)
	}
}

// Status checks a previously started job.
func (r *Runner) Status(ctx context.Context, job StartedJob) (StatusResult, error) {
	switch job.Engine {
	case types.EngineGlue:
		return r.checkGlueStatus(ctx, job.Metadata)
	case types.EngineEMR:
		return r.checkEMRStatus(ctx, job.Metadata)
	case types.EngineEMRServerless:
		return r.checkEMRServerlessStatus(ctx, job.Metadata)
	default:
		return StatusResult{}, fmt.Errorf("unsupported job engine: %s", job.Engine)
	}
}

// Wait polls the job until it reaches a terminal state or ctx expires.
func (r *Runner) Wait(ctx context.Context, job StartedJob, interval time.Duration) (StatusResult, error) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		result, err := r.Status(ctx, job)
		if err != nil {
			return StatusResult{}, err
		}
		if result.State != StateRunning {
			return result, nil
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) awsConfig(ctx context.Context) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if r.region != "" {
		opts = append(opts, awsconfig.WithRegion(r.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return cfg, nil
}

func (r *Runner) getGlueClient() (GlueAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.glueClient != nil {
		return r.glueClient, nil
	}
	cfg, err := r.awsConfig(context.Background())
	if err != nil {
		return nil, err
	}
	r.glueClient = glue.NewFromConfig(cfg)
	return r.glueClient, nil
}

func (r *Runner) getEMRClient() (EMRAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emrClient != nil {
		return r.emrClient, nil
	}
	cfg, err := r.awsConfig(context.Background())
	if err != nil {
		return nil, err
	}
	r.emrClient = emr.NewFromConfig(cfg)
	return r.emrClient, nil
}

func (r *Runner) getEMRServerlessClient() (EMRServerlessAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emrSLClient != nil {
		return r.emrSLClient, nil
	}
	cfg, err := r.awsConfig(context.Background())
	if err != nil {
		return nil, err
	}
	r.emrSLClient = emrserverless.NewFromConfig(cfg)
	return r.emrSLClient, nil
}

func (r *Runner) getLogsClient() (LogsAPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logsClient != nil {
		return r.logsClient, nil
	}
	cfg, err := r.awsConfig(context.Background())
	if err != nil {
		return nil, err
	}
	r.logsClient = cloudwatchlogs.NewFromConfig(cfg)
	return r.logsClient, nil
}
