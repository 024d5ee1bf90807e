package jobs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"

	"github.com/finmart-data/finmart/pkg/types"
)

// GlueAPI is the subset of the AWS Glue client used by this package.
type GlueAPI interface {
	StartJobRun(ctx context.Context, params *glue.StartJobRunInput, optFns ...func(*glue.Options)) (*glue.StartJobRunOutput, error)
	GetJobRun(ctx context.Context, params *glue.GetJobRunInput, optFns ...func(*glue.Options)) (*glue.GetJobRunOutput, error)
}

// startGlue starts an AWS Glue job run.
func startGlue(ctx context.Context, cfg types.JobConfig, client GlueAPI) (map[string]string, error) {
	if cfg.GlueJobName == "" {
		return nil, fmt.Errorf("glue job: glueJobName is required")
	}

	out, err := client.StartJobRun(ctx, &glue.StartJobRunInput{
		JobName:   &cfg.GlueJobName,
		Arguments: cfg.Arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("glue job: StartJobRun failed: %w", err)
	}

	runID := ""
	if out.JobRunId != nil {
		runID = *out.JobRunId
	}
	return map[string]string{
		"glue_job_name":   cfg.GlueJobName,
		"glue_job_run_id": runID,
	}, nil
}

// checkGlueStatus checks the status of an AWS Glue job run.
func (r *Runner) checkGlueStatus(ctx context.Context, metadata map[string]string) (StatusResult, error) {
	jobName := metadata["glue_job_name"]
	runID := metadata["glue_job_run_id"]
	if jobName == "" || runID == "" {
		return StatusResult{}, fmt.Errorf("glue status: missing job metadata")
	}

	client, err := r.getGlueClient()
	if err != nil {
		return StatusResult{}, fmt.Errorf("glue status: getting client: %w", err)
	}

	out, err := client.GetJobRun(ctx, &glue.GetJobRunInput{
		JobName: &jobName,
		RunId:   &runID,
	})
	if err != nil {
		return StatusResult{}, fmt.Errorf("glue status: GetJobRun failed: %w", err)
	}
	if out.JobRun == nil {
		return StatusResult{}, fmt.Errorf("glue status: GetJobRun returned nil JobRun")
	}

	state := out.JobRun.JobRunState
	switch state {
	case gluetypes.JobRunStateSucceeded:
		return StatusResult{State: StateSucceeded, Message: string(state)}, nil
	case gluetypes.JobRunStateFailed, gluetypes.JobRunStateTimeout,
		gluetypes.JobRunStateStopped, gluetypes.JobRunStateError:
		return StatusResult{State: StateFailed, Message: string(state)}, nil
	default:
		return StatusResult{State: StateRunning, Message: string(state)}, nil
	}
}
