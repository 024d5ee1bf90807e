package jobs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/emrserverless"
	emrsltypes "github.com/aws/aws-sdk-go-v2/service/emrserverless/types"

	"github.com/finmart-data/finmart/pkg/types"
)

// EMRServerlessAPI is the subset of the AWS EMR Serverless client used by
// this package.
type EMRServerlessAPI interface {
	StartJobRun(ctx context.Context, params *emrserverless.StartJobRunInput, optFns ...func(*emrserverless.Options)) (*emrserverless.StartJobRunOutput, error)
	GetJobRun(ctx context.Context, params *emrserverless.GetJobRunInput, optFns ...func(*emrserverless.Options)) (*emrserverless.GetJobRunOutput, error)
}

// startEMRServerless starts an EMR Serverless job run.
func startEMRServerless(ctx context.Context, cfg types.JobConfig, client EMRServerlessAPI) (map[string]string, error) {
	if cfg.ApplicationID == "" {
		return nil, fmt.Errorf("emr-serverless job: applicationID is required")
	}
	if cfg.JobName == "" {
		return nil, fmt.Errorf("emr-serverless job: jobName is required")
	}

	out, err := client.StartJobRun(ctx, &emrserverless.StartJobRunInput{
		ApplicationId: &cfg.ApplicationID,
		Name:          &cfg.JobName,
	})
	if err != nil {
		return nil, fmt.Errorf("emr-serverless job: StartJobRun failed: %w", err)
	}

	runID := ""
	if out.JobRunId != nil {
		runID = *out.JobRunId
	}
	return map[string]string{
		"emr_sl_application_id": cfg.ApplicationID,
		"emr_sl_job_run_id":     runID,
	}, nil
}

// checkEMRServerlessStatus checks the status of an EMR Serverless job run.
func (r *Runner) checkEMRServerlessStatus(ctx context.Context, metadata map[string]string) (StatusResult, error) {
	appID := metadata["emr_sl_application_id"]
	runID := metadata["emr_sl_job_run_id"]
	if appID == "" || runID == "" {
		return StatusResult{}, fmt.Errorf("emr-serverless status: missing job metadata")
	}

	client, err := r.getEMRServerlessClient()
	if err != nil {
		return StatusResult{}, fmt.Errorf("emr-serverless status: getting client: %w", err)
	}

	out, err := client.GetJobRun(ctx, &emrserverless.GetJobRunInput{
		ApplicationId: &appID,
		JobRunId:      &runID,
	})
	if err != nil {
		return StatusResult{}, fmt.Errorf("emr-serverless status: GetJobRun failed: %w", err)
	}
	if out.JobRun == nil {
		return StatusResult{}, fmt.Errorf("emr-serverless status: GetJobRun returned nil JobRun")
	}

	state := out.JobRun.State
	switch state {
	case emrsltypes.JobRunStateSuccess:
		return StatusResult{State: StateSucceeded, Message: string(state)}, nil
	case emrsltypes.JobRunStateFailed, emrsltypes.JobRunStateCancelled:
		return StatusResult{State: StateFailed, Message: string(state)}, nil
	default:
		return StatusResult{State: StateRunning, Message: string(state)}, nil
	}
}
