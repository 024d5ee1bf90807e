package jobs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/emr"
	emrtypes "github.com/aws/aws-sdk-go-v2/service/emr/types"

	"github.com/finmart-data/finmart/pkg/types"
)

// EMRAPI is the subset of the AWS EMR client used by this package.
type EMRAPI interface {
	AddJobFlowSteps(ctx context.Context, params *emr.AddJobFlowStepsInput, optFns ...func(*emr.Options)) (*emr.AddJobFlowStepsOutput, error)
	DescribeStep(ctx context.Context, params *emr.DescribeStepInput, optFns ...func(*emr.Options)) (*emr.DescribeStepOutput, error)
}

// startEMR adds the transform step to an existing EMR cluster.
func startEMR(ctx context.Context, cfg types.JobConfig, client EMRAPI) (map[string]string, error) {
	if cfg.EMRClusterID == "" {
		return nil, fmt.Errorf("emr job: emrClusterID is required")
	}
	if cfg.EMRStepName == "" {
		return nil, fmt.Errorf("emr job: emrStepName is required")
	}
	if cfg.EMRJarPath == "" {
		return nil, fmt.Errorf("emr job: emrJarPath is required")
	}

	args := make([]string, 0, len(cfg.Arguments))
	for k, v := range cfg.Arguments {
		args = append(args, k+"="+v)
	}

	out, err := client.AddJobFlowSteps(ctx, &emr.AddJobFlowStepsInput{
		JobFlowId: &cfg.EMRClusterID,
		Steps: []emrtypes.StepConfig{
			{
				Name: &cfg.EMRStepName,
				HadoopJarStep: &emrtypes.HadoopJarStepConfig{
					Jar:  &cfg.EMRJarPath,
					Args: args,
				},
				ActionOnFailure: emrtypes.ActionOnFailureContinue,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("emr job: AddJobFlowSteps failed: %w", err)
	}

	stepID := ""
	if len(out.StepIds) > 0 {
		stepID = out.StepIds[0]
	}
	return map[string]string{
		"emr_cluster_id": cfg.EMRClusterID,
		"emr_step_id":    stepID,
	}, nil
}

// checkEMRStatus checks the status of an EMR step.
func (r *Runner) checkEMRStatus(ctx context.Context, metadata map[string]string) (StatusResult, error) {
	clusterID := metadata["emr_cluster_id"]
	stepID := metadata["emr_step_id"]
	if clusterID == "" || stepID == "" {
		return StatusResult{}, fmt.Errorf("emr status: missing job metadata")
	}

	client, err := r.getEMRClient()
	if err != nil {
		return StatusResult{}, fmt.Errorf("emr status: getting client: %w", err)
	}

	out, err := client.DescribeStep(ctx, &emr.DescribeStepInput{
		ClusterId: &clusterID,
		StepId:    &stepID,
	})
	if err != nil {
		return StatusResult{}, fmt.Errorf("emr status: DescribeStep failed: %w", err)
	}
	if out.Step == nil || out.Step.Status == nil {
		return StatusResult{}, fmt.Errorf("emr status: DescribeStep returned nil status")
	}

	state := out.Step.Status.State
	switch state {
	case emrtypes.StepStateCompleted:
		return StatusResult{State: StateSucceeded, Message: string(state)}, nil
	case emrtypes.StepStateFailed, emrtypes.StepStateCancelled, emrtypes.StepStateInterrupted:
		return StatusResult{State: StateFailed, Message: string(state)}, nil
	default:
		return StatusResult{State: StateRunning, Message: string(state)}, nil
	}
}
