package jobs

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/emr"
	emrtypes "github.com/aws/aws-sdk-go-v2/service/emr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmart-data/finmart/pkg/types"
)

type mockEMRClient struct {
	addOut      *emr.AddJobFlowStepsOutput
	addErr      error
	describeOut *emr.DescribeStepOutput
	describeErr error
	addInput    *emr.AddJobFlowStepsInput
}

func (m *mockEMRClient) AddJobFlowSteps(ctx context.Context, params *emr.AddJobFlowStepsInput, optFns ...func(*emr.Options)) (*emr.AddJobFlowStepsOutput, error) {
	m.addInput = params
	return m.addOut, m.addErr
}

func (m *mockEMRClient) DescribeStep(ctx context.Context, params *emr.DescribeStepInput, optFns ...func(*emr.Options)) (*emr.DescribeStepOutput, error) {
	return m.describeOut, m.describeErr
}

func emrConfig() types.JobConfig {
	return types.JobConfig{
		Engine:       types.EngineEMR,
		EMRClusterID: "j-ABCDEF",
		EMRStepName:  "finmart-transform",
		EMRJarPath:   "s3://finmart-jars/transform.jar",
	}
}

func TestStartEMR_Success(t *testing.T) {
	client := &mockEMRClient{
		addOut: &emr.AddJobFlowStepsOutput{StepIds: []string{"s-12345"}},
	}

	meta, err := startEMR(context.Background(), emrConfig(), client)
	require.NoError(t, err)
	assert.Equal(t, "j-ABCDEF", meta["emr_cluster_id"])
	assert.Equal(t, "s-12345", meta["emr_step_id"])

	require.Len(t, client.addInput.Steps, 1)
	step := client.addInput.Steps[0]
	assert.Equal(t, "finmart-transform", *step.Name)
	assert.Equal(t, "s3://finmart-jars/transform.jar", *step.HadoopJarStep.Jar)
	assert.Equal(t, emrtypes.ActionOnFailureContinue, step.ActionOnFailure)
}

func TestStartEMR_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.JobConfig)
		wantErr string
	}{
		{"cluster id", func(c *types.JobConfig) { c.EMRClusterID = "" }, "emrClusterID is required"},
		{"step name", func(c *types.JobConfig) { c.EMRStepName = "" }, "emrStepName is required"},
		{"jar path", func(c *types.JobConfig) { c.EMRJarPath = "" }, "emrJarPath is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := emrConfig()
			tt.mutate(&cfg)

			_, err := startEMR(context.Background(), cfg, &mockEMRClient{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStartEMR_APIError(t *testing.T) {
	client := &mockEMRClient{addErr: assert.AnError}

	_, err := startEMR(context.Background(), emrConfig(), client)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "AddJobFlowSteps failed")
}

func TestCheckEMRStatus(t *testing.T) {
	tests := []struct {
		name     string
		state    emrtypes.StepState
		expected State
	}{
		{"completed", emrtypes.StepStateCompleted, StateSucceeded},
		{"failed", emrtypes.StepStateFailed, StateFailed},
		{"cancelled", emrtypes.StepStateCancelled, StateFailed},
		{"interrupted", emrtypes.StepStateInterrupted, StateFailed},
		{"pending", emrtypes.StepStatePending, StateRunning},
		{"running", emrtypes.StepStateRunning, StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockEMRClient{
				describeOut: &emr.DescribeStepOutput{
					Step: &emrtypes.Step{
						Status: &emrtypes.StepStatus{State: tt.state},
					},
				},
			}

			r := NewRunner(WithEMRClient(client))
			result, err := r.checkEMRStatus(context.Background(), map[string]string{
				"emr_cluster_id": "j-ABCDEF",
				"emr_step_id":    "s-12345",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.State)
			assert.Equal(t, string(tt.state), result.Message)
		})
	}
}

func TestCheckEMRStatus_MissingMetadata(t *testing.T) {
	r := NewRunner(WithEMRClient(&mockEMRClient{}))
	_, err := r.checkEMRStatus(context.Background(), map[string]string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing job metadata")
}
