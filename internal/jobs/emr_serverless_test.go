package jobs

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/emrserverless"
	emrsltypes "github.com/aws/aws-sdk-go-v2/service/emrserverless/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmart-data/finmart/pkg/types"
)

type mockEMRServerlessClient struct {
	startOut *emrserverless.StartJobRunOutput
	startErr error
	getOut   *emrserverless.GetJobRunOutput
	getErr   error
}

func (m *mockEMRServerlessClient) StartJobRun(ctx context.Context, params *emrserverless.StartJobRunInput, optFns ...func(*emrserverless.Options)) (*emrserverless.StartJobRunOutput, error) {
	return m.startOut, m.startErr
}

func (m *mockEMRServerlessClient) GetJobRun(ctx context.Context, params *emrserverless.GetJobRunInput, optFns ...func(*emrserverless.Options)) (*emrserverless.GetJobRunOutput, error) {
	return m.getOut, m.getErr
}

func TestStartEMRServerless_Success(t *testing.T) {
	runID := "00f8k2mhbq0001"
	client := &mockEMRServerlessClient{
		startOut: &emrserverless.StartJobRunOutput{JobRunId: &runID},
	}

	cfg := types.JobConfig{
		Engine:        types.EngineEMRServerless,
		ApplicationID: "00f5kfvvn0a001",
		JobName:       "finmart-transform",
	}

	meta, err := startEMRServerless(context.Background(), cfg, client)
	require.NoError(t, err)
	assert.Equal(t, "00f5kfvvn0a001", meta["emr_sl_application_id"])
	assert.Equal(t, "00f8k2mhbq0001", meta["emr_sl_job_run_id"])
}

func TestStartEMRServerless_MissingApplicationID(t *testing.T) {
	cfg := types.JobConfig{Engine: types.EngineEMRServerless, JobName: "finmart-transform"}

	_, err := startEMRServerless(context.Background(), cfg, &mockEMRServerlessClient{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "applicationID is required")
}

func TestStartEMRServerless_MissingJobName(t *testing.T) {
	cfg := types.JobConfig{Engine: types.EngineEMRServerless, ApplicationID: "00f5kfvvn0a001"}

	_, err := startEMRServerless(context.Background(), cfg, &mockEMRServerlessClient{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jobName is required")
}

func TestCheckEMRServerlessStatus(t *testing.T) {
	tests := []struct {
		name     string
		state    emrsltypes.JobRunState
		expected State
	}{
		{"success", emrsltypes.JobRunStateSuccess, StateSucceeded},
		{"failed", emrsltypes.JobRunStateFailed, StateFailed},
		{"cancelled", emrsltypes.JobRunStateCancelled, StateFailed},
		{"pending", emrsltypes.JobRunStatePending, StateRunning},
		{"scheduled", emrsltypes.JobRunStateScheduled, StateRunning},
		{"running", emrsltypes.JobRunStateRunning, StateRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockEMRServerlessClient{
				getOut: &emrserverless.GetJobRunOutput{
					JobRun: &emrsltypes.JobRun{State: tt.state},
				},
			}

			r := NewRunner(WithEMRServerlessClient(client))
			result, err := r.checkEMRServerlessStatus(context.Background(), map[string]string{
				"emr_sl_application_id": "00f5kfvvn0a001",
				"emr_sl_job_run_id":     "00f8k2mhbq0001",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.State)
			assert.Equal(t, string(tt.state), result.Message)
		})
	}
}

func TestCheckEMRServerlessStatus_MissingMetadata(t *testing.T) {
	r := NewRunner(WithEMRServerlessClient(&mockEMRServerlessClient{}))
	_, err := r.checkEMRServerlessStatus(context.Background(), map[string]string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing job metadata")
}
