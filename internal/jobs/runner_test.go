package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmart-data/finmart/pkg/types"
)

func TestRunnerStart_DispatchesGlue(t *testing.T) {
	runID := "jr_123"
	client := &mockGlueClient{
		startOut: &glue.StartJobRunOutput{JobRunId: &runID},
	}

	r := NewRunner(WithGlueClient(client))
	job, err := r.Start(context.Background(), types.JobConfig{
		Engine:      types.EngineGlue,
		GlueJobName: "finmart-transform",
	})
	require.NoError(t, err)
	assert.Equal(t, types.EngineGlue, job.Engine)
	assert.Equal(t, "jr_123", job.Metadata["glue_job_run_id"])
}

func TestRunnerStart_UnsupportedEngine(t *testing.T) {
	r := NewRunner()
	_, err := r.Start(context.Background(), types.JobConfig{Engine: types.EngineLocal})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported job engine")
}

func TestRunnerStatus_UnsupportedEngine(t *testing.T) {
	r := NewRunner()
	_, err := r.Status(context.Background(), StartedJob{Engine: "spark"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported job engine")
}

// pollingGlueClient reports RUNNING a fixed number of times before SUCCEEDED.
type pollingGlueClient struct {
	mockGlueClient
	remaining int
}

func (p *pollingGlueClient) GetJobRun(ctx context.Context, params *glue.GetJobRunInput, optFns ...func(*glue.Options)) (*glue.GetJobRunOutput, error) {
	state := gluetypes.JobRunStateSucceeded
	if p.remaining > 0 {
		p.remaining--
		state = gluetypes.JobRunStateRunning
	}
	return &glue.GetJobRunOutput{JobRun: &gluetypes.JobRun{JobRunState: state}}, nil
}

func TestRunnerWait_PollsToCompletion(t *testing.T) {
	client := &pollingGlueClient{remaining: 2}
	r := NewRunner(WithGlueClient(client))

	job := StartedJob{
		Engine: types.EngineGlue,
		Metadata: map[string]string{
			"glue_job_name":   "finmart-transform",
			"glue_job_run_id": "jr_123",
		},
	}

	result, err := r.Wait(context.Background(), job, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, result.State)
	assert.Zero(t, client.remaining)
}

func TestRunnerWait_ContextCancelled(t *testing.T) {
	client := &pollingGlueClient{remaining: 1 << 30}
	r := NewRunner(WithGlueClient(client))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	job := StartedJob{
		Engine: types.EngineGlue,
		Metadata: map[string]string{
			"glue_job_name":   "finmart-transform",
			"glue_job_run_id": "jr_123",
		},
	}

	_, err := r.Wait(ctx, job, 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
