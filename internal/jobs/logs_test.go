package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finmart-data/finmart/pkg/types"
)

type mockLogsClient struct {
	pages  []*cloudwatchlogs.FilterLogEventsOutput
	err    error
	inputs []*cloudwatchlogs.FilterLogEventsInput
}

func (m *mockLogsClient) FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	out := m.pages[0]
	m.pages = m.pages[1:]
	return out, nil
}

func glueJob() StartedJob {
	return StartedJob{
		Engine: types.EngineGlue,
		Metadata: map[string]string{
			"glue_job_name":   "finmart-transform",
			"glue_job_run_id": "jr_123",
		},
	}
}

func TestFetchLogs(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	client := &mockLogsClient{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{
			{
				Events: []logstypes.FilteredLogEvent{
					{Timestamp: aws.Int64(ts.UnixMilli()), Message: aws.String("transform starting")},
				},
				NextToken: aws.String("page2"),
			},
			{
				Events: []logstypes.FilteredLogEvent{
					{Timestamp: aws.Int64(ts.Add(time.Minute).UnixMilli()), Message: aws.String("transform complete")},
				},
			},
		},
	}

	r := NewRunner(WithLogsClient(client))
	events, err := r.FetchLogs(context.Background(), types.JobConfig{}, glueJob(), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "transform starting", events[0].Message)
	assert.Equal(t, ts, events[0].Timestamp)
	assert.Equal(t, "transform complete", events[1].Message)

	require.Len(t, client.inputs, 2)
	assert.Equal(t, "/aws-glue/jobs/output", *client.inputs[0].LogGroupName)
	assert.Equal(t, "jr_123", *client.inputs[0].LogStreamNamePrefix)
	assert.Equal(t, "page2", *client.inputs[1].NextToken)
}

func TestFetchLogs_LimitStopsPagination(t *testing.T) {
	client := &mockLogsClient{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{
			{
				Events: []logstypes.FilteredLogEvent{
					{Message: aws.String("one")},
					{Message: aws.String("two")},
				},
				NextToken: aws.String("more"),
			},
		},
	}

	r := NewRunner(WithLogsClient(client))
	events, err := r.FetchLogs(context.Background(), types.JobConfig{}, glueJob(), 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Len(t, client.inputs, 1)
}

func TestFetchLogs_ConfiguredLogGroup(t *testing.T) {
	client := &mockLogsClient{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{{}},
	}

	cfg := types.JobConfig{LogGroup: "/custom/finmart"}
	r := NewRunner(WithLogsClient(client))
	_, err := r.FetchLogs(context.Background(), cfg, glueJob(), 0)
	require.NoError(t, err)
	assert.Equal(t, "/custom/finmart", *client.inputs[0].LogGroupName)
}

func TestFetchLogs_EMRServerlessGroup(t *testing.T) {
	client := &mockLogsClient{
		pages: []*cloudwatchlogs.FilterLogEventsOutput{{}},
	}

	job := StartedJob{
		Engine: types.EngineEMRServerless,
		Metadata: map[string]string{
			"emr_sl_application_id": "00f5kfvvn0a001",
			"emr_sl_job_run_id":     "00f8k2mhbq0001",
		},
	}

	r := NewRunner(WithLogsClient(client))
	_, err := r.FetchLogs(context.Background(), types.JobConfig{}, job, 0)
	require.NoError(t, err)
	assert.Equal(t, "/aws/emr-serverless/applications/00f5kfvvn0a001", *client.inputs[0].LogGroupName)
	assert.Equal(t, "00f8k2mhbq0001", *client.inputs[0].LogStreamNamePrefix)
}

func TestFetchLogs_NoConventionForEMR(t *testing.T) {
	job := StartedJob{
		Engine:   types.EngineEMR,
		Metadata: map[string]string{"emr_cluster_id": "j-ABCDEF", "emr_step_id": "s-1"},
	}

	r := NewRunner(WithLogsClient(&mockLogsClient{}))
	_, err := r.FetchLogs(context.Background(), types.JobConfig{}, job, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "job.logGroup")
}

func TestFetchLogs_MissingRunID(t *testing.T) {
	job := StartedJob{Engine: types.EngineGlue, Metadata: map[string]string{}}

	r := NewRunner(WithLogsClient(&mockLogsClient{}))
	_, err := r.FetchLogs(context.Background(), types.JobConfig{}, job, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing run id")
}
