package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/finmart-data/finmart/pkg/types"
)

// LogsAPI is the subset of the AWS CloudWatch Logs client used by this
// package.
type LogsAPI interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// LogEvent is a single log line emitted by a managed job run.
type LogEvent struct {
	Timestamp time.Time
	Message   string
}

// logGroupFor returns the CloudWatch log group for a started job. The
// configured LogGroup wins; otherwise each engine has a conventional group.
func logGroupFor(cfg types.JobConfig, job StartedJob) (string, error) {
	if cfg.LogGroup != "" {
		return cfg.LogGroup, nil
	}
	switch job.Engine {
	case types.EngineGlue:
		return "/aws-glue/jobs/output", nil
	case types.EngineEMRServerless:
		appID := job.Metadata["emr_sl_application_id"]
		if appID == "" {
			return "", fmt.Errorf("job logs: missing application id in job metadata")
		}
		return fmt.Sprintf("/aws/emr-serverless/applications/%s", appID), nil
	default:
		return "", fmt.Errorf("job logs: no log group convention for engine %q, set job.logGroup", job.Engine)
	}
}

// FetchLogs returns the log events a managed job run has written so far. The
// run id from the job metadata selects the log streams, so only output from
// this run is returned.
func (r *Runner) FetchLogs(ctx context.Context, cfg types.JobConfig, job StartedJob, limit int32) ([]LogEvent, error) {
	group, err := logGroupFor(cfg, job)
	if err != nil {
		return nil, err
	}

	runID := job.Metadata["glue_job_run_id"]
	if runID == "" {
		runID = job.Metadata["emr_sl_job_run_id"]
	}
	if runID == "" {
		runID = job.Metadata["emr_step_id"]
	}
	if runID == "" {
		return nil, fmt.Errorf("job logs: missing run id in job metadata")
	}

	client, err := r.getLogsClient()
	if err != nil {
		return nil, fmt.Errorf("job logs: getting client: %w", err)
	}

	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:        &group,
		LogStreamNamePrefix: &runID,
	}
	if limit > 0 {
		input.Limit = &limit
	}

	var events []LogEvent
	for {
		out, err := client.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("job logs: FilterLogEvents failed: %w", err)
		}
		for _, ev := range out.Events {
			e := LogEvent{}
			if ev.Timestamp != nil {
				e.Timestamp = time.UnixMilli(*ev.Timestamp).UTC()
			}
			if ev.Message != nil {
				e.Message = *ev.Message
			}
			events = append(events, e)
		}
		if limit > 0 && len(events) >= int(limit) {
			events = events[:limit]
			break
		}
		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}
	return events, nil
}
