package classifier

import (
	"context"
	"fmt"

	"github.com/finmart-data/finmart/internal/metrics"
)

// Message is one queued message to process.
type Message struct {
	MessageID string
	Body      string
}

// Result is the outcome of processing one message.
type Result struct {
	MessageID     string
	TransactionID string
	Err           error
}

// Summary aggregates a batch's per-message results.
type Summary struct {
	Processed int
	Failed    int
	Results   []Result
}

// Status is the invocation-level summary line. The invocation reports success
// whenever every message has been attempted, regardless of per-message
// failures; redelivery of failed messages is the transport's concern.
func (s Summary) Status() string {
	return fmt.Sprintf("processed %d of %d records", s.Processed, s.Processed+s.Failed)
}

// ProcessBatch processes each message in isolation: a failure on one message
// is logged and recorded, and the batch continues with the next. It never
// returns an error.
func (c *Classifier) ProcessBatch(ctx context.Context, messages []Message) Summary {
	summary := Summary{Results: make([]Result, 0, len(messages))}
	for _, msg := range messages {
		id, err := c.ProcessMessage(ctx, []byte(msg.Body))
		result := Result{MessageID: msg.MessageID, TransactionID: id, Err: err}
		summary.Results = append(summary.Results, result)

		if err != nil {
			summary.Failed++
			metrics.RecordFailures.Add(1)
			c.logger.Error("record processing failed",
				"messageId", msg.MessageID,
				"transactionId", id,
				"error", err)
			continue
		}
		summary.Processed++
		metrics.RecordsProcessed.Add(1)
		c.logger.Info("record stored", "transactionId", id)
	}
	return summary
}
