// classifier Lambda categorizes transaction messages from the stream queue
// and upserts the enriched records into the record store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/finmart-data/finmart/internal/classifier"
	ddbstore "github.com/finmart-data/finmart/internal/store/dynamodb"
)

// Response is the invocation result reported back to the caller.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type deps struct {
	classifier *classifier.Classifier
}

var (
	sharedDeps *deps
	depsOnce   sync.Once
	depsErr    error
)

func initDeps(ctx context.Context) (*deps, error) {
	tableName := os.Getenv("TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("TABLE_NAME environment variable is required")
	}

	store, err := ddbstore.New(ctx, tableName, os.Getenv("AWS_REGION"))
	if err != nil {
		return nil, fmt.Errorf("creating record store: %w", err)
	}

	requireAmount, _ := strconv.ParseBool(os.Getenv("REQUIRE_AMOUNT"))
	c := classifier.New(store,
		classifier.WithRequireAmount(requireAmount),
		classifier.WithLogger(slog.Default()))
	return &deps{classifier: c}, nil
}

func getDeps(ctx context.Context) (*deps, error) {
	depsOnce.Do(func() {
		sharedDeps, depsErr = initDeps(ctx)
	})
	return sharedDeps, depsErr
}

// handleEvent classifies every record in the batch. Per-record failures are
// absorbed into the summary so one bad message never fails the invocation.
func handleEvent(ctx context.Context, d *deps, event events.SQSEvent) (Response, error) {
	messages := make([]classifier.Message, 0, len(event.Records))
	for _, rec := range event.Records {
		messages = append(messages, classifier.Message{
			MessageID: rec.MessageId,
			Body:      rec.Body,
		})
	}

	summary := d.classifier.ProcessBatch(ctx, messages)
	return Response{StatusCode: 200, Body: summary.Status()}, nil
}

func handler(ctx context.Context, event events.SQSEvent) (Response, error) {
	d, err := getDeps(ctx)
	if err != nil {
		return Response{}, err
	}
	return handleEvent(ctx, d, event)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	awslambda.Start(handler)
}
