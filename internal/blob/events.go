package blob

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/finmart-data/finmart/internal/metrics"
	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// ByteSource is satisfied by S3Store and LocalStore.
type ByteSource interface {
	ReadAll(ctx context.Context) ([]byte, error)
}

// Compile-time interface satisfaction check.
var _ warehouse.EventSource = (*EventReader)(nil)

// EventReader reads a JSON Lines transaction event feed and enforces the
// declared event schema. Any record that does not match fails the whole read.
type EventReader struct {
	source ByteSource
}

// NewEventReader creates a reader over the given byte source.
func NewEventReader(source ByteSource) *EventReader {
	return &EventReader{source: source}
}

// Events reads and validates every event in the feed.
func (r *EventReader) Events(ctx context.Context) ([]types.TransactionEvent, error) {
	data, err := r.source.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var events []types.TransactionEvent
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var raw warehouse.RawEvent
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			metrics.EventSchemaViolations.Add(1)
			return nil, fmt.Errorf("%w: line %d: %v", warehouse.ErrSchemaViolation, line, err)
		}
		ev, err := raw.Validate()
		if err != nil {
			metrics.EventSchemaViolations.Add(1)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event feed: %w", err)
	}
	return events, nil
}
