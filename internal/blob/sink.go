package blob

import (
	"context"
	"fmt"

	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// DatasetWriter is satisfied by S3Store and LocalStore.
type DatasetWriter interface {
	WriteDataset(ctx context.Context, dataset string, data []byte) error
}

// Compile-time interface satisfaction check.
var _ warehouse.Sink = (*WarehouseSink)(nil)

// WarehouseSink adapts a DatasetWriter into the warehouse sink: each dataset
// is rendered as JSON Lines and fully overwritten.
type WarehouseSink struct {
	writer DatasetWriter
}

// NewWarehouseSink creates a sink over the given writer.
func NewWarehouseSink(w DatasetWriter) *WarehouseSink {
	return &WarehouseSink{writer: w}
}

func (s *WarehouseSink) WriteDimCustomers(ctx context.Context, rows []types.DimCustomer) error {
	return writeRows(ctx, s.writer, types.DatasetDimCustomers, rows)
}

func (s *WarehouseSink) WriteDimAccounts(ctx context.Context, rows []types.DimAccount) error {
	return writeRows(ctx, s.writer, types.DatasetDimAccounts, rows)
}

func (s *WarehouseSink) WriteDimDates(ctx context.Context, rows []types.DimDate) error {
	return writeRows(ctx, s.writer, types.DatasetDimDates, rows)
}

func (s *WarehouseSink) WriteFactTransactions(ctx context.Context, rows []types.FactTransaction) error {
	return writeRows(ctx, s.writer, types.DatasetFactTransactions, rows)
}

func (s *WarehouseSink) WriteQuarantine(ctx context.Context, rows []types.Transaction) error {
	return writeRows(ctx, s.writer, types.DatasetQuarantine, rows)
}

func writeRows[T any](ctx context.Context, w DatasetWriter, dataset string, rows []T) error {
	data, err := jsonLines(rows)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", dataset, err)
	}
	return w.WriteDataset(ctx, dataset, data)
}
