package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finmart-data/finmart/pkg/types"
)

// Classification thresholds. Both are exclusive from above: exactly 10000 is
// medium_value and exactly 500 is standard_value.
var (
	highValueFloor   = decimal.NewFromInt(10000)
	mediumValueFloor = decimal.NewFromInt(500)
)

// ErrMissingAmount is returned for a message without an amount field when the
// classifier is configured to require one.
var ErrMissingAmount = errors.New("message has no amount field")

// ErrMissingTransactionID is returned for a message without a usable
// transaction_id; the record store has nothing to key the record by.
var ErrMissingTransactionID = errors.New("message has no transaction_id field")

// RecordStore persists enriched records keyed by transaction_id, overwriting
// any prior record with the same key.
type RecordStore interface {
	Put(ctx context.Context, record map[string]any) error
}

// Classifier enriches and persists one message at a time.
type Classifier struct {
	store         RecordStore
	requireAmount bool
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRequireAmount makes a missing amount a per-record error instead of
// defaulting to zero (and thus standard_value).
func WithRequireAmount(require bool) Option {
	return func(c *Classifier) { c.requireAmount = require }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// WithClock sets the processing-time clock (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier backed by the given record store.
func New(store RecordStore, opts ...Option) *Classifier {
	c := &Classifier{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Categorize assigns the value band for an amount.
func Categorize(amount decimal.Decimal) types.TransactionCategory {
	switch {
	case amount.GreaterThan(highValueFloor):
		return types.CategoryHighValue
	case amount.GreaterThan(mediumValueFloor):
		return types.CategoryMediumValue
	default:
		return types.CategoryStandardValue
	}
}

// ProcessMessage decodes, enriches, and persists a single message body.
// It returns the transaction id of the stored record.
func (c *Classifier) ProcessMessage(ctx context.Context, body []byte) (string, error) {
	record, err := DecodeRecord(body)
	if err != nil {
		return "", err
	}

	id, ok := record["transaction_id"].(string)
	if !ok || id == "" {
		return "", ErrMissingTransactionID
	}

	amount, err := c.amountOf(record)
	if err != nil {
		return id, err
	}

	record["transaction_category"] = string(Categorize(amount))
	record["processed_at_utc"] = c.now().UTC().Format(time.RFC3339)

	if err := c.store.Put(ctx, record); err != nil {
		return id, fmt.Errorf("storing record %s: %w", id, err)
	}
	return id, nil
}

// amountOf extracts the amount from a normalized record. A missing amount
// defaults to zero unless requireAmount is set.
func (c *Classifier) amountOf(record map[string]any) (decimal.Decimal, error) {
	raw, ok := record["amount"]
	if !ok || raw == nil {
		if c.requireAmount {
			return decimal.Zero, ErrMissingAmount
		}
		return decimal.Zero, nil
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Zero, fmt.Errorf("amount has non-numeric type %T", raw)
	}
}
