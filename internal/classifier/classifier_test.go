package classifier

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	records map[string]map[string]any
	err     error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]map[string]any)}
}

func (m *memStore) Put(_ context.Context, record map[string]any) error {
	if m.err != nil {
		return m.err
	}
	m.records[record["transaction_id"].(string)] = record
	return nil
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"10000.01", "high_value"},
		{"15000", "high_value"},
		{"10000.00", "medium_value"},
		{"10000", "medium_value"},
		{"500.01", "medium_value"},
		{"500.00", "standard_value"},
		{"500", "standard_value"},
		{"0", "standard_value"},
		{"19.999999", "standard_value"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := Categorize(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestProcessMessage(t *testing.T) {
	store := newMemStore()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := New(store, WithClock(func() time.Time { return now }))

	id, err := c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","user_id":"user_42","amount":12500.75,"merchant":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", id)

	record := store.records["tx-1"]
	require.NotNil(t, record)
	assert.Equal(t, "high_value", record["transaction_category"])
	assert.Equal(t, "2025-06-15T12:00:00Z", record["processed_at_utc"])
	assert.Equal(t, "user_42", record["user_id"])

	amount, ok := record["amount"].(decimal.Decimal)
	require.True(t, ok, "fractional amount should be an exact decimal")
	assert.Equal(t, "12500.75", amount.String())
}

func TestProcessMessage_DecimalFidelity(t *testing.T) {
	store := newMemStore()
	c := New(store)

	_, err := c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","amount":19.999999}`))
	require.NoError(t, err)

	amount := store.records["tx-1"]["amount"].(decimal.Decimal)
	assert.Equal(t, "19.999999", amount.String(), "amount keeps every digit from the message text")
}

func TestProcessMessage_MissingTransactionID(t *testing.T) {
	c := New(newMemStore())

	_, err := c.ProcessMessage(context.Background(), []byte(`{"amount":100}`))
	assert.ErrorIs(t, err, ErrMissingTransactionID)

	_, err = c.ProcessMessage(context.Background(), []byte(`{"transaction_id":42,"amount":100}`))
	assert.ErrorIs(t, err, ErrMissingTransactionID, "non-string transaction_id is unusable as a key")
}

func TestProcessMessage_MissingAmountDefaultsToStandard(t *testing.T) {
	store := newMemStore()
	c := New(store)

	id, err := c.ProcessMessage(context.Background(), []byte(`{"transaction_id":"tx-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", id)
	assert.Equal(t, "standard_value", store.records["tx-1"]["transaction_category"])
}

func TestProcessMessage_MissingAmountRequired(t *testing.T) {
	store := newMemStore()
	c := New(store, WithRequireAmount(true))

	_, err := c.ProcessMessage(context.Background(), []byte(`{"transaction_id":"tx-1"}`))
	assert.ErrorIs(t, err, ErrMissingAmount)
	assert.Empty(t, store.records)
}

func TestProcessMessage_NonNumericAmount(t *testing.T) {
	c := New(newMemStore())

	_, err := c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","amount":"lots"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric")
}

func TestProcessMessage_InvalidJSON(t *testing.T) {
	c := New(newMemStore())

	_, err := c.ProcessMessage(context.Background(), []byte(`{broken`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding message body")
}

func TestProcessMessage_StoreError(t *testing.T) {
	store := newMemStore()
	store.err = assert.AnError
	c := New(store)

	_, err := c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","amount":100}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing record tx-1")
}

func TestProcessMessage_IdempotentUpsert(t *testing.T) {
	store := newMemStore()
	c := New(store)

	_, err := c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","amount":100,"merchant":"First"}`))
	require.NoError(t, err)
	_, err = c.ProcessMessage(context.Background(),
		[]byte(`{"transaction_id":"tx-1","amount":20000,"merchant":"Second"}`))
	require.NoError(t, err)

	require.Len(t, store.records, 1, "redelivery overwrites rather than duplicates")
	record := store.records["tx-1"]
	assert.Equal(t, "Second", record["merchant"])
	assert.Equal(t, "high_value", record["transaction_category"])
}
