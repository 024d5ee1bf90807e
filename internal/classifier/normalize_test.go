package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord_NumericLeaves(t *testing.T) {
	record, err := DecodeRecord([]byte(`{
		"transaction_id": "tx-1",
		"amount": 19.999999,
		"retries": 3,
		"ratio": 1e-3,
		"big": 92233720368547758080,
		"active": true,
		"note": null
	}`))
	require.NoError(t, err)

	assert.Equal(t, "tx-1", record["transaction_id"])
	assert.Equal(t, int64(3), record["retries"])
	assert.Equal(t, true, record["active"])
	assert.Nil(t, record["note"])

	amount, ok := record["amount"].(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "19.999999", amount.String())

	ratio, ok := record["ratio"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, ratio.Equal(decimal.RequireFromString("0.001")))

	big, ok := record["big"].(decimal.Decimal)
	require.True(t, ok, "integer wider than int64 still decodes exactly")
	assert.Equal(t, "92233720368547758080", big.String())
}

func TestDecodeRecord_NestedStructures(t *testing.T) {
	record, err := DecodeRecord([]byte(`{
		"transaction_id": "tx-1",
		"metadata": {"fees": [0.25, 1.5], "attempt": 2},
		"tags": ["a", "b"]
	}`))
	require.NoError(t, err)

	meta := record["metadata"].(map[string]any)
	assert.Equal(t, int64(2), meta["attempt"])

	fees := meta["fees"].([]any)
	require.Len(t, fees, 2)
	assert.Equal(t, "0.25", fees[0].(decimal.Decimal).String())
	assert.Equal(t, "1.5", fees[1].(decimal.Decimal).String())

	tags := record["tags"].([]any)
	assert.Equal(t, []any{"a", "b"}, tags)
}

func TestDecodeRecord_NotAnObject(t *testing.T) {
	_, err := DecodeRecord([]byte(`[1, 2, 3]`))
	assert.Error(t, err)
}
