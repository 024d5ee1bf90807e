// Package warehouse builds the dimensional star schema from raw transactional
// data and the transaction event feed.
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/finmart-data/finmart/pkg/types"
)

// ErrSchemaViolation is returned when the event feed does not conform to the
// declared event schema. It aborts the entire transform run.
var ErrSchemaViolation = errors.New("event schema violation")

// ErrOrphanTransaction is returned under the fail join policy when a
// transaction references an account that does not exist.
var ErrOrphanTransaction = errors.New("transaction references unknown account")

// Source supplies the raw relational tables, read-only.
type Source interface {
	Customers(ctx context.Context) ([]types.Customer, error)
	Accounts(ctx context.Context) ([]types.Account, error)
	Transactions(ctx context.Context) ([]types.Transaction, error)
}

// EventSource supplies the semi-structured transaction event feed. Readers
// must validate each record against the declared schema and fail the read on
// any mismatch.
type EventSource interface {
	Events(ctx context.Context) ([]types.TransactionEvent, error)
}

// Sink receives the analytic datasets. Each Write fully replaces the named
// dataset; there are no append or upsert semantics.
type Sink interface {
	WriteDimCustomers(ctx context.Context, rows []types.DimCustomer) error
	WriteDimAccounts(ctx context.Context, rows []types.DimAccount) error
	WriteDimDates(ctx context.Context, rows []types.DimDate) error
	WriteFactTransactions(ctx context.Context, rows []types.FactTransaction) error
	WriteQuarantine(ctx context.Context, rows []types.Transaction) error
}

// RawEvent mirrors TransactionEvent with pointer fields so that missing keys
// are distinguishable from zero values during schema validation.
type RawEvent struct {
	TransactionID *int64  `json:"transaction_id" bson:"transaction_id"`
	DeviceType    *string `json:"device_type" bson:"device_type"`
	IPAddress     *string `json:"ip_address" bson:"ip_address"`
	Geolocation   *struct {
		Country *string `json:"country" bson:"country"`
		City    *string `json:"city" bson:"city"`
	} `json:"geolocation" bson:"geolocation"`
	FraudScore *float64 `json:"fraud_score" bson:"fraud_score"`
}

// Validate checks the declared event schema and returns the typed event.
func (r RawEvent) Validate() (types.TransactionEvent, error) {
	var ev types.TransactionEvent
	switch {
	case r.TransactionID == nil:
		return ev, fmt.Errorf("%w: missing transaction_id", ErrSchemaViolation)
	case r.DeviceType == nil:
		return ev, fmt.Errorf("%w: missing device_type (transaction %d)", ErrSchemaViolation, *r.TransactionID)
	case r.IPAddress == nil:
		return ev, fmt.Errorf("%w: missing ip_address (transaction %d)", ErrSchemaViolation, *r.TransactionID)
	case r.Geolocation == nil || r.Geolocation.Country == nil || r.Geolocation.City == nil:
		return ev, fmt.Errorf("%w: incomplete geolocation (transaction %d)", ErrSchemaViolation, *r.TransactionID)
	case r.FraudScore == nil:
		return ev, fmt.Errorf("%w: missing fraud_score (transaction %d)", ErrSchemaViolation, *r.TransactionID)
	case *r.FraudScore < 0 || *r.FraudScore > 1:
		return ev, fmt.Errorf("%w: fraud_score %v out of range [0,1] (transaction %d)",
			ErrSchemaViolation, *r.FraudScore, *r.TransactionID)
	}
	ev = types.TransactionEvent{
		TransactionID: *r.TransactionID,
		DeviceType:    *r.DeviceType,
		IPAddress:     *r.IPAddress,
		FraudScore:    *r.FraudScore,
	}
	ev.Geolocation.Country = *r.Geolocation.Country
	ev.Geolocation.City = *r.Geolocation.City
	return ev, nil
}
