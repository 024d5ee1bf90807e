package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a raw customer row. One row per customer, immutable for the
// purposes of this pipeline.
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Account is a raw account row. CustomerID must reference an existing Customer.
type Account struct {
	AccountID   int64           `json:"account_id"`
	CustomerID  int64           `json:"customer_id"`
	AccountType AccountType     `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
	OpenedAt    time.Time       `json:"opened_at"`
}

// Transaction is a raw transaction row. AccountID must reference an existing
// Account; Amount is positive.
type Transaction struct {
	TransactionID   int64           `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Geolocation is the nested location block of a transaction event.
type Geolocation struct {
	Country string `json:"country" bson:"country"`
	City    string `json:"city" bson:"city"`
}

// TransactionEvent is per-transaction device and fraud metadata from the
// event feed. Events are optional enrichment: a transaction may have no event.
type TransactionEvent struct {
	TransactionID int64       `json:"transaction_id" bson:"transaction_id"`
	DeviceType    string      `json:"device_type" bson:"device_type"`
	IPAddress     string      `json:"ip_address" bson:"ip_address"`
	Geolocation   Geolocation `json:"geolocation" bson:"geolocation"`
	FraudScore    float64     `json:"fraud_score" bson:"fraud_score"`
}

// DimCustomer is a customer dimension row.
type DimCustomer struct {
	CustomerKey int64  `json:"customer_key"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// DimAccount is an account dimension row. CustomerKey carries the foreign
// customer reference through to fact rows.
type DimAccount struct {
	AccountKey  int64           `json:"account_key"`
	CustomerKey int64           `json:"customer_key"`
	AccountType AccountType     `json:"account_type"`
	OpenedAt    time.Time       `json:"opened_at"`
	Balance     decimal.Decimal `json:"balance"`
}

// DimDate is a date dimension row: exactly one per distinct calendar date
// appearing in transaction timestamps. DateKey is the integer form YYYYMMDD
// and uniquely determines the calendar date.
type DimDate struct {
	Date    string `json:"date"` // YYYY-MM-DD
	DateKey int    `json:"date_key"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
}

// FactTransaction is one fact row per surviving raw transaction. DeviceType
// and FraudScore are nil when no matching event exists.
type FactTransaction struct {
	TransactionID   int64           `json:"transaction_id"`
	DateKey         int             `json:"date_key"`
	AccountKey      int64           `json:"account_key"`
	CustomerKey     int64           `json:"customer_key"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
	DeviceType      *string         `json:"device_type"`
	FraudScore      *float64        `json:"fraud_score"`
}
