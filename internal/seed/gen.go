// Package seed generates synthetic raw data for the relational tables and
// the transaction event collection.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finmart-data/finmart/pkg/types"
)

var (
	firstNames = []string{"Ava", "Noah", "Mia", "Liam", "Zoe", "Ethan", "Ella", "Lucas", "Ivy", "Mason",
		"Nora", "Owen", "Ruby", "Felix", "Iris", "Hugo", "Lena", "Oscar", "Tess", "Jonas"}
	lastNames = []string{"Carter", "Nguyen", "Silva", "Haines", "Okafor", "Lindqvist", "Moreau", "Tanaka",
		"Kowalski", "Berg", "Duarte", "Fischer", "Novak", "Rossi", "Ahmed", "Petrov"}
	streets   = []string{"Main St", "Oak Ave", "Elm Rd", "Harbor Blvd", "Cedar Ln", "Station Rd", "Mill Way"}
	cities    = []string{"Stockholm", "Lisbon", "Austin", "Osaka", "Kraków", "Lagos", "Lyon", "Dublin"}
	countries = []string{"Sweden", "Portugal", "United States", "Japan", "Poland", "Nigeria", "France", "Ireland"}
)

// Generator produces random but well-formed domain values. A fixed seed makes
// the output reproducible.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a Generator from the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now().UTC(),
	}
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

// Customer generates a customer without an assigned id.
func (g *Generator) Customer() types.Customer {
	first, last := g.pick(firstNames), g.pick(lastNames)
	return types.Customer{
		Name:    first + " " + last,
		Email:   fmt.Sprintf("%s.%s%d@example.com", first, last, g.rng.Intn(1000)),
		Phone:   fmt.Sprintf("+46%09d", g.rng.Intn(1_000_000_000)),
		Address: fmt.Sprintf("%d %s, %s", 1+g.rng.Intn(990), g.pick(streets), g.pick(cities)),
	}
}

// Account generates an account for the given customer.
func (g *Generator) Account(customerID int64) types.Account {
	accountType := types.AccountSavings
	if g.rng.Intn(2) == 0 {
		accountType = types.AccountChecking
	}
	return types.Account{
		CustomerID:  customerID,
		AccountType: accountType,
		Balance:     g.Amount(0, 10_000),
		OpenedAt:    g.timestampWithin(5 * 365 * 24 * time.Hour),
	}
}

// Transaction generates a transaction against the given account.
func (g *Generator) Transaction(accountID int64) types.Transaction {
	kinds := []types.TransactionType{types.TransactionDeposit, types.TransactionWithdrawal, types.TransactionTransfer}
	return types.Transaction{
		AccountID:       accountID,
		TransactionType: kinds[g.rng.Intn(len(kinds))],
		Amount:          g.Amount(1, 1_000),
		Timestamp:       g.timestampWithin(365 * 24 * time.Hour),
	}
}

// Event generates an event document for the given transaction id.
func (g *Generator) Event(transactionID int64) types.TransactionEvent {
	devices := []string{"mobile_app", "web_browser", "atm"}
	return types.TransactionEvent{
		TransactionID: transactionID,
		DeviceType:    devices[g.rng.Intn(len(devices))],
		IPAddress:     g.IPv4(),
		Geolocation: types.Geolocation{
			Country: g.pick(countries),
			City:    g.pick(cities),
		},
		FraudScore: float64(1+g.rng.Intn(100)) / 100,
	}
}

// Amount generates a 2-decimal-place amount in [lo, hi).
func (g *Generator) Amount(lo, hi int) decimal.Decimal {
	cents := int64(lo*100) + g.rng.Int63n(int64((hi-lo)*100))
	return decimal.New(cents, -2)
}

// IPv4 generates a random dotted-quad address.
func (g *Generator) IPv4() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+g.rng.Intn(223), g.rng.Intn(256), g.rng.Intn(256), 1+g.rng.Intn(254))
}

func (g *Generator) timestampWithin(window time.Duration) time.Time {
	offset := time.Duration(g.rng.Int63n(int64(window)))
	return g.now.Add(-offset).Truncate(time.Second)
}
