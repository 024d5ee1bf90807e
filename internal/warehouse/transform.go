package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/finmart-data/finmart/internal/metrics"
	"github.com/finmart-data/finmart/pkg/types"
)

// Transformer runs the dimensional transform: three dimensions plus the fact
// table, fully replacing the outputs on every run.
type Transformer struct {
	source Source
	events EventSource
	sink   Sink
	policy types.JoinPolicy
	logger *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithJoinPolicy sets the orphaned-transaction policy (default: drop).
func WithJoinPolicy(p types.JoinPolicy) Option {
	return func(t *Transformer) { t.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// New creates a Transformer.
func New(source Source, events EventSource, sink Sink, opts ...Option) *Transformer {
	t := &Transformer{
		source: source,
		events: events,
		sink:   sink,
		policy: types.JoinDrop,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Report summarizes a completed transform run.
type Report struct {
	RunID              string        `json:"runId"`
	DimCustomers       int           `json:"dimCustomers"`
	DimAccounts        int           `json:"dimAccounts"`
	DimDates           int           `json:"dimDates"`
	FactTransactions   int           `json:"factTransactions"`
	OrphansDropped     int           `json:"orphansDropped"`
	OrphansQuarantined int           `json:"orphansQuarantined"`
	Duration           time.Duration `json:"duration"`
}

// Run executes one full transform. A failure anywhere aborts the run; outputs
// are only consistent as a set after Run returns nil.
func (t *Transformer) Run(ctx context.Context) (*Report, error) {
	runID := ulid.Make().String()
	start := time.Now()
	logger := t.logger.With("runId", runID)
	logger.Info("transform starting", "joinPolicy", string(t.policy))

	customers, err := t.source.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading customers: %w", err)
	}
	accounts, err := t.source.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	transactions, err := t.source.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	events, err := t.events.Events(ctx)
	if err != nil {
		// Includes schema violations: fatal for the whole run.
		return nil, fmt.Errorf("reading events: %w", err)
	}
	logger.Info("raw data loaded",
		"customers", len(customers),
		"accounts", len(accounts),
		"transactions", len(transactions),
		"events", len(events))

	// Dimensions share no intermediate state and run concurrently.
	dimCustomers := BuildDimCustomers(customers)
	dimAccounts := BuildDimAccounts(accounts)
	dimDates := BuildDimDates(transactions)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return t.sink.WriteDimCustomers(gctx, dimCustomers) })
	g.Go(func() error { return t.sink.WriteDimAccounts(gctx, dimAccounts) })
	g.Go(func() error { return t.sink.WriteDimDates(gctx, dimDates) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("writing dimensions: %w", err)
	}

	facts, orphans, err := BuildFacts(transactions, accounts, events, t.policy)
	if err != nil {
		return nil, err
	}
	if err := t.sink.WriteFactTransactions(ctx, facts); err != nil {
		return nil, fmt.Errorf("writing facts: %w", err)
	}

	report := &Report{
		RunID:            runID,
		DimCustomers:     len(dimCustomers),
		DimAccounts:      len(dimAccounts),
		DimDates:         len(dimDates),
		FactTransactions: len(facts),
	}
	switch t.policy {
	case types.JoinQuarantine:
		if err := t.sink.WriteQuarantine(ctx, orphans); err != nil {
			return nil, fmt.Errorf("writing quarantine: %w", err)
		}
		report.OrphansQuarantined = len(orphans)
		metrics.OrphansQuarantined.Add(int64(len(orphans)))
	default:
		report.OrphansDropped = len(orphans)
		metrics.OrphansDropped.Add(int64(len(orphans)))
	}
	for _, orphan := range orphans {
		logger.Warn("orphaned transaction",
			"transactionId", orphan.TransactionID,
			"accountId", orphan.AccountID,
			"policy", string(t.policy))
	}

	metrics.TransformRuns.Add(1)
	report.Duration = time.Since(start)
	logger.Info("transform complete",
		"facts", report.FactTransactions,
		"orphans", len(orphans),
		"duration", report.Duration)
	return report, nil
}

// BuildDimCustomers projects customers onto the customer dimension.
func BuildDimCustomers(customers []types.Customer) []types.DimCustomer {
	rows := make([]types.DimCustomer, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, types.DimCustomer{
			CustomerKey: c.CustomerID,
			Name:        c.Name,
			Email:       c.Email,
			Address:     c.Address,
			Phone:       c.Phone,
		})
	}
	return rows
}

// BuildDimAccounts projects accounts onto the account dimension.
func BuildDimAccounts(accounts []types.Account) []types.DimAccount {
	rows := make([]types.DimAccount, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, types.DimAccount{
			AccountKey:  a.AccountID,
			CustomerKey: a.CustomerID,
			AccountType: a.AccountType,
			OpenedAt:    a.OpenedAt,
			Balance:     a.Balance,
		})
	}
	return rows
}

// DateKey converts a timestamp to the integer date key YYYYMMDD, using the
// date portion only.
func DateKey(ts time.Time) int {
	y, m, d := ts.Date()
	return y*10000 + int(m)*100 + d
}

// BuildDimDates derives one row per distinct calendar date present in the
// transaction timestamps, sorted by date key.
func BuildDimDates(transactions []types.Transaction) []types.DimDate {
	seen := make(map[int]types.DimDate)
	for _, tx := range transactions {
		key := DateKey(tx.Timestamp)
		if _, ok := seen[key]; ok {
			continue
		}
		y, m, d := tx.Timestamp.Date()
		seen[key] = types.DimDate{
			Date:    fmt.Sprintf("%04d-%02d-%02d", y, int(m), d),
			DateKey: key,
			Year:    y,
			Month:   int(m),
			Day:     d,
		}
	}
	rows := make([]types.DimDate, 0, len(seen))
	for _, row := range seen {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DateKey < rows[j].DateKey })
	return rows
}

// BuildFacts joins transactions to accounts (inner, on account key) and to
// events (left outer, on transaction id). The date key comes from the
// transaction's own timestamp. Orphaned transactions are handled per policy:
// under JoinFail the first orphan aborts; otherwise orphans are returned to
// the caller for dropping or quarantining.
func BuildFacts(
	transactions []types.Transaction,
	accounts []types.Account,
	events []types.TransactionEvent,
	policy types.JoinPolicy,
) (facts []types.FactTransaction, orphans []types.Transaction, err error) {
	accountsByID := make(map[int64]types.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.AccountID] = a
	}
	eventsByTransaction := make(map[int64]types.TransactionEvent, len(events))
	for _, ev := range events {
		eventsByTransaction[ev.TransactionID] = ev
	}

	facts = make([]types.FactTransaction, 0, len(transactions))
	for _, tx := range transactions {
		account, ok := accountsByID[tx.AccountID]
		if !ok {
			if policy == types.JoinFail {
				return nil, nil, fmt.Errorf("%w: transaction %d, account %d",
					ErrOrphanTransaction, tx.TransactionID, tx.AccountID)
			}
			orphans = append(orphans, tx)
			continue
		}

		fact := types.FactTransaction{
			TransactionID:   tx.TransactionID,
			DateKey:         DateKey(tx.Timestamp),
			AccountKey:      account.AccountID,
			CustomerKey:     account.CustomerID,
			Amount:          tx.Amount,
			TransactionType: tx.TransactionType,
		}
		if ev, ok := eventsByTransaction[tx.TransactionID]; ok {
			device := ev.DeviceType
			score := ev.FraudScore
			fact.DeviceType = &device
			fact.FraudScore = &score
		}
		facts = append(facts, fact)
	}
	return facts, orphans, nil
}
