package relational

import (
	"context"
	"fmt"

	"github.com/finmart-data/finmart/internal/seed"
)

// SeedReport counts the rows inserted by one Seed call.
type SeedReport struct {
	Customers    int
	Accounts     int
	Transactions int
}

// Seed populates the raw tables with generated data: customers first, then
// accounts against the customer keys actually assigned, then transactions
// against the assigned account keys. Referential integrity holds at every
// commit point.
func (s *Store) Seed(ctx context.Context, gen *seed.Generator, customers, accountsPer, transactionsPer int) (*SeedReport, error) {
	report := &SeedReport{}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	customerIDs := make([]int64, 0, customers)
	for range customers {
		c := gen.Customer()
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO customers (name, email, phone, address)
			VALUES ($1, $2, $3, $4)
			RETURNING customer_id
		`, c.Name, c.Email, c.Phone, c.Address).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("inserting customer: %w", err)
		}
		customerIDs = append(customerIDs, id)
		report.Customers++
	}

	accountIDs := make([]int64, 0, customers*accountsPer)
	for _, customerID := range customerIDs {
		for range accountsPer {
			a := gen.Account(customerID)
			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO accounts (customer_id, account_type, balance, opened_at)
				VALUES ($1, $2, $3, $4)
				RETURNING account_id
			`, a.CustomerID, a.AccountType, a.Balance, a.OpenedAt).Scan(&id)
			if err != nil {
				return nil, fmt.Errorf("inserting account: %w", err)
			}
			accountIDs = append(accountIDs, id)
			report.Accounts++
		}
	}

	for _, accountID := range accountIDs {
		for range transactionsPer {
			t := gen.Transaction(accountID)
			_, err := tx.Exec(ctx, `
				INSERT INTO transactions (account_id, transaction_type, amount, timestamp)
				VALUES ($1, $2, $3, $4)
			`, t.AccountID, t.TransactionType, t.Amount, t.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("inserting transaction: %w", err)
			}
			report.Transactions++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return report, nil
}
