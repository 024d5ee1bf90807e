package relational

import (
	"context"

	"github.com/finmart-data/finmart/internal/warehouse"
	"github.com/finmart-data/finmart/pkg/types"
)

// Compile-time interface satisfaction check.
var _ warehouse.Source = (*Store)(nil)

// Customers reads every customer row.
func (s *Store) Customers(ctx context.Context) ([]types.Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT customer_id, name, email, phone, address
		FROM customers
		ORDER BY customer_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []types.Customer
	for rows.Next() {
		var c types.Customer
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Accounts reads every account row.
func (s *Store) Accounts(ctx context.Context) ([]types.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT account_id, customer_id, account_type, balance, opened_at
		FROM accounts
		ORDER BY account_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []types.Account
	for rows.Next() {
		var a types.Account
		if err := rows.Scan(&a.AccountID, &a.CustomerID, &a.AccountType, &a.Balance, &a.OpenedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Transactions reads every transaction row.
func (s *Store) Transactions(ctx context.Context) ([]types.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT transaction_id, account_id, transaction_type, amount, timestamp
		FROM transactions
		ORDER BY transaction_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []types.Transaction
	for rows.Next() {
		var t types.Transaction
		if err := rows.Scan(&t.TransactionID, &t.AccountID, &t.TransactionType, &t.Amount, &t.Timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
