// Package relational is the Postgres store for the raw banking tables:
// customers, accounts, and transactions.
package relational

const schemaDDL = `
CREATE TABLE IF NOT EXISTS customers (
    customer_id  BIGSERIAL PRIMARY KEY,
    name         TEXT NOT NULL,
    email        TEXT NOT NULL,
    phone        VARCHAR(20) NOT NULL,
    address      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accounts (
    account_id   BIGSERIAL PRIMARY KEY,
    customer_id  BIGINT NOT NULL REFERENCES customers (customer_id),
    account_type TEXT NOT NULL,
    balance      NUMERIC(12,2) NOT NULL,
    opened_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_accounts_customer ON accounts (customer_id);

CREATE TABLE IF NOT EXISTS transactions (
    transaction_id   BIGSERIAL PRIMARY KEY,
    account_id       BIGINT NOT NULL REFERENCES accounts (account_id),
    transaction_type TEXT NOT NULL,
    amount           NUMERIC(12,2) NOT NULL CHECK (amount > 0),
    timestamp        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id);
`
