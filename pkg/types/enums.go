// Package types defines the public domain types for the finmart data mart toolkit.
package types

// AccountType enumerates the supported account kinds in the raw banking data.
type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountChecking AccountType = "checking"
)

// TransactionType enumerates the supported raw transaction kinds.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
)

// TransactionCategory is the value-band label assigned by the stream classifier.
type TransactionCategory string

const (
	CategoryHighValue     TransactionCategory = "high_value"
	CategoryMediumValue   TransactionCategory = "medium_value"
	CategoryStandardValue TransactionCategory = "standard_value"
)

// JoinPolicy controls what happens to transactions whose account key has no
// matching account during fact construction.
type JoinPolicy string

const (
	// JoinFail aborts the transform run on the first orphaned transaction.
	JoinFail JoinPolicy = "fail"
	// JoinDrop drops orphaned transactions, counting and logging each one.
	JoinDrop JoinPolicy = "drop"
	// JoinQuarantine writes orphaned transactions to a quarantine dataset.
	JoinQuarantine JoinPolicy = "quarantine"
)

// Valid reports whether p is a recognized join policy.
func (p JoinPolicy) Valid() bool {
	switch p {
	case JoinFail, JoinDrop, JoinQuarantine:
		return true
	}
	return false
}

// Engine selects where the dimensional transform executes.
type Engine string

const (
	EngineLocal         Engine = "local"
	EngineGlue          Engine = "glue"
	EngineEMR           Engine = "emr"
	EngineEMRServerless Engine = "emr-serverless"
)

// Valid reports whether e is a recognized transform engine.
func (e Engine) Valid() bool {
	switch e {
	case EngineLocal, EngineGlue, EngineEMR, EngineEMRServerless:
		return true
	}
	return false
}

// Dataset names for the analytic outputs. Each transform run fully overwrites
// the dataset it names.
const (
	DatasetDimCustomers     = "dim_customers"
	DatasetDimAccounts      = "dim_accounts"
	DatasetDimDates         = "dim_dates"
	DatasetFactTransactions = "fact_transactions"
	DatasetQuarantine       = "quarantine_transactions"
)
