package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx runs fn in a transaction. The transaction commits if fn returns
	// nil and rolls back otherwise. Nested calls join the outer transaction.
	ExecTx(ctx context.Context, fn TxFn) error
}
