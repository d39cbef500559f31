package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions. Structural mutations that
// touch more than one row (folder moves, cascading deletes, version commits)
// must run inside ExecTx so they apply as one atomic unit.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
