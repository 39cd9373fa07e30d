package repositories

import "context"

// TxFn is the unit of work run by ExecTx
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically. Repository calls made
// with the ctx handed to fn join the transaction; fn returning an error rolls
// everything back.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
