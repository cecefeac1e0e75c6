package repository

import "context"

// TxRepos bundles transaction-scoped repositories. Every repository in the
// bundle operates on the same database transaction, so writes across them
// commit or roll back as one atomic unit.
type TxRepos struct {
	Orders       OrderRepository
	Timeline     TimelineRepository
	Wallets      WalletRepository
	Transactions TransactionRepository
	Riders       RiderRepository
	Activity     ActivityRepository
}

// TxRunner executes a function within a single database transaction. The
// transaction commits if fn returns nil and rolls back otherwise.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(r TxRepos) error) error
}
