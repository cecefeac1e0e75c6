package postgres

import (
	"context"
	"database/sql"

	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// TxRunner is a PostgreSQL implementation of repository.TxRunner. Every
// repository handed to fn shares one *sql.Tx, so writes across them commit or
// roll back together.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a new TxRunner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx executes fn within a single database transaction.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.TxRepos{
		Orders:       NewOrderRepositoryWithTx(tx),
		Timeline:     NewTimelineRepositoryWithTx(tx),
		Wallets:      NewWalletRepositoryWithTx(tx),
		Transactions: NewTransactionRepositoryWithTx(tx),
		Riders:       NewRiderRepositoryWithTx(tx),
		Activity:     NewActivityRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
