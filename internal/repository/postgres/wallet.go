package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, currency, balance, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Currency,
		wallet.Balance(),
		time.Now(),
	)
	return err
}

// GetByUserID retrieves the wallet owned by a user.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, currency, balance, updated_at FROM wallets WHERE user_id = $1`
	return r.scan(r.q.QueryRowContext(ctx, query, userID))
}

// GetForUpdate retrieves a wallet holding a row-level exclusive lock. This is
// the serialization point for all balance changes: concurrent transactions on
// the same wallet queue on this lock.
func (r *WalletRepository) GetForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, currency, balance, updated_at FROM wallets WHERE id = $1 FOR UPDATE`
	return r.scan(r.q.QueryRowContext(ctx, query, walletID))
}

// Save persists the wallet's balance and updated-at.
func (r *WalletRepository) Save(ctx context.Context, wallet *domain.Wallet) error {
	query := `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, wallet.Balance(), wallet.UpdatedAt, wallet.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WalletRepository) scan(row *sql.Row) (*domain.Wallet, error) {
	var id, userID, currency string
	var balance decimal.Decimal
	var updatedAt time.Time

	err := row.Scan(&id, &userID, &currency, &balance, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return domain.RestoreWallet(id, userID, currency, balance, updatedAt), nil
}
