package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `
	id, wallet_id, order_id, type, status, category,
	amount, currency, reference, provider, meta, created_at, updated_at`

// Create persists a new ledger entry. The reference column carries a unique
// index; a collision surfaces as ErrDuplicateReference.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	meta, err := json.Marshal(txn.Meta)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		txn.ID,
		txn.WalletID,
		nullString(txn.OrderID),
		txn.Type,
		txn.Status,
		txn.Category,
		txn.Amount,
		txn.Currency,
		nullString(txn.Reference),
		nullString(txn.Provider),
		meta,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	txn, err := r.scanRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return txn, nil
}

// GetForUpdate retrieves a transaction holding a row-level exclusive lock.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	txn, err := r.scanRow(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return txn, nil
}

// GetByReference retrieves a transaction by its external reference. Returns
// nil if no transaction exists with the given reference.
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	txn, err := r.scanRow(r.q.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return txn, nil
}

// FindPending retrieves a PENDING transaction for the wallet with the given
// category and amount, if one exists. Returns nil when there is none.
func (r *TransactionRepository) FindPending(ctx context.Context, walletID string, category domain.TransactionCategory, amount string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE wallet_id = $1 AND category = $2 AND amount = $3 AND status = $4
		ORDER BY created_at DESC LIMIT 1
	`
	txn, err := r.scanRow(r.q.QueryRowContext(ctx, query, walletID, category, amount, domain.TransactionStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return txn, nil
}

// ListByWallet retrieves a wallet's transactions, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// Update updates an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $1, provider = $2, meta = $3, updated_at = $4
		WHERE id = $5
	`

	meta, err := json.Marshal(txn.Meta)
	if err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, query,
		txn.Status,
		nullString(txn.Provider),
		meta,
		txn.UpdatedAt,
		txn.ID,
	)
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

func (r *TransactionRepository) scanRow(row rowScanner) (*domain.Transaction, error) {
	var txn domain.Transaction
	var orderID, reference, provider sql.NullString
	var meta []byte

	err := row.Scan(
		&txn.ID,
		&txn.WalletID,
		&orderID,
		&txn.Type,
		&txn.Status,
		&txn.Category,
		&txn.Amount,
		&txn.Currency,
		&reference,
		&provider,
		&meta,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		txn.OrderID = orderID.String
	}
	if reference.Valid {
		txn.Reference = reference.String
	}
	if provider.Valid {
		txn.Provider = provider.String
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &txn.Meta); err != nil {
			return nil, err
		}
	}

	return &txn, nil
}
