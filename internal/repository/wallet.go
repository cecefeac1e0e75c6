package repository

import (
	"context"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
)

// WalletRepository defines the persistence operations for wallets. There is
// deliberately no generic balance setter: Save persists whatever state
// domain.Wallet.Apply or Reverse produced.
type WalletRepository interface {
	// Create persists a new wallet.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByUserID retrieves the wallet owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// GetForUpdate retrieves a wallet and holds a row-level exclusive lock on
	// it. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, walletID string) (*domain.Wallet, error)

	// Save persists the wallet's balance and updated-at.
	Save(ctx context.Context, wallet *domain.Wallet) error
}

// TransactionRepository defines the persistence operations for ledger
// entries.
type TransactionRepository interface {
	// Create persists a new transaction. Fails with ErrDuplicateReference if
	// the reference is already taken.
	Create(ctx context.Context, txn *domain.Transaction) error

	// GetByID retrieves a transaction by ID.
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// GetForUpdate retrieves a transaction and holds a row-level exclusive
	// lock on it. Only meaningful inside a transaction.
	GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error)

	// GetByReference retrieves a transaction by its external reference.
	// Returns nil if no transaction exists with the given reference.
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// FindPending retrieves a PENDING transaction for the wallet with the
	// given category and amount, if one exists. Returns nil when there is
	// none.
	FindPending(ctx context.Context, walletID string, category domain.TransactionCategory, amount string) (*domain.Transaction, error)

	// ListByWallet retrieves a wallet's transactions, newest first.
	ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error)

	// Update updates an existing transaction.
	Update(ctx context.Context, txn *domain.Transaction) error
}
