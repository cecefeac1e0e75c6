package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/seyifunmi-idowu/express-sub000/internal/domain"
	"github.com/seyifunmi-idowu/express-sub000/internal/repository"
)

// WalletService exposes read access to wallets and their ledger history.
// Balance mutation lives in LedgerService only.
type WalletService struct {
	walletRepo repository.WalletRepository
	txnRepo    repository.TransactionRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repository.WalletRepository, txnRepo repository.TransactionRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo, txnRepo: txnRepo}
}

// EnsureWallet retrieves the user's wallet, creating an empty one on first
// access.
func (s *WalletService) EnsureWallet(ctx context.Context, userID, currency string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidCustomerID
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	wallet = domain.NewWallet(uuid.New().String(), userID, currency)
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// GetByUserID retrieves a user's wallet.
func (s *WalletService) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.walletRepo.GetByUserID(ctx, userID)
}

// ListTransactions retrieves a wallet's ledger entries, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	return s.txnRepo.ListByWallet(ctx, walletID)
}
