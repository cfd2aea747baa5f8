package ports

import (
	"context"

	"github.com/homequest/realty-api/internal/core/domain"
)

// WalletRepository defines persistence for wallets and their ledger.
type WalletRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Wallet, error)
	Create(ctx context.Context, w *domain.Wallet) (*domain.Wallet, error)
	// Credit appends a CREDIT ledger row and increments the cached balance;
	// both writes happen in the ambient transaction when one is active.
	Credit(ctx context.Context, walletID string, tx *domain.WalletTransaction) error
	// Debit conditionally decrements the balance (only when balance >= amount)
	// and appends a DEBIT ledger row. A shortfall returns
	// domain.ErrInsufficientFunds with no ledger row written.
	Debit(ctx context.Context, walletID string, tx *domain.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID string) ([]*domain.WalletTransaction, error)
}

// WalletService exposes the ledger to workflows and to the wallet endpoints.
type WalletService interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error)
	AddMoney(ctx context.Context, userID string, amount float64, description, referenceID string) (*domain.Wallet, error)
	// DeductMoney fails with domain.ErrInsufficientFunds when the balance is
	// short; callers run it inside a TxRunner boundary when the debit is one
	// step of a larger workflow.
	DeductMoney(ctx context.Context, userID string, amount float64, description, referenceID string) (*domain.Wallet, error)
	Transactions(ctx context.Context, userID string) ([]*domain.WalletTransaction, error)
}

// TxRunner delimits a multi-document transactional boundary. Repositories
// called with the context passed to fn join the same underlying transaction;
// any error from fn rolls every write back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
