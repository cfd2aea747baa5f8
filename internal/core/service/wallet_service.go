package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

// WalletService maintains per-user balances backed by an append-only ledger.
type WalletService struct {
	repo   ports.WalletRepository
	tx     ports.TxRunner
	logger zerolog.Logger
}

func NewWalletService(repo ports.WalletRepository, tx ports.TxRunner, logger zerolog.Logger) *WalletService {
	return &WalletService{repo: repo, tx: tx, logger: logger}
}

// GetOrCreate returns the user's wallet, creating an empty one on first use.
func (s *WalletService) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if err != domain.ErrWalletNotFound {
		return nil, fmt.Errorf("find wallet: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Wallet{
		UserID:    userID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("wallet created")
	return created, nil
}

// AddMoney credits the wallet. The ledger row and the balance update are
// written in one transaction.
func (s *WalletService) AddMoney(ctx context.Context, userID string, amount float64, description, referenceID string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	wallet, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Credit(ctx, wallet.ID, &domain.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        domain.TransactionCredit,
			Amount:      amount,
			Description: description,
			ReferenceID: referenceID,
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("credit wallet: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Float64("amount", amount).
		Str("reference", referenceID).
		Msg("wallet credited")

	return s.repo.FindByUser(ctx, userID)
}

// DeductMoney debits the wallet. The balance check and decrement are a single
// conditional update, so concurrent debits cannot overdraw; a shortfall
// returns domain.ErrInsufficientFunds and writes nothing.
func (s *WalletService) DeductMoney(ctx context.Context, userID string, amount float64, description, referenceID string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	wallet, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if referenceID == "" {
		referenceID = uuid.NewString()
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.repo.Debit(ctx, wallet.ID, &domain.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        domain.TransactionDebit,
			Amount:      amount,
			Description: description,
			ReferenceID: referenceID,
			CreatedAt:   time.Now().UTC(),
		})
	})
	if err != nil {
		if err == domain.ErrInsufficientFunds {
			s.logger.Warn().
				Str("user_id", userID).
				Float64("amount", amount).
				Float64("balance", wallet.Balance).
				Msg("debit refused, insufficient balance")
			return nil, err
		}
		return nil, fmt.Errorf("debit wallet: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Float64("amount", amount).
		Str("reference", referenceID).
		Msg("wallet debited")

	return s.repo.FindByUser(ctx, userID)
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID string) ([]*domain.WalletTransaction, error) {
	wallet, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if err == domain.ErrWalletNotFound {
			return []*domain.WalletTransaction{}, nil
		}
		return nil, err
	}
	return s.repo.ListTransactions(ctx, wallet.ID)
}
