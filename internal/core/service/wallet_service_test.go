package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
)

// stubWalletRepo mirrors the conditional-debit contract of the Mongo
// implementation: a shortfall refuses the debit and writes no ledger row.
type stubWalletRepo struct {
	wallets map[string]*domain.Wallet
	ledger  []*domain.WalletTransaction
	seq     int
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *stubWalletRepo) FindByUser(_ context.Context, userID string) (*domain.Wallet, error) {
	for _, w := range r.wallets {
		if w.UserID == userID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

func (r *stubWalletRepo) Create(_ context.Context, w *domain.Wallet) (*domain.Wallet, error) {
	r.seq++
	w.ID = fmt.Sprintf("wallet_%d", r.seq)
	cp := *w
	r.wallets[w.ID] = &cp
	return w, nil
}

func (r *stubWalletRepo) Credit(_ context.Context, walletID string, tx *domain.WalletTransaction) error {
	w, ok := r.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	w.Balance += tx.Amount
	r.ledger = append(r.ledger, tx)
	return nil
}

func (r *stubWalletRepo) Debit(_ context.Context, walletID string, tx *domain.WalletTransaction) error {
	w, ok := r.wallets[walletID]
	if !ok {
		return domain.ErrWalletNotFound
	}
	if w.Balance < tx.Amount {
		return domain.ErrInsufficientFunds
	}
	w.Balance -= tx.Amount
	r.ledger = append(r.ledger, tx)
	return nil
}

func (r *stubWalletRepo) ListTransactions(_ context.Context, walletID string) ([]*domain.WalletTransaction, error) {
	var out []*domain.WalletTransaction
	for _, tx := range r.ledger {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func TestWalletServiceGetOrCreate(t *testing.T) {
	repo := newStubWalletRepo()
	svc := NewWalletService(repo, nopTx{}, zerolog.Nop())

	w1, err := svc.GetOrCreate(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if w1.Balance != 0 {
		t.Errorf("new wallet should be empty, got %v", w1.Balance)
	}

	w2, err := svc.GetOrCreate(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if w2.ID != w1.ID {
		t.Errorf("second call should return the same wallet, got %s vs %s", w2.ID, w1.ID)
	}
}

func TestWalletServiceAddMoney(t *testing.T) {
	repo := newStubWalletRepo()
	svc := NewWalletService(repo, nopTx{}, zerolog.Nop())

	wallet, err := svc.AddMoney(context.Background(), "user_1", 500, "Wallet top-up", "")
	if err != nil {
		t.Fatalf("add money: %v", err)
	}
	if wallet.Balance != 500 {
		t.Errorf("balance: got %v, want 500", wallet.Balance)
	}
	if len(repo.ledger) != 1 || repo.ledger[0].Type != domain.TransactionCredit {
		t.Fatalf("credit ledger row missing")
	}
	if repo.ledger[0].ReferenceID == "" {
		t.Errorf("a reference should be generated when none is supplied")
	}
}

func TestWalletServiceAddMoneyInvalidAmount(t *testing.T) {
	svc := NewWalletService(newStubWalletRepo(), nopTx{}, zerolog.Nop())

	for _, amount := range []float64{0, -10} {
		if _, err := svc.AddMoney(context.Background(), "user_1", amount, "", ""); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %v: got %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestWalletServiceDeductMoney(t *testing.T) {
	repo := newStubWalletRepo()
	svc := NewWalletService(repo, nopTx{}, zerolog.Nop())
	svc.AddMoney(context.Background(), "user_1", 1000, "seed", "")

	wallet, err := svc.DeductMoney(context.Background(), "user_1", 400, "rent", "ref_1")
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if wallet.Balance != 600 {
		t.Errorf("balance: got %v, want 600", wallet.Balance)
	}
}

func TestWalletServiceDeductMoneyInsufficient(t *testing.T) {
	repo := newStubWalletRepo()
	svc := NewWalletService(repo, nopTx{}, zerolog.Nop())
	svc.AddMoney(context.Background(), "user_1", 100, "seed", "")

	_, err := svc.DeductMoney(context.Background(), "user_1", 400, "rent", "")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	// Only the seed credit is on the ledger.
	if len(repo.ledger) != 1 {
		t.Errorf("refused debit must not write a ledger row, have %d rows", len(repo.ledger))
	}
}

func TestWalletServiceDeductMoneyNoWallet(t *testing.T) {
	svc := NewWalletService(newStubWalletRepo(), nopTx{}, zerolog.Nop())

	_, err := svc.DeductMoney(context.Background(), "ghost", 100, "", "")
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("got %v, want ErrWalletNotFound", err)
	}
}

func TestWalletServiceTransactionsEmpty(t *testing.T) {
	svc := NewWalletService(newStubWalletRepo(), nopTx{}, zerolog.Nop())

	txs, err := svc.Transactions(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("no wallet means an empty ledger, got %d rows", len(txs))
	}
}
