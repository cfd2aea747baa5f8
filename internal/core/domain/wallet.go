package domain

import (
	"errors"
	"time"
)

// TransactionType classifies a wallet ledger entry.
type TransactionType string

const (
	TransactionCredit TransactionType = "CREDIT"
	TransactionDebit  TransactionType = "DEBIT"
)

var ErrWalletNotFound = errors.New("wallet not found")
var ErrInsufficientFunds = errors.New("insufficient wallet balance")
var ErrInvalidAmount = errors.New("amount must be positive")

// Wallet holds one spendable balance per user. Balance is a cached sum of the
// transaction ledger; every mutation writes a WalletTransaction row in the
// same database transaction.
type Wallet struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Balance   float64   `json:"balance" bson:"balance"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// WalletTransaction is an immutable ledger row.
type WalletTransaction struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	WalletID    string          `json:"wallet_id" bson:"wallet_id"`
	Type        TransactionType `json:"type" bson:"type"`
	Amount      float64         `json:"amount" bson:"amount"`
	Description string          `json:"description" bson:"description"`
	ReferenceID string          `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}
