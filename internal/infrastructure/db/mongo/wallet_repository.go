package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homequest/realty-api/internal/core/domain"
)

const (
	collectionWallets            = "wallets"
	collectionWalletTransactions = "wallet_transactions"
)

// WalletRepository keeps the cached balance and the ledger consistent. Debit
// uses a conditional update so two concurrent spends can never push the
// balance negative, whatever the interleaving.
type WalletRepository struct {
	wallets      *mongo.Collection
	transactions *mongo.Collection
}

func NewWalletRepository(db *mongo.Database) *WalletRepository {
	return &WalletRepository{
		wallets:      db.Collection(collectionWallets),
		transactions: db.Collection(collectionWalletTransactions),
	}
}

func (r *WalletRepository) FindByUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w domain.Wallet
	if err := r.wallets.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("find wallet: %w", err)
	}
	return &w, nil
}

func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) (*domain.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	w.ID = primitive.NewObjectID().Hex()
	if _, err := r.wallets.InsertOne(ctx, w); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost a create race; the winner's wallet serves
			return r.FindByUser(ctx, w.UserID)
		}
		return nil, fmt.Errorf("insert wallet: %w", err)
	}
	return w, nil
}

// Credit increments the balance and appends the ledger row. Both writes join
// the ambient transaction when one is active on ctx.
func (r *WalletRepository) Credit(ctx context.Context, walletID string, tx *domain.WalletTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.wallets.UpdateOne(ctx, bson.M{"_id": walletID}, bson.M{
		"$inc": bson.M{"balance": tx.Amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWalletNotFound
	}

	return r.insertTransaction(ctx, walletID, tx)
}

// Debit decrements the balance only when it covers the amount. The filter is
// the balance check; a non-match with an existing wallet means insufficient
// funds, and no ledger row is written.
func (r *WalletRepository) Debit(ctx context.Context, walletID string, tx *domain.WalletTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":     walletID,
		"balance": bson.M{"$gte": tx.Amount},
	}
	res := r.wallets.FindOneAndUpdate(ctx, filter, bson.M{
		"$inc": bson.M{"balance": -tx.Amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if cerr := r.wallets.FindOne(ctx, bson.M{"_id": walletID}).Err(); cerr != nil {
				if errors.Is(cerr, mongo.ErrNoDocuments) {
					return domain.ErrWalletNotFound
				}
				return fmt.Errorf("find wallet: %w", cerr)
			}
			return domain.ErrInsufficientFunds
		}
		return fmt.Errorf("debit wallet: %w", err)
	}

	return r.insertTransaction(ctx, walletID, tx)
}

// ListTransactions returns the ledger, newest first.
func (r *WalletRepository) ListTransactions(ctx context.Context, walletID string) ([]*domain.WalletTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.transactions.Find(ctx, bson.M{"wallet_id": walletID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.WalletTransaction
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return items, nil
}

func (r *WalletRepository) insertTransaction(ctx context.Context, walletID string, tx *domain.WalletTransaction) error {
	tx.ID = primitive.NewObjectID().Hex()
	tx.WalletID = walletID
	if _, err := r.transactions.InsertOne(ctx, tx); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique per-user wallet index and the ledger index.
func (r *WalletRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.wallets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err := r.transactions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "wallet_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
