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

const collectionInquiries = "inquiries"

// nonTerminalInquiryStatuses drives the partial unique index that keeps one
// open negotiation per (client, property) pair.
var nonTerminalInquiryStatuses = bson.A{
	string(domain.InquiryPending),
	string(domain.InquiryActive),
	string(domain.InquiryNegotiating),
	string(domain.InquiryAgreed),
}

type InquiryRepository struct {
	col *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) *InquiryRepository {
	return &InquiryRepository{col: db.Collection(collectionInquiries)}
}

// Create inserts a new inquiry. A concurrent or repeated open inquiry for the
// same (client, property) hits the partial unique index and is reported as
// domain.ErrDuplicateInquiry.
func (r *InquiryRepository) Create(ctx context.Context, inq *domain.Inquiry) (*domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inq.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, inq); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateInquiry
		}
		return nil, fmt.Errorf("insert inquiry: %w", err)
	}
	return inq, nil
}

func (r *InquiryRepository) FindByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var inq domain.Inquiry
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&inq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInquiryNotFound
		}
		return nil, fmt.Errorf("find inquiry: %w", err)
	}
	return &inq, nil
}

// FindAgreed returns the AGREED inquiry for a (property, client) pair.
func (r *InquiryRepository) FindAgreed(ctx context.Context, propertyID, clientID string) (*domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"client_id":   clientID,
		"status":      domain.InquiryAgreed,
	}
	var inq domain.Inquiry
	if err := r.col.FindOne(ctx, filter).Decode(&inq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInquiryNotFound
		}
		return nil, fmt.Errorf("find agreed inquiry: %w", err)
	}
	return &inq, nil
}

func (r *InquiryRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Inquiry, error) {
	return r.list(ctx, bson.M{"client_id": clientID})
}

// ListByOwner returns the owner's inquiries, or every inquiry when ownerID is
// empty (admin view).
func (r *InquiryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Inquiry, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	return r.list(ctx, filter)
}

func (r *InquiryRepository) Update(ctx context.Context, inq *domain.Inquiry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": inq.ID}, inq)
	if err != nil {
		return fmt.Errorf("update inquiry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInquiryNotFound
	}
	return nil
}

func (r *InquiryRepository) list(ctx context.Context, filter bson.M) ([]*domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Inquiry
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode inquiries: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the partial unique index on open inquiries plus the
// list-view indexes.
func (r *InquiryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "property_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": nonTerminalInquiryStatuses}}),
		},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "updated_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
