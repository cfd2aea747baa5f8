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

const collectionRentBookings = "rent_bookings"

// openBookingStatuses drives the partial unique indexes that keep a property
// or bed from carrying two open bookings at once.
var openBookingStatuses = bson.A{
	string(domain.BookingPendingApproval),
	string(domain.BookingActive),
	string(domain.BookingExtended),
}

// openBookingHorizon substitutes for a missing end date in interval queries.
var openBookingHorizon = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

type RentBookingRepository struct {
	col *mongo.Collection
}

func NewRentBookingRepository(db *mongo.Database) *RentBookingRepository {
	return &RentBookingRepository{col: db.Collection(collectionRentBookings)}
}

// Create inserts a new booking request. Of two concurrent requests for the
// same property exactly one passes the partial unique index; the loser gets
// domain.ErrBookingConflict.
func (r *RentBookingRepository) Create(ctx context.Context, b *domain.RentBooking) (*domain.RentBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	b.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookingConflict
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (r *RentBookingRepository) FindByID(ctx context.Context, id string) (*domain.RentBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.RentBooking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

// FindConflicting returns an open booking whose interval intersects
// [start, end] for the property. A missing booking end date counts as
// open-ended, as does a zero end argument.
func (r *RentBookingRepository) FindConflicting(ctx context.Context, propertyID string, start, end time.Time) (*domain.RentBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if end.IsZero() {
		end = openBookingHorizon
	}

	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": openBookingStatuses},
		"start_date":  bson.M{"$lte": end},
		"$or": bson.A{
			bson.M{"end_date": bson.M{"$gte": start}},
			bson.M{"end_date": bson.M{"$exists": false}},
		},
	}

	var b domain.RentBooking
	if err := r.col.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find conflicting booking: %w", err)
	}
	return &b, nil
}

func (r *RentBookingRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.RentBooking, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *RentBookingRepository) ListByOwner(ctx context.Context, ownerID string, status domain.BookingStatus) ([]*domain.RentBooking, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter)
}

func (r *RentBookingRepository) Update(ctx context.Context, b *domain.RentBooking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *RentBookingRepository) list(ctx context.Context, filter bson.M) ([]*domain.RentBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.RentBooking
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the partial unique index on open bookings per
// property plus the list-view indexes.
func (r *RentBookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "property_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": openBookingStatuses}}),
		},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
