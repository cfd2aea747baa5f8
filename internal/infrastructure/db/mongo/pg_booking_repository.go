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

const collectionPgBookings = "pg_bookings"

type PgBookingRepository struct {
	col *mongo.Collection
}

func NewPgBookingRepository(db *mongo.Database) *PgBookingRepository {
	return &PgBookingRepository{col: db.Collection(collectionPgBookings)}
}

// Create inserts a new bed booking request, with the same one-open-booking
// index contract as rent bookings, keyed on bed_id.
func (r *PgBookingRepository) Create(ctx context.Context, b *domain.PgBooking) (*domain.PgBooking, error) {
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

func (r *PgBookingRepository) FindByID(ctx context.Context, id string) (*domain.PgBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.PgBooking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

func (r *PgBookingRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.PgBooking, error) {
	return r.list(ctx, bson.M{"tenant_id": tenantID})
}

func (r *PgBookingRepository) ListByOwner(ctx context.Context, ownerID string, status domain.BookingStatus) ([]*domain.PgBooking, error) {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}
	if status != "" {
		filter["status"] = status
	}
	return r.list(ctx, filter)
}

func (r *PgBookingRepository) Update(ctx context.Context, b *domain.PgBooking) error {
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

func (r *PgBookingRepository) list(ctx context.Context, filter bson.M) ([]*domain.PgBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.PgBooking
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the partial unique index on open bookings per bed.
func (r *PgBookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "bed_id", Value: 1}},
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
