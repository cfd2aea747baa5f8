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

const collectionMonthlyPayments = "monthly_payments"

type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionMonthlyPayments)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.MonthlyPayment) (*domain.MonthlyPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.MonthlyPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.MonthlyPayment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

// LatestForBooking returns the obligation with the greatest due date for the
// booking, or nil when none exists.
func (r *PaymentRepository) LatestForBooking(ctx context.Context, bookingID string, rent bool) (*domain.MonthlyPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	field := "pg_booking_id"
	if rent {
		field = "rent_booking_id"
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "due_date", Value: -1}})
	var p domain.MonthlyPayment
	if err := r.col.FindOne(ctx, bson.M{field: bookingID}, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest payment: %w", err)
	}
	return &p, nil
}

// ListForBookings returns obligations across both booking kinds; an empty
// status means all statuses.
func (r *PaymentRepository) ListForBookings(ctx context.Context, rentBookingIDs, pgBookingIDs []string, status domain.PaymentStatus) ([]*domain.MonthlyPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	or := bson.A{}
	if len(rentBookingIDs) > 0 {
		or = append(or, bson.M{"rent_booking_id": bson.M{"$in": rentBookingIDs}})
	}
	if len(pgBookingIDs) > 0 {
		or = append(or, bson.M{"pg_booking_id": bson.M{"$in": pgBookingIDs}})
	}
	if len(or) == 0 {
		return []*domain.MonthlyPayment{}, nil
	}

	filter := bson.M{"$or": or}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.MonthlyPayment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return items, nil
}

// ListDueBefore returns PENDING obligations whose due date is before cutoff.
// The overdue sweep feeds on this.
func (r *PaymentRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.MonthlyPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":   domain.PaymentPending,
		"due_date": bson.M{"$lt": cutoff},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list due payments: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.MonthlyPayment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	return items, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.MonthlyPayment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// EnsureIndexes creates the booking and sweep indexes.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "rent_booking_id", Value: 1}, {Key: "due_date", Value: -1}}},
		{Keys: bson.D{{Key: "pg_booking_id", Value: 1}, {Key: "due_date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
