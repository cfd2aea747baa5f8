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
	collectionNotifications        = "notifications"
	collectionBookingNotifications = "booking_notifications"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		filter["is_read"] = false
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.Notification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return items, nil
}

// MarkRead flags the notification read; the recipient filter keeps users from
// acknowledging someone else's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"is_read": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n domain.Notification
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the recipient inbox index.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

type BookingNotificationRepository struct {
	col *mongo.Collection
}

func NewBookingNotificationRepository(db *mongo.Database) *BookingNotificationRepository {
	return &BookingNotificationRepository{col: db.Collection(collectionBookingNotifications)}
}

func (r *BookingNotificationRepository) Create(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("insert booking notification: %w", err)
	}
	return n, nil
}

func (r *BookingNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.BookingNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list booking notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.BookingNotification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode booking notifications: %w", err)
	}
	return items, nil
}

func (r *BookingNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*domain.BookingNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"_id": id, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n domain.BookingNotification
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("mark booking notification read: %w", err)
	}
	return &n, nil
}

func (r *BookingNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread booking notifications: %w", err)
	}
	return n, nil
}

func (r *BookingNotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
