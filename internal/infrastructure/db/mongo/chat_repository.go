package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homequest/realty-api/internal/core/domain"
)

const collectionChatMessages = "chat_messages"

type ChatRepository struct {
	col *mongo.Collection
}

func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{col: db.Collection(collectionChatMessages)}
}

func (r *ChatRepository) Append(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	msg.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// ListByInquiry returns the thread in chronological order.
func (r *ChatRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]*domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"inquiry_id": inquiryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.ChatMessage
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return items, nil
}

// MarkRead flags every unread message in the inquiry not sent by readerID.
func (r *ChatRepository) MarkRead(ctx context.Context, inquiryID, readerID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"inquiry_id": inquiryID,
		"sender_id":  bson.M{"$ne": readerID},
		"is_read":    false,
	}
	_, err := r.col.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"is_read": true, "read_at": at},
	})
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *ChatRepository) CountUnread(ctx context.Context, inquiryIDs []string, readerID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"inquiry_id": bson.M{"$in": inquiryIDs},
		"sender_id":  bson.M{"$ne": readerID},
		"is_read":    false,
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the thread and unread-count indexes.
func (r *ChatRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inquiry_id", Value: 1}, {Key: "sent_at", Value: 1}}},
		{Keys: bson.D{{Key: "inquiry_id", Value: 1}, {Key: "is_read", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
