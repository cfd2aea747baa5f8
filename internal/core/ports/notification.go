package ports

import (
	"context"

	"github.com/homequest/realty-api/internal/core/domain"
)

// Live event names pushed over the per-user channel.
const (
	EventNotification    = "notification"
	EventReceiveMessage  = "receive_message"
	EventStatusUpdate    = "status_update"
	EventInquiryNew      = "inquiry_new"
	EventPurchaseSuccess = "purchase_success"
	EventErrorMessage    = "error_message"
)

// Event is one frame pushed to a user's live connections.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Pusher delivers events to a user's live connections, best-effort and
// at-most-once. Delivery to an offline user is a no-op; the persisted
// notification row is the recovery path.
type Pusher interface {
	Push(userID string, event Event)
}

// NotificationRepository persists inquiry/wallet notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// BookingNotificationRepository persists booking lifecycle notifications.
type BookingNotificationRepository interface {
	Create(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.BookingNotification, error)
	MarkRead(ctx context.Context, id, recipientID string) (*domain.BookingNotification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// EmailEnqueuer hands a notification off for asynchronous email delivery.
type EmailEnqueuer interface {
	EnqueueNotificationEmail(ctx context.Context, recipientID, subject, body string) error
}

// NotificationService implements the outbox: persist first, then push.
type NotificationService interface {
	Publish(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	PublishBooking(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error)
	List(ctx context.Context, actor Actor, unreadOnly bool) ([]*domain.Notification, error)
	ListBooking(ctx context.Context, actor Actor) ([]*domain.BookingNotification, error)
	MarkRead(ctx context.Context, actor Actor, id string) (*domain.Notification, error)
	MarkBookingRead(ctx context.Context, actor Actor, id string) (*domain.BookingNotification, error)
	UnreadCount(ctx context.Context, actor Actor) (int64, error)
}
