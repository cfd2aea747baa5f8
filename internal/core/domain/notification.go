package domain

import (
	"errors"
	"time"
)

// NotificationType classifies a workflow notification.
type NotificationType string

const (
	NotifyInquiryNew    NotificationType = "INQUIRY_NEW"
	NotifyInquiryUpdate NotificationType = "INQUIRY_UPDATE"
	NotifyPayment       NotificationType = "PAYMENT"
	NotifySystem        NotificationType = "SYSTEM"
)

// BookingNotificationType classifies booking lifecycle notifications.
type BookingNotificationType string

const (
	NotifyBookingCreated    BookingNotificationType = "BOOKING_CREATED"
	NotifyBookingApproved   BookingNotificationType = "BOOKING_APPROVED"
	NotifyBookingRejected   BookingNotificationType = "BOOKING_REJECTED"
	NotifyBookingCancelled  BookingNotificationType = "BOOKING_CANCELLED"
	NotifyBookingTerminated BookingNotificationType = "BOOKING_TERMINATED"
	NotifyPaymentDue        BookingNotificationType = "PAYMENT_DUE"
	NotifyPaymentOverdue    BookingNotificationType = "PAYMENT_OVERDUE"
	NotifyPaymentReceived   BookingNotificationType = "PAYMENT_RECEIVED"
	NotifyLateFeeApplied    BookingNotificationType = "LATE_FEE_APPLIED"
)

// NotificationPriority orders booking notifications in client UIs and decides
// which ones also go out by email.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "LOW"
	PriorityMedium NotificationPriority = "MEDIUM"
	PriorityHigh   NotificationPriority = "HIGH"
	PriorityUrgent NotificationPriority = "URGENT"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification is the persisted outbox record for inquiry/wallet events. It
// is written before any live push so an offline recipient can recover it by
// polling the unread list.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id"`
	Type        NotificationType `json:"type" bson:"type"`
	Title       string           `json:"title" bson:"title"`
	Body        string           `json:"body,omitempty" bson:"body,omitempty"`
	Link        string           `json:"link,omitempty" bson:"link,omitempty"`
	IsRead      bool             `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}

// BookingNotification is the persisted outbox record for booking lifecycle
// events.
type BookingNotification struct {
	ID            string                  `json:"id" bson:"_id,omitempty"`
	RecipientID   string                  `json:"recipient_id" bson:"recipient_id"`
	RentBookingID string                  `json:"rent_booking_id,omitempty" bson:"rent_booking_id,omitempty"`
	PgBookingID   string                  `json:"pg_booking_id,omitempty" bson:"pg_booking_id,omitempty"`
	Type          BookingNotificationType `json:"type" bson:"type"`
	Title         string                  `json:"title" bson:"title"`
	Message       string                  `json:"message,omitempty" bson:"message,omitempty"`
	Priority      NotificationPriority    `json:"priority" bson:"priority"`
	ActionURL     string                  `json:"action_url,omitempty" bson:"action_url,omitempty"`
	IsRead        bool                    `json:"is_read" bson:"is_read"`
	ReadAt        *time.Time              `json:"read_at,omitempty" bson:"read_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at" bson:"created_at"`
}
