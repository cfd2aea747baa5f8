package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

const notificationPageLimit = 50

// NotificationService implements the outbox pattern: the notification row is
// persisted first, then pushed to the recipient's live connections. A failed
// or dropped push loses nothing; the client recovers by listing unread rows.
type NotificationService struct {
	repo        ports.NotificationRepository
	bookingRepo ports.BookingNotificationRepository
	pusher      ports.Pusher
	email       ports.EmailEnqueuer // optional
	logger      zerolog.Logger
}

func NewNotificationService(
	repo ports.NotificationRepository,
	bookingRepo ports.BookingNotificationRepository,
	pusher ports.Pusher,
	email ports.EmailEnqueuer,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:        repo,
		bookingRepo: bookingRepo,
		pusher:      pusher,
		email:       email,
		logger:      logger,
	}
}

// Publish persists an inquiry/wallet notification and pushes it live.
func (s *NotificationService) Publish(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	n.CreatedAt = time.Now().UTC()
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	s.pusher.Push(created.RecipientID, ports.Event{Name: ports.EventNotification, Payload: created})
	return created, nil
}

// PublishBooking persists a booking notification, pushes it live, and hands
// HIGH/URGENT ones to the email queue.
func (s *NotificationService) PublishBooking(ctx context.Context, n *domain.BookingNotification) (*domain.BookingNotification, error) {
	if n.Priority == "" {
		n.Priority = domain.PriorityMedium
	}
	n.CreatedAt = time.Now().UTC()

	created, err := s.bookingRepo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("persist booking notification: %w", err)
	}

	s.pusher.Push(created.RecipientID, ports.Event{Name: ports.EventNotification, Payload: created})

	if s.email != nil && (created.Priority == domain.PriorityHigh || created.Priority == domain.PriorityUrgent) {
		if err := s.email.EnqueueNotificationEmail(ctx, created.RecipientID, created.Title, created.Message); err != nil {
			s.logger.Warn().Err(err).Str("notification_id", created.ID).Msg("failed to enqueue notification email")
		}
	}

	return created, nil
}

func (s *NotificationService) List(ctx context.Context, actor ports.Actor, unreadOnly bool) ([]*domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, actor.ID, unreadOnly, notificationPageLimit)
}

func (s *NotificationService) ListBooking(ctx context.Context, actor ports.Actor) ([]*domain.BookingNotification, error) {
	return s.bookingRepo.ListByRecipient(ctx, actor.ID, notificationPageLimit)
}

// MarkRead acknowledges consumption of a pushed or polled notification.
func (s *NotificationService) MarkRead(ctx context.Context, actor ports.Actor, id string) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkBookingRead(ctx context.Context, actor ports.Actor, id string) (*domain.BookingNotification, error) {
	return s.bookingRepo.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor ports.Actor) (int64, error) {
	n, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	b, err := s.bookingRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	return n + b, nil
}
