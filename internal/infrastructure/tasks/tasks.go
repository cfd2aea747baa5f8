package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

// Background task types.
const (
	TypeCheckOverdue      = "payment:check_overdue"
	TypeNotificationEmail = "notification:email"
)

// overdueSweepSchedule runs the payment sweep hourly.
const overdueSweepSchedule = "0 * * * *"

// redisOpt mirrors the API's Redis connection settings for the asynq broker.
func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
}

// NewClient builds an asynq client reusing the API's Redis connection
// settings.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

// EmailEnqueuer implements ports.EmailEnqueuer by queueing a delivery task.
type EmailEnqueuer struct {
	client *asynq.Client
}

func NewEmailEnqueuer(client *asynq.Client) *EmailEnqueuer {
	return &EmailEnqueuer{client: client}
}

type emailTaskPayload struct {
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

func (e *EmailEnqueuer) EnqueueNotificationEmail(ctx context.Context, recipientID, subject, body string) error {
	payload, err := json.Marshal(emailTaskPayload{RecipientID: recipientID, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(TypeNotificationEmail, payload), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

// Sender delivers one email. Wired to the provider gateway in deployment; the
// processor only depends on this interface.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender is the Sender used when no email provider is configured. It logs
// the delivery instead of sending it.
type LogSender struct {
	Logger zerolog.Logger
}

func (s LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.Logger.Info().Str("to", to).Str("subject", subject).Msg("email delivery (log only)")
	return nil
}

// TaskProcessor holds the dependencies the task handlers need.
type TaskProcessor struct {
	payments      ports.PaymentRepository
	rentBookings  ports.RentBookingRepository
	pgBookings    ports.PgBookingRepository
	users         ports.UserRepository
	notifications ports.NotificationService
	sender        Sender
	logger        zerolog.Logger
}

func NewTaskProcessor(
	payments ports.PaymentRepository,
	rentBookings ports.RentBookingRepository,
	pgBookings ports.PgBookingRepository,
	users ports.UserRepository,
	notifications ports.NotificationService,
	sender Sender,
	logger zerolog.Logger,
) *TaskProcessor {
	return &TaskProcessor{
		payments:      payments,
		rentBookings:  rentBookings,
		pgBookings:    pgBookings,
		users:         users,
		notifications: notifications,
		sender:        sender,
		logger:        logger,
	}
}

// NewServer configures the asynq worker with the task handlers registered.
// The caller runs it alongside the HTTP server.
func NewServer(rdb *redis.Client, processor *TaskProcessor, logger zerolog.Logger) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisOpt(rdb),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error().Err(err).Str("task", task.Type()).Msg("task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCheckOverdue, processor.HandleCheckOverdueTask)
	mux.HandleFunc(TypeNotificationEmail, processor.HandleNotificationEmailTask)
	return srv, mux
}

// NewScheduler registers the hourly overdue sweep.
func NewScheduler(rdb *redis.Client, logger zerolog.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(
		redisOpt(rdb),
		&asynq.SchedulerOpts{
			EnqueueErrorHandler: func(task *asynq.Task, opts []asynq.Option, err error) {
				logger.Error().Err(err).Str("task", task.Type()).Msg("failed to enqueue scheduled task")
			},
		},
	)

	if _, err := scheduler.Register(overdueSweepSchedule, asynq.NewTask(TypeCheckOverdue, nil)); err != nil {
		return nil, fmt.Errorf("register overdue sweep: %w", err)
	}
	return scheduler, nil
}

// HandleCheckOverdueTask marks PENDING payments past their grace period as
// OVERDUE, applies the booking's late fee once, and notifies the tenant.
func (p *TaskProcessor) HandleCheckOverdueTask(ctx context.Context, t *asynq.Task) error {
	now := time.Now().UTC()
	due, err := p.payments.ListDueBefore(ctx, now)
	if err != nil {
		return fmt.Errorf("list due payments: %w", err)
	}

	var flagged int
	for _, payment := range due {
		tenantID, graceDays, lateFeeRate, err := p.bookingTerms(ctx, payment)
		if err != nil {
			p.logger.Warn().Err(err).Str("payment_id", payment.ID).Msg("skipping payment, booking lookup failed")
			continue
		}

		if now.Before(payment.DueDate.AddDate(0, 0, graceDays)) {
			continue
		}

		payment.Status = domain.PaymentOverdue
		payment.LateFee = payment.Amount * lateFeeRate
		if err := p.payments.Update(ctx, payment); err != nil {
			p.logger.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to flag payment overdue")
			continue
		}
		flagged++

		p.notifyOverdue(ctx, payment, tenantID)
	}

	p.logger.Info().Int("scanned", len(due)).Int("flagged", flagged).Msg("overdue sweep completed")
	return nil
}

func (p *TaskProcessor) notifyOverdue(ctx context.Context, payment *domain.MonthlyPayment, tenantID string) {
	if _, err := p.notifications.PublishBooking(ctx, &domain.BookingNotification{
		RecipientID:   tenantID,
		RentBookingID: payment.RentBookingID,
		PgBookingID:   payment.PgBookingID,
		Type:          domain.NotifyPaymentOverdue,
		Title:         "Rent Payment Overdue",
		Message:       fmt.Sprintf("Your rent payment of %.0f is overdue. A late fee of %.0f has been applied.", payment.Amount, payment.LateFee),
		Priority:      domain.PriorityUrgent,
		ActionURL:     "/payments",
	}); err != nil {
		p.logger.Warn().Err(err).Str("payment_id", payment.ID).Msg("failed to publish overdue notification")
	}
}

// HandleNotificationEmailTask resolves the recipient's address and delivers
// the email.
func (p *TaskProcessor) HandleNotificationEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload emailTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}

	user, err := p.users.FindByID(ctx, payload.RecipientID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return fmt.Errorf("recipient not found: %w", asynq.SkipRetry)
		}
		return err
	}

	if err := p.sender.Send(ctx, user.Email, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func (p *TaskProcessor) bookingTerms(ctx context.Context, payment *domain.MonthlyPayment) (tenantID string, graceDays int, lateFeeRate float64, err error) {
	if payment.RentBookingID != "" {
		booking, err := p.rentBookings.FindByID(ctx, payment.RentBookingID)
		if err != nil {
			return "", 0, 0, err
		}
		return booking.TenantID, booking.GracePeriodDays, booking.LateFeeRate, nil
	}

	booking, err := p.pgBookings.FindByID(ctx, payment.PgBookingID)
	if err != nil {
		return "", 0, 0, err
	}
	return booking.TenantID, booking.GracePeriodDays, booking.LateFeeRate, nil
}
