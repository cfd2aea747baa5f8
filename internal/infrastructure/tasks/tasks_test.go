package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

type fakePaymentRepo struct {
	payments map[string]*domain.MonthlyPayment
}

func (r *fakePaymentRepo) Create(_ context.Context, p *domain.MonthlyPayment) (*domain.MonthlyPayment, error) {
	r.payments[p.ID] = p
	return p, nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id string) (*domain.MonthlyPayment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) LatestForBooking(_ context.Context, _ string, _ bool) (*domain.MonthlyPayment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) ListForBookings(_ context.Context, _, _ []string, _ domain.PaymentStatus) ([]*domain.MonthlyPayment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) ListDueBefore(_ context.Context, cutoff time.Time) ([]*domain.MonthlyPayment, error) {
	var out []*domain.MonthlyPayment
	for _, p := range r.payments {
		if p.Status == domain.PaymentPending && p.DueDate.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *domain.MonthlyPayment) error {
	r.payments[p.ID] = p
	return nil
}

type fakeRentBookingRepo struct {
	bookings map[string]*domain.RentBooking
}

func (r *fakeRentBookingRepo) Create(_ context.Context, b *domain.RentBooking) (*domain.RentBooking, error) {
	return b, nil
}

func (r *fakeRentBookingRepo) FindByID(_ context.Context, id string) (*domain.RentBooking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeRentBookingRepo) FindConflicting(_ context.Context, _ string, _, _ time.Time) (*domain.RentBooking, error) {
	return nil, nil
}

func (r *fakeRentBookingRepo) ListByTenant(_ context.Context, _ string) ([]*domain.RentBooking, error) {
	return nil, nil
}

func (r *fakeRentBookingRepo) ListByOwner(_ context.Context, _ string, _ domain.BookingStatus) ([]*domain.RentBooking, error) {
	return nil, nil
}

func (r *fakeRentBookingRepo) Update(_ context.Context, _ *domain.RentBooking) error {
	return nil
}

type fakePgBookingRepo struct{}

func (fakePgBookingRepo) Create(_ context.Context, b *domain.PgBooking) (*domain.PgBooking, error) {
	return b, nil
}

func (fakePgBookingRepo) FindByID(_ context.Context, _ string) (*domain.PgBooking, error) {
	return nil, domain.ErrBookingNotFound
}

func (fakePgBookingRepo) ListByTenant(_ context.Context, _ string) ([]*domain.PgBooking, error) {
	return nil, nil
}

func (fakePgBookingRepo) ListByOwner(_ context.Context, _ string, _ domain.BookingStatus) ([]*domain.PgBooking, error) {
	return nil, nil
}

func (fakePgBookingRepo) Update(_ context.Context, _ *domain.PgBooking) error {
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) SetEnabled(_ context.Context, _ string, _ bool) error {
	return nil
}

type fakeNotifier struct {
	bookings []*domain.BookingNotification
}

func (n *fakeNotifier) Publish(_ context.Context, notif *domain.Notification) (*domain.Notification, error) {
	return notif, nil
}

func (n *fakeNotifier) PublishBooking(_ context.Context, notif *domain.BookingNotification) (*domain.BookingNotification, error) {
	n.bookings = append(n.bookings, notif)
	return notif, nil
}

func (n *fakeNotifier) List(_ context.Context, _ ports.Actor, _ bool) ([]*domain.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) ListBooking(_ context.Context, _ ports.Actor) ([]*domain.BookingNotification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkRead(_ context.Context, _ ports.Actor, _ string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (n *fakeNotifier) MarkBookingRead(_ context.Context, _ ports.Actor, _ string) (*domain.BookingNotification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (n *fakeNotifier) UnreadCount(_ context.Context, _ ports.Actor) (int64, error) {
	return 0, nil
}

type recordingSender struct {
	sent []string
}

func (s *recordingSender) Send(_ context.Context, to, subject, _ string) error {
	s.sent = append(s.sent, to+":"+subject)
	return nil
}

func newTestProcessor(payments *fakePaymentRepo, rents *fakeRentBookingRepo, users *fakeUserRepo, notifier *fakeNotifier, sender Sender) *TaskProcessor {
	if payments == nil {
		payments = &fakePaymentRepo{payments: map[string]*domain.MonthlyPayment{}}
	}
	if rents == nil {
		rents = &fakeRentBookingRepo{bookings: map[string]*domain.RentBooking{}}
	}
	if users == nil {
		users = &fakeUserRepo{users: map[string]*domain.User{}}
	}
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	if sender == nil {
		sender = LogSender{Logger: zerolog.Nop()}
	}
	return NewTaskProcessor(payments, rents, fakePgBookingRepo{}, users, notifier, sender, zerolog.Nop())
}

func TestHandleCheckOverdueTask(t *testing.T) {
	now := time.Now().UTC()
	rents := &fakeRentBookingRepo{bookings: map[string]*domain.RentBooking{
		"rb_1": {ID: "rb_1", TenantID: "tenant_1", GracePeriodDays: 5, LateFeeRate: 0.05},
	}}
	payments := &fakePaymentRepo{payments: map[string]*domain.MonthlyPayment{
		// Ten days late: past the five day grace period.
		"pay_late": {ID: "pay_late", RentBookingID: "rb_1", Amount: 1000, Status: domain.PaymentPending, DueDate: now.AddDate(0, 0, -10)},
		// Two days late: still inside grace.
		"pay_grace": {ID: "pay_grace", RentBookingID: "rb_1", Amount: 1000, Status: domain.PaymentPending, DueDate: now.AddDate(0, 0, -2)},
		// Not yet due.
		"pay_future": {ID: "pay_future", RentBookingID: "rb_1", Amount: 1000, Status: domain.PaymentPending, DueDate: now.AddDate(0, 0, 10)},
	}}
	notifier := &fakeNotifier{}
	p := newTestProcessor(payments, rents, nil, notifier, nil)

	if err := p.HandleCheckOverdueTask(context.Background(), asynq.NewTask(TypeCheckOverdue, nil)); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	late := payments.payments["pay_late"]
	if late.Status != domain.PaymentOverdue {
		t.Errorf("late payment: got %s, want OVERDUE", late.Status)
	}
	if late.LateFee != 50 {
		t.Errorf("late fee: got %v, want 50", late.LateFee)
	}
	if payments.payments["pay_grace"].Status != domain.PaymentPending {
		t.Errorf("payment inside grace must stay PENDING")
	}
	if payments.payments["pay_future"].Status != domain.PaymentPending {
		t.Errorf("future payment must stay PENDING")
	}
	if len(notifier.bookings) != 1 || notifier.bookings[0].Type != domain.NotifyPaymentOverdue {
		t.Errorf("tenant should receive one overdue notification, got %d", len(notifier.bookings))
	}
}

func TestHandleCheckOverdueTaskSkipsOrphans(t *testing.T) {
	now := time.Now().UTC()
	payments := &fakePaymentRepo{payments: map[string]*domain.MonthlyPayment{
		"pay_orphan": {ID: "pay_orphan", RentBookingID: "gone", Amount: 1000, Status: domain.PaymentPending, DueDate: now.AddDate(0, 0, -30)},
	}}
	p := newTestProcessor(payments, nil, nil, nil, nil)

	if err := p.HandleCheckOverdueTask(context.Background(), asynq.NewTask(TypeCheckOverdue, nil)); err != nil {
		t.Fatalf("sweep should not fail on a broken booking reference: %v", err)
	}
	if payments.payments["pay_orphan"].Status != domain.PaymentPending {
		t.Errorf("orphaned payment must be left alone")
	}
}

func TestHandleNotificationEmailTask(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*domain.User{
		"user_1": {ID: "user_1", Email: "ada@example.com"},
	}}
	sender := &recordingSender{}
	p := newTestProcessor(nil, nil, users, nil, sender)

	payload, _ := json.Marshal(emailTaskPayload{RecipientID: "user_1", Subject: "Booking Approved", Body: "hi"})
	if err := p.HandleNotificationEmailTask(context.Background(), asynq.NewTask(TypeNotificationEmail, payload)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "ada@example.com:Booking Approved" {
		t.Errorf("delivery not recorded: %v", sender.sent)
	}
}

func TestHandleNotificationEmailTaskUnknownRecipient(t *testing.T) {
	p := newTestProcessor(nil, nil, nil, nil, nil)

	payload, _ := json.Marshal(emailTaskPayload{RecipientID: "ghost"})
	err := p.HandleNotificationEmailTask(context.Background(), asynq.NewTask(TypeNotificationEmail, payload))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("unknown recipient should not be retried, got %v", err)
	}
}

func TestHandleNotificationEmailTaskBadPayload(t *testing.T) {
	p := newTestProcessor(nil, nil, nil, nil, nil)

	err := p.HandleNotificationEmailTask(context.Background(), asynq.NewTask(TypeNotificationEmail, []byte("{not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should not be retried, got %v", err)
	}
}
