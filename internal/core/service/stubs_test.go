package service

import (
	"context"
	"fmt"
	"time"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

// In-memory fakes shared by the service tests. They implement only the
// behavior the services rely on: keyed lookup, sentinel not-found errors and
// the wallet's conditional debit.

type stubInquiryRepo struct {
	inquiries map[string]*domain.Inquiry
	seq       int
}

func newStubInquiryRepo() *stubInquiryRepo {
	return &stubInquiryRepo{inquiries: make(map[string]*domain.Inquiry)}
}

func (r *stubInquiryRepo) Create(_ context.Context, inq *domain.Inquiry) (*domain.Inquiry, error) {
	r.seq++
	inq.ID = fmt.Sprintf("inq_%d", r.seq)
	cp := *inq
	r.inquiries[inq.ID] = &cp
	return inq, nil
}

func (r *stubInquiryRepo) FindByID(_ context.Context, id string) (*domain.Inquiry, error) {
	inq, ok := r.inquiries[id]
	if !ok {
		return nil, domain.ErrInquiryNotFound
	}
	cp := *inq
	return &cp, nil
}

func (r *stubInquiryRepo) FindAgreed(_ context.Context, propertyID, clientID string) (*domain.Inquiry, error) {
	for _, inq := range r.inquiries {
		if inq.PropertyID == propertyID && inq.ClientID == clientID && inq.Status == domain.InquiryAgreed {
			cp := *inq
			return &cp, nil
		}
	}
	return nil, domain.ErrInquiryNotFound
}

func (r *stubInquiryRepo) ListByClient(_ context.Context, clientID string) ([]*domain.Inquiry, error) {
	var out []*domain.Inquiry
	for _, inq := range r.inquiries {
		if inq.ClientID == clientID {
			out = append(out, inq)
		}
	}
	return out, nil
}

func (r *stubInquiryRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Inquiry, error) {
	var out []*domain.Inquiry
	for _, inq := range r.inquiries {
		if ownerID == "" || inq.OwnerID == ownerID {
			out = append(out, inq)
		}
	}
	return out, nil
}

func (r *stubInquiryRepo) Update(_ context.Context, inq *domain.Inquiry) error {
	if _, ok := r.inquiries[inq.ID]; !ok {
		return domain.ErrInquiryNotFound
	}
	cp := *inq
	r.inquiries[inq.ID] = &cp
	return nil
}

type stubChatRepo struct {
	messages []*domain.ChatMessage
	seq      int
}

func (r *stubChatRepo) Append(_ context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	r.seq++
	msg.ID = fmt.Sprintf("msg_%d", r.seq)
	r.messages = append(r.messages, msg)
	return msg, nil
}

func (r *stubChatRepo) ListByInquiry(_ context.Context, inquiryID string) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range r.messages {
		if m.InquiryID == inquiryID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubChatRepo) MarkRead(_ context.Context, inquiryID, readerID string, at time.Time) error {
	for _, m := range r.messages {
		if m.InquiryID == inquiryID && m.SenderID != readerID {
			m.IsRead = true
			m.ReadAt = &at
		}
	}
	return nil
}

func (r *stubChatRepo) CountUnread(_ context.Context, inquiryIDs []string, readerID string) (int64, error) {
	ids := make(map[string]struct{}, len(inquiryIDs))
	for _, id := range inquiryIDs {
		ids[id] = struct{}{}
	}
	var n int64
	for _, m := range r.messages {
		if _, ok := ids[m.InquiryID]; ok && !m.IsRead && m.SenderID != readerID {
			n++
		}
	}
	return n, nil
}

type stubPropertyRepo struct {
	properties map[string]*domain.Property
}

func newStubPropertyRepo(props ...*domain.Property) *stubPropertyRepo {
	r := &stubPropertyRepo{properties: make(map[string]*domain.Property)}
	for _, p := range props {
		r.properties[p.ID] = p
	}
	return r
}

func (r *stubPropertyRepo) Create(_ context.Context, p *domain.Property) (*domain.Property, error) {
	if p.ID == "" {
		p.ID = fmt.Sprintf("prop_%d", len(r.properties)+1)
	}
	r.properties[p.ID] = p
	return p, nil
}

func (r *stubPropertyRepo) FindByID(_ context.Context, id string) (*domain.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPropertyRepo) List(_ context.Context, _ ports.ListPropertiesFilter) ([]*domain.Property, int64, error) {
	var out []*domain.Property
	for _, p := range r.properties {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPropertyRepo) UpdateStatus(_ context.Context, id string, status domain.PropertyStatus) error {
	p, ok := r.properties[id]
	if !ok {
		return domain.ErrPropertyNotFound
	}
	p.Status = status
	return nil
}

func (r *stubPropertyRepo) UpdateApproval(_ context.Context, id string, status domain.ApprovalStatus) error {
	p, ok := r.properties[id]
	if !ok {
		return domain.ErrPropertyNotFound
	}
	p.ApprovalStatus = status
	return nil
}

func (r *stubPropertyRepo) Claim(_ context.Context, id, ownerID string) error {
	p, ok := r.properties[id]
	if !ok {
		return domain.ErrPropertyNotFound
	}
	if p.OwnerID != "" {
		return domain.ErrPropertyClaimed
	}
	p.OwnerID = ownerID
	return nil
}

// stubWallet implements ports.WalletService with a flat per-user balance.
type stubWallet struct {
	balances map[string]float64
	debits   []float64
	credits  []float64
}

func newStubWallet(balances map[string]float64) *stubWallet {
	if balances == nil {
		balances = make(map[string]float64)
	}
	return &stubWallet{balances: balances}
}

func (w *stubWallet) GetOrCreate(_ context.Context, userID string) (*domain.Wallet, error) {
	return &domain.Wallet{ID: "w_" + userID, UserID: userID, Balance: w.balances[userID]}, nil
}

func (w *stubWallet) AddMoney(_ context.Context, userID string, amount float64, _, _ string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	w.balances[userID] += amount
	w.credits = append(w.credits, amount)
	return &domain.Wallet{UserID: userID, Balance: w.balances[userID]}, nil
}

func (w *stubWallet) DeductMoney(_ context.Context, userID string, amount float64, _, _ string) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if w.balances[userID] < amount {
		return nil, domain.ErrInsufficientFunds
	}
	w.balances[userID] -= amount
	w.debits = append(w.debits, amount)
	return &domain.Wallet{UserID: userID, Balance: w.balances[userID]}, nil
}

func (w *stubWallet) Transactions(_ context.Context, _ string) ([]*domain.WalletTransaction, error) {
	return nil, nil
}

// stubNotifier records published notifications without persistence.
type stubNotifier struct {
	published []*domain.Notification
	bookings  []*domain.BookingNotification
}

func (n *stubNotifier) Publish(_ context.Context, notif *domain.Notification) (*domain.Notification, error) {
	n.published = append(n.published, notif)
	return notif, nil
}

func (n *stubNotifier) PublishBooking(_ context.Context, notif *domain.BookingNotification) (*domain.BookingNotification, error) {
	n.bookings = append(n.bookings, notif)
	return notif, nil
}

func (n *stubNotifier) List(_ context.Context, _ ports.Actor, _ bool) ([]*domain.Notification, error) {
	return n.published, nil
}

func (n *stubNotifier) ListBooking(_ context.Context, _ ports.Actor) ([]*domain.BookingNotification, error) {
	return n.bookings, nil
}

func (n *stubNotifier) MarkRead(_ context.Context, _ ports.Actor, _ string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (n *stubNotifier) MarkBookingRead(_ context.Context, _ ports.Actor, _ string) (*domain.BookingNotification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (n *stubNotifier) UnreadCount(_ context.Context, _ ports.Actor) (int64, error) {
	return int64(len(n.published) + len(n.bookings)), nil
}

type pushedEvent struct {
	userID string
	event  ports.Event
}

type stubPusher struct {
	events []pushedEvent
}

func (p *stubPusher) Push(userID string, event ports.Event) {
	p.events = append(p.events, pushedEvent{userID: userID, event: event})
}

func (p *stubPusher) eventsFor(userID, name string) int {
	n := 0
	for _, e := range p.events {
		if e.userID == userID && e.event.Name == name {
			n++
		}
	}
	return n
}

// nopTx runs the function directly; rollback semantics are covered by the
// repository integration, not these tests.
type nopTx struct{}

func (nopTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubDedup struct {
	seen map[string]bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{seen: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, key string) (bool, error) {
	return d.seen[key], nil
}

func (d *stubDedup) Mark(_ context.Context, key string) error {
	d.seen[key] = true
	return nil
}
