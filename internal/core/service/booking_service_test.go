package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

type stubRentBookingRepo struct {
	bookings map[string]*domain.RentBooking
	seq      int
}

func newStubRentBookingRepo() *stubRentBookingRepo {
	return &stubRentBookingRepo{bookings: make(map[string]*domain.RentBooking)}
}

func (r *stubRentBookingRepo) Create(_ context.Context, b *domain.RentBooking) (*domain.RentBooking, error) {
	r.seq++
	b.ID = fmt.Sprintf("rb_%d", r.seq)
	cp := *b
	r.bookings[b.ID] = &cp
	return b, nil
}

func (r *stubRentBookingRepo) FindByID(_ context.Context, id string) (*domain.RentBooking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubRentBookingRepo) FindConflicting(_ context.Context, propertyID string, start, end time.Time) (*domain.RentBooking, error) {
	for _, b := range r.bookings {
		open := b.Status == domain.BookingPendingApproval || b.Status == domain.BookingActive || b.Status == domain.BookingExtended
		if b.PropertyID == propertyID && open && b.Overlaps(start, end) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRentBookingRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.RentBooking, error) {
	var out []*domain.RentBooking
	for _, b := range r.bookings {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubRentBookingRepo) ListByOwner(_ context.Context, ownerID string, status domain.BookingStatus) ([]*domain.RentBooking, error) {
	var out []*domain.RentBooking
	for _, b := range r.bookings {
		if (ownerID == "" || b.OwnerID == ownerID) && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubRentBookingRepo) Update(_ context.Context, b *domain.RentBooking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

type stubPgBookingRepo struct {
	bookings map[string]*domain.PgBooking
	seq      int
}

func newStubPgBookingRepo() *stubPgBookingRepo {
	return &stubPgBookingRepo{bookings: make(map[string]*domain.PgBooking)}
}

func (r *stubPgBookingRepo) Create(_ context.Context, b *domain.PgBooking) (*domain.PgBooking, error) {
	r.seq++
	b.ID = fmt.Sprintf("pb_%d", r.seq)
	cp := *b
	r.bookings[b.ID] = &cp
	return b, nil
}

func (r *stubPgBookingRepo) FindByID(_ context.Context, id string) (*domain.PgBooking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubPgBookingRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.PgBooking, error) {
	var out []*domain.PgBooking
	for _, b := range r.bookings {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubPgBookingRepo) ListByOwner(_ context.Context, ownerID string, status domain.BookingStatus) ([]*domain.PgBooking, error) {
	var out []*domain.PgBooking
	for _, b := range r.bookings {
		if (ownerID == "" || b.OwnerID == ownerID) && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubPgBookingRepo) Update(_ context.Context, b *domain.PgBooking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

type stubPaymentRepo struct {
	payments map[string]*domain.MonthlyPayment
	seq      int
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[string]*domain.MonthlyPayment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.MonthlyPayment) (*domain.MonthlyPayment, error) {
	r.seq++
	p.ID = fmt.Sprintf("pay_%d", r.seq)
	cp := *p
	r.payments[p.ID] = &cp
	return p, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.MonthlyPayment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPaymentRepo) LatestForBooking(_ context.Context, bookingID string, rent bool) (*domain.MonthlyPayment, error) {
	var latest *domain.MonthlyPayment
	for _, p := range r.payments {
		match := (rent && p.RentBookingID == bookingID) || (!rent && p.PgBookingID == bookingID)
		if match && (latest == nil || p.DueDate.After(latest.DueDate)) {
			latest = p
		}
	}
	return latest, nil
}

func (r *stubPaymentRepo) ListForBookings(_ context.Context, rentIDs, pgIDs []string, status domain.PaymentStatus) ([]*domain.MonthlyPayment, error) {
	in := func(id string, ids []string) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}
	var out []*domain.MonthlyPayment
	for _, p := range r.payments {
		if status != "" && p.Status != status {
			continue
		}
		if in(p.RentBookingID, rentIDs) || in(p.PgBookingID, pgIDs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) ListDueBefore(_ context.Context, cutoff time.Time) ([]*domain.MonthlyPayment, error) {
	var out []*domain.MonthlyPayment
	for _, p := range r.payments {
		if p.Status == domain.PaymentPending && p.DueDate.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) Update(_ context.Context, p *domain.MonthlyPayment) error {
	if _, ok := r.payments[p.ID]; !ok {
		return domain.ErrPaymentNotFound
	}
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

type stubPgRepo struct {
	beds map[string]*domain.PgBed
}

func (r *stubPgRepo) FindBed(_ context.Context, bedID string) (*domain.PgBed, error) {
	bed, ok := r.beds[bedID]
	if !ok {
		return nil, domain.ErrBedNotFound
	}
	cp := *bed
	return &cp, nil
}

func (r *stubPgRepo) SetBedOccupied(_ context.Context, bedID string, occupied bool) error {
	bed, ok := r.beds[bedID]
	if !ok {
		return domain.ErrBedNotFound
	}
	bed.Occupied = occupied
	return nil
}

type bookingFixture struct {
	svc        *BookingService
	rent       *stubRentBookingRepo
	pgBookings *stubPgBookingRepo
	payments   *stubPaymentRepo
	properties *stubPropertyRepo
	pg         *stubPgRepo
	inquiries  *stubInquiryRepo
	wallet     *stubWallet
	notifier   *stubNotifier
}

func newBookingFixture(balances map[string]float64, props ...*domain.Property) *bookingFixture {
	f := &bookingFixture{
		rent:       newStubRentBookingRepo(),
		pgBookings: newStubPgBookingRepo(),
		payments:   newStubPaymentRepo(),
		properties: newStubPropertyRepo(props...),
		pg:         &stubPgRepo{beds: make(map[string]*domain.PgBed)},
		inquiries:  newStubInquiryRepo(),
		wallet:     newStubWallet(balances),
		notifier:   &stubNotifier{},
	}
	f.svc = NewBookingService(f.rent, f.pgBookings, f.payments, f.properties, f.pg, f.inquiries, f.wallet, f.notifier, nopTx{}, zerolog.Nop())
	return f
}

func rentalProperty() *domain.Property {
	return &domain.Property{
		ID:          "prop_1",
		Title:       "Lakeview Flat",
		Price:       1200,
		ListingType: domain.ListingRent,
		Status:      domain.PropertyForRent,
		OwnerID:     "owner_1",
	}
}

// agreeWithDocuments plants the AGREED inquiry with approved documents that
// booking approval requires.
func (f *bookingFixture) agreeWithDocuments(propertyID, clientID string) {
	f.inquiries.Create(context.Background(), &domain.Inquiry{
		PropertyID:     propertyID,
		ClientID:       clientID,
		OwnerID:        "owner_1",
		Status:         domain.InquiryAgreed,
		DocumentStatus: domain.DocumentApproved,
	})
}

func TestBookingServiceCreateRent(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	booking, err := f.svc.CreateRent(context.Background(), clientActor, ports.CreateRentBookingInput{
		PropertyID: "prop_1", StartDate: start, SecurityDeposit: 2400,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if booking.Status != domain.BookingPendingApproval {
		t.Errorf("status: got %s, want PENDING_APPROVAL", booking.Status)
	}
	if booking.MonthlyRent != 1200 {
		t.Errorf("rent should default to the listing price, got %v", booking.MonthlyRent)
	}
	if len(f.notifier.bookings) != 1 || f.notifier.bookings[0].RecipientID != "owner_1" {
		t.Errorf("owner should be notified of the request")
	}
}

func TestBookingServiceCreateRentConflict(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)
	f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "someone", OwnerID: "owner_1",
		StartDate: start, EndDate: &end, Status: domain.BookingActive,
	})

	_, err := f.svc.CreateRent(context.Background(), clientActor, ports.CreateRentBookingInput{
		PropertyID: "prop_1", StartDate: start.AddDate(0, 2, 0),
	})
	if !errors.Is(err, domain.ErrBookingConflict) {
		t.Fatalf("got %v, want ErrBookingConflict", err)
	}
}

func TestBookingServiceCreateRentUnavailable(t *testing.T) {
	prop := rentalProperty()
	prop.Status = domain.PropertyRented
	f := newBookingFixture(nil, prop)

	_, err := f.svc.CreateRent(context.Background(), clientActor, ports.CreateRentBookingInput{
		PropertyID: "prop_1", StartDate: time.Now(),
	})
	if !errors.Is(err, domain.ErrPropertyUnavailable) {
		t.Fatalf("got %v, want ErrPropertyUnavailable", err)
	}
}

func TestBookingServiceApproveRent(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 5000}, rentalProperty())
	f.agreeWithDocuments("prop_1", "client_1")
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, SecurityDeposit: 2400, Status: domain.BookingPendingApproval,
	})

	approved, err := f.svc.ApproveRent(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if approved.Status != domain.BookingActive {
		t.Errorf("status: got %s, want ACTIVE", approved.Status)
	}
	if !approved.IsPaid || approved.ApprovalDate == nil {
		t.Errorf("approval should stamp payment and date: %+v", approved)
	}
	// Deposit plus first month.
	if f.wallet.balances["client_1"] != 5000-3600 {
		t.Errorf("balance: got %v, want 1400", f.wallet.balances["client_1"])
	}

	prop, _ := f.properties.FindByID(context.Background(), "prop_1")
	if prop.Status != domain.PropertyRented {
		t.Errorf("property status: got %s, want RENTED", prop.Status)
	}
	if len(f.payments.payments) != 1 {
		t.Fatalf("first month payment record missing")
	}
	for _, p := range f.payments.payments {
		if p.Status != domain.PaymentPaid || p.Amount != 1200 {
			t.Errorf("first payment should be PAID for one month: %+v", p)
		}
	}
}

func TestBookingServiceApproveRentTwice(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 10000}, rentalProperty())
	f.agreeWithDocuments("prop_1", "client_1")
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, SecurityDeposit: 2400, Status: domain.BookingPendingApproval,
	})

	if _, err := f.svc.ApproveRent(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := f.svc.ApproveRent(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if !errors.Is(err, domain.ErrBookingNotPending) {
		t.Fatalf("second approve: got %v, want ErrBookingNotPending", err)
	}
	// The wallet was charged exactly once.
	if len(f.wallet.debits) != 1 {
		t.Errorf("debits: got %d, want 1", len(f.wallet.debits))
	}
	if f.wallet.balances["client_1"] != 10000-3600 {
		t.Errorf("balance: got %v, want 6400", f.wallet.balances["client_1"])
	}
}

func TestBookingServiceApproveRentWithoutDocuments(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 5000}, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, Status: domain.BookingPendingApproval,
	})

	_, err := f.svc.ApproveRent(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if !errors.Is(err, domain.ErrDocumentsNotApproved) {
		t.Fatalf("got %v, want ErrDocumentsNotApproved", err)
	}
}

func TestBookingServiceApproveRentNotOwner(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		Status: domain.BookingPendingApproval,
	})

	_, err := f.svc.ApproveRent(context.Background(), clientActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestBookingServiceApproveRentInsufficientFunds(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 100}, rentalProperty())
	f.agreeWithDocuments("prop_1", "client_1")
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, SecurityDeposit: 2400, Status: domain.BookingPendingApproval,
	})

	_, err := f.svc.ApproveRent(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
}

func TestBookingServiceApprovePgOccupiesBed(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 5000}, rentalProperty())
	f.pg.beds["bed_1"] = &domain.PgBed{ID: "bed_1", PropertyID: "prop_1", BedNumber: "A1", MonthlyRent: 400}
	f.agreeWithDocuments("prop_1", "client_1")
	booking, _ := f.pgBookings.Create(context.Background(), &domain.PgBooking{
		BedID: "bed_1", PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 400, SecurityDeposit: 800, Status: domain.BookingPendingApproval,
	})

	approved, err := f.svc.ApprovePg(context.Background(), ownerActor, ports.ApproveBookingInput{BookingID: booking.ID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.BookingActive {
		t.Errorf("status: got %s, want ACTIVE", approved.Status)
	}
	if !f.pg.beds["bed_1"].Occupied {
		t.Errorf("bed should be occupied after approval")
	}
}

func TestBookingServiceCreatePgOccupiedBed(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	f.pg.beds["bed_1"] = &domain.PgBed{ID: "bed_1", PropertyID: "prop_1", Occupied: true}

	_, err := f.svc.CreatePg(context.Background(), clientActor, ports.CreatePgBookingInput{
		BedID: "bed_1", StartDate: time.Now(),
	})
	if !errors.Is(err, domain.ErrBedOccupied) {
		t.Fatalf("got %v, want ErrBedOccupied", err)
	}
}

func TestBookingServiceCancelRefundsDeposit(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 0}, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		SecurityDeposit: 2400, Status: domain.BookingActive, IsPaid: true,
	})

	if err := f.svc.Cancel(context.Background(), clientActor, booking.ID, "moving out", true); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	updated, _ := f.rent.FindByID(context.Background(), booking.ID)
	if updated.Status != domain.BookingCancelled {
		t.Errorf("status: got %s, want CANCELLED", updated.Status)
	}
	if f.wallet.balances["client_1"] != 2400 {
		t.Errorf("deposit refund: got %v, want 2400", f.wallet.balances["client_1"])
	}
	prop, _ := f.properties.FindByID(context.Background(), "prop_1")
	if prop.Status != domain.PropertyForRent {
		t.Errorf("property should be released, got %s", prop.Status)
	}
}

func TestBookingServiceCancelTerminalRefused(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		Status: domain.BookingCompleted,
	})

	err := f.svc.Cancel(context.Background(), clientActor, booking.ID, "", false)
	if !errors.Is(err, domain.ErrBookingNotActive) {
		t.Fatalf("got %v, want ErrBookingNotActive", err)
	}
}

func TestBookingServicePayMonthlyRent(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 2000}, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, Status: domain.BookingActive,
	})
	due := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	payment, _ := f.payments.Create(context.Background(), &domain.MonthlyPayment{
		RentBookingID: booking.ID, DueDate: due, Amount: 1200, LateFee: 60,
		Status: domain.PaymentOverdue,
	})

	paid, err := f.svc.PayMonthlyRent(context.Background(), clientActor, payment.ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != domain.PaymentPaid || paid.PaidDate == nil || paid.PaymentReference == "" {
		t.Errorf("payment not settled: %+v", paid)
	}
	// Amount plus the accrued late fee.
	if f.wallet.balances["client_1"] != 2000-1260 {
		t.Errorf("balance: got %v, want 740", f.wallet.balances["client_1"])
	}

	// The next month's obligation is scheduled.
	if len(f.payments.payments) != 2 {
		t.Fatalf("next obligation missing, have %d payments", len(f.payments.payments))
	}
	next, _ := f.payments.LatestForBooking(context.Background(), booking.ID, true)
	wantDue := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !next.DueDate.Equal(wantDue) || next.Status != domain.PaymentPending || next.Amount != 1200 {
		t.Errorf("next obligation wrong: %+v", next)
	}
}

func TestBookingServicePayMonthlyRentAlreadyPaid(t *testing.T) {
	f := newBookingFixture(map[string]float64{"client_1": 2000}, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		MonthlyRent: 1200, Status: domain.BookingActive,
	})
	payment, _ := f.payments.Create(context.Background(), &domain.MonthlyPayment{
		RentBookingID: booking.ID, Amount: 1200, Status: domain.PaymentPaid,
	})

	_, err := f.svc.PayMonthlyRent(context.Background(), clientActor, payment.ID)
	if !errors.Is(err, domain.ErrPaymentNotPending) {
		t.Fatalf("got %v, want ErrPaymentNotPending", err)
	}
}

func TestBookingServiceTerminateRent(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	booking, _ := f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "client_1", OwnerID: "owner_1",
		Status: domain.BookingActive,
	})

	terminated, err := f.svc.TerminateRent(context.Background(), ownerActor, booking.ID, "lease violation")
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if terminated.Status != domain.BookingTerminated || terminated.TerminationDate == nil {
		t.Errorf("termination not recorded: %+v", terminated)
	}
	prop, _ := f.properties.FindByID(context.Background(), "prop_1")
	if prop.Status != domain.PropertyForRent {
		t.Errorf("property should be released, got %s", prop.Status)
	}
}

func TestBookingServicePendingApprovals(t *testing.T) {
	f := newBookingFixture(nil, rentalProperty())
	f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "a", OwnerID: "owner_1", Status: domain.BookingPendingApproval,
	})
	f.rent.Create(context.Background(), &domain.RentBooking{
		PropertyID: "prop_1", TenantID: "b", OwnerID: "owner_1", Status: domain.BookingActive,
	})

	result, err := f.svc.PendingApprovals(context.Background(), ownerActor)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(result.RentBookings) != 1 || result.RentBookings[0].Status != domain.BookingPendingApproval {
		t.Errorf("pending view should contain only the unapproved request")
	}
}
