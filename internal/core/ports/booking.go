package ports

import (
	"context"
	"time"

	"github.com/homequest/realty-api/internal/core/domain"
)

// RentBookingRepository defines persistence for whole-property bookings.
//
// Create must rely on the partial unique index over property_id for
// {PENDING_APPROVAL, ACTIVE} statuses so that of two concurrent creates for
// the same property exactly one wins; the loser surfaces
// domain.ErrBookingConflict.
type RentBookingRepository interface {
	Create(ctx context.Context, b *domain.RentBooking) (*domain.RentBooking, error)
	FindByID(ctx context.Context, id string) (*domain.RentBooking, error)
	// FindConflicting returns an open booking whose interval intersects
	// [start, end] for the property, or nil.
	FindConflicting(ctx context.Context, propertyID string, start, end time.Time) (*domain.RentBooking, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.RentBooking, error)
	// ListByOwner returns all bookings when ownerID is empty (admin view);
	// status narrows the result when non-empty.
	ListByOwner(ctx context.Context, ownerID string, status domain.BookingStatus) ([]*domain.RentBooking, error)
	Update(ctx context.Context, b *domain.RentBooking) error
}

// PgBookingRepository defines persistence for bed-level bookings, with the
// same unique-index contract keyed on bed_id.
type PgBookingRepository interface {
	Create(ctx context.Context, b *domain.PgBooking) (*domain.PgBooking, error)
	FindByID(ctx context.Context, id string) (*domain.PgBooking, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.PgBooking, error)
	ListByOwner(ctx context.Context, ownerID string, status domain.BookingStatus) ([]*domain.PgBooking, error)
	Update(ctx context.Context, b *domain.PgBooking) error
}

// PaymentRepository defines persistence for monthly rent obligations.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.MonthlyPayment) (*domain.MonthlyPayment, error)
	FindByID(ctx context.Context, id string) (*domain.MonthlyPayment, error)
	// LatestForBooking returns the obligation with the greatest due date for
	// the booking, or nil when none exists.
	LatestForBooking(ctx context.Context, bookingID string, rent bool) (*domain.MonthlyPayment, error)
	ListForBookings(ctx context.Context, rentBookingIDs, pgBookingIDs []string, status domain.PaymentStatus) ([]*domain.MonthlyPayment, error)
	// ListDueBefore returns PENDING obligations whose due date is before cutoff.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.MonthlyPayment, error)
	Update(ctx context.Context, p *domain.MonthlyPayment) error
}

// CreateRentBookingInput requests a whole-property tenancy.
type CreateRentBookingInput struct {
	PropertyID      string
	StartDate       time.Time
	EndDate         *time.Time
	MonthlyRent     float64
	SecurityDeposit float64
}

// CreatePgBookingInput requests a bed-level tenancy.
type CreatePgBookingInput struct {
	BedID           string
	StartDate       time.Time
	EndDate         *time.Time
	MonthlyRent     float64
	SecurityDeposit float64
}

// ApproveBookingInput finalizes terms at approval time; zero values keep the
// requested terms.
type ApproveBookingInput struct {
	BookingID            string
	Message              string
	FinalMonthlyRent     float64
	FinalSecurityDeposit float64
}

// BookingsResult groups both booking kinds for list endpoints.
type BookingsResult struct {
	RentBookings []*domain.RentBooking
	PgBookings   []*domain.PgBooking
}

// BookingService drives the booking lifecycle and coordinates the wallet
// ledger and resource occupancy inside a single transactional boundary.
type BookingService interface {
	CreateRent(ctx context.Context, actor Actor, input CreateRentBookingInput) (*domain.RentBooking, error)
	CreatePg(ctx context.Context, actor Actor, input CreatePgBookingInput) (*domain.PgBooking, error)
	ApproveRent(ctx context.Context, actor Actor, input ApproveBookingInput) (*domain.RentBooking, error)
	ApprovePg(ctx context.Context, actor Actor, input ApproveBookingInput) (*domain.PgBooking, error)
	RejectRent(ctx context.Context, actor Actor, bookingID, reason string) (*domain.RentBooking, error)
	Cancel(ctx context.Context, actor Actor, bookingID, reason string, refundDeposit bool) error
	TerminateRent(ctx context.Context, actor Actor, bookingID, reason string) (*domain.RentBooking, error)
	PayMonthlyRent(ctx context.Context, actor Actor, paymentID string) (*domain.MonthlyPayment, error)
	ListMine(ctx context.Context, actor Actor) (*BookingsResult, error)
	ListOwned(ctx context.Context, actor Actor) (*BookingsResult, error)
	PendingApprovals(ctx context.Context, actor Actor) (*BookingsResult, error)
	MyPayments(ctx context.Context, actor Actor) ([]*domain.MonthlyPayment, error)
}
