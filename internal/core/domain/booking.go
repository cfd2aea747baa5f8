package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the lifecycle state of a tenancy booking.
type BookingStatus string

const (
	BookingPendingApproval BookingStatus = "PENDING_APPROVAL"
	BookingActive          BookingStatus = "ACTIVE"
	BookingExtended        BookingStatus = "EXTENDED"
	BookingCompleted       BookingStatus = "COMPLETED"
	BookingCancelled       BookingStatus = "CANCELLED"
	BookingRejected        BookingStatus = "REJECTED"
	BookingTerminated      BookingStatus = "TERMINATED"
)

// bookingTransitions defines the allowed state machine transitions.
// EXTENDED applies to rent bookings only; PG bookings never enter it.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPendingApproval: {BookingActive, BookingRejected, BookingCancelled},
	BookingActive:          {BookingExtended, BookingCompleted, BookingCancelled, BookingTerminated},
	BookingExtended:        {BookingCompleted, BookingCancelled, BookingTerminated},
}

var ErrBookingNotFound = errors.New("booking not found")
var ErrBookingNotPending = errors.New("booking is not pending approval")
var ErrBookingNotActive = errors.New("booking is not active")
var ErrBookingConflict = errors.New("resource is not available for the requested dates")
var ErrDocumentsNotApproved = errors.New("documents must be approved via inquiry before booking approval")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// openBookingEnd substitutes for a missing end date in overlap checks.
var openBookingEnd = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

// RentBooking is a whole-property tenancy agreement.
type RentBooking struct {
	ID                 string        `json:"id" bson:"_id,omitempty"`
	PropertyID         string        `json:"property_id" bson:"property_id"`
	TenantID           string        `json:"tenant_id" bson:"tenant_id"`
	OwnerID            string        `json:"owner_id" bson:"owner_id"`
	StartDate          time.Time     `json:"start_date" bson:"start_date"`
	EndDate            *time.Time    `json:"end_date,omitempty" bson:"end_date,omitempty"`
	MonthlyRent        float64       `json:"monthly_rent" bson:"monthly_rent"`
	SecurityDeposit    float64       `json:"security_deposit,omitempty" bson:"security_deposit,omitempty"`
	Status             BookingStatus `json:"status" bson:"status"`
	ApprovalDate       *time.Time    `json:"approval_date,omitempty" bson:"approval_date,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	TerminationReason  string        `json:"termination_reason,omitempty" bson:"termination_reason,omitempty"`
	TerminationDate    *time.Time    `json:"termination_date,omitempty" bson:"termination_date,omitempty"`
	LateFeeRate        float64       `json:"late_fee_rate" bson:"late_fee_rate"`
	GracePeriodDays    int           `json:"grace_period_days" bson:"grace_period_days"`
	IsPaid             bool          `json:"is_paid" bson:"is_paid"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at"`
}

// EffectiveEnd returns the booking end, treating open-ended tenancies as
// extending to the far future for conflict checks.
func (b *RentBooking) EffectiveEnd() time.Time {
	if b.EndDate == nil {
		return openBookingEnd
	}
	return *b.EndDate
}

// Overlaps reports whether [start, end] intersects this booking's interval.
// Full interval intersection, not the two-boundary shortcut: an engulfing
// range must also count as a conflict.
func (b *RentBooking) Overlaps(start, end time.Time) bool {
	if end.IsZero() {
		end = openBookingEnd
	}
	return !b.StartDate.After(end) && !b.EffectiveEnd().Before(start)
}

// PgBooking is a bed-level paying-guest tenancy agreement.
type PgBooking struct {
	ID                 string        `json:"id" bson:"_id,omitempty"`
	BedID              string        `json:"bed_id" bson:"bed_id"`
	PropertyID         string        `json:"property_id" bson:"property_id"`
	TenantID           string        `json:"tenant_id" bson:"tenant_id"`
	OwnerID            string        `json:"owner_id" bson:"owner_id"`
	StartDate          time.Time     `json:"start_date" bson:"start_date"`
	EndDate            *time.Time    `json:"end_date,omitempty" bson:"end_date,omitempty"`
	MonthlyRent        float64       `json:"monthly_rent" bson:"monthly_rent"`
	SecurityDeposit    float64       `json:"security_deposit,omitempty" bson:"security_deposit,omitempty"`
	Status             BookingStatus `json:"status" bson:"status"`
	ApprovalDate       *time.Time    `json:"approval_date,omitempty" bson:"approval_date,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
	TerminationReason  string        `json:"termination_reason,omitempty" bson:"termination_reason,omitempty"`
	TerminationDate    *time.Time    `json:"termination_date,omitempty" bson:"termination_date,omitempty"`
	LateFeeRate        float64       `json:"late_fee_rate" bson:"late_fee_rate"`
	GracePeriodDays    int           `json:"grace_period_days" bson:"grace_period_days"`
	IsPaid             bool          `json:"is_paid" bson:"is_paid"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" bson:"updated_at"`
}
