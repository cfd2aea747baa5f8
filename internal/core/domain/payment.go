package domain

import (
	"errors"
	"time"
)

// PaymentStatus tracks one monthly rent obligation.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

var ErrPaymentNotFound = errors.New("payment not found")
var ErrPaymentNotPending = errors.New("payment is not pending")

// MonthlyPayment is one rent obligation tied to exactly one booking
// (rent xor PG).
type MonthlyPayment struct {
	ID               string        `json:"id" bson:"_id,omitempty"`
	RentBookingID    string        `json:"rent_booking_id,omitempty" bson:"rent_booking_id,omitempty"`
	PgBookingID      string        `json:"pg_booking_id,omitempty" bson:"pg_booking_id,omitempty"`
	DueDate          time.Time     `json:"due_date" bson:"due_date"`
	Amount           float64       `json:"amount" bson:"amount"`
	Status           PaymentStatus `json:"status" bson:"status"`
	PaidDate         *time.Time    `json:"paid_date,omitempty" bson:"paid_date,omitempty"`
	PaymentReference string        `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	LateFee          float64       `json:"late_fee,omitempty" bson:"late_fee,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
}

// Payable reports whether the tenant may still settle this obligation.
func (p *MonthlyPayment) Payable() bool {
	return p.Status == PaymentPending || p.Status == PaymentOverdue
}

// TotalDue is the amount owed including any accrued late fee.
func (p *MonthlyPayment) TotalDue() float64 {
	return p.Amount + p.LateFee
}

// NextDueDate returns the due date for the obligation that follows prev, or
// the first of the current month when no prior obligation exists.
func NextDueDate(prev *time.Time, now time.Time) time.Time {
	if prev == nil {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return prev.AddDate(0, 1, 0)
}
