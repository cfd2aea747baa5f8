package domain

import (
	"errors"
	"time"
)

// InquiryStatus represents the lifecycle state of a negotiation thread.
type InquiryStatus string

const (
	InquiryPending     InquiryStatus = "PENDING"
	InquiryActive      InquiryStatus = "ACTIVE"
	InquiryNegotiating InquiryStatus = "NEGOTIATING"
	InquiryAgreed      InquiryStatus = "AGREED"
	InquiryPurchased   InquiryStatus = "PURCHASED"
	InquiryCancelled   InquiryStatus = "CANCELLED"
	InquiryRejected    InquiryStatus = "REJECTED"
	InquiryClosed      InquiryStatus = "CLOSED"
)

// inquiryTransitions defines the allowed state machine transitions.
// Terminal states (PURCHASED, CANCELLED, REJECTED, CLOSED) have no entry.
var inquiryTransitions = map[InquiryStatus][]InquiryStatus{
	InquiryPending:     {InquiryActive, InquiryNegotiating, InquiryAgreed, InquiryCancelled, InquiryRejected, InquiryClosed},
	InquiryActive:      {InquiryNegotiating, InquiryAgreed, InquiryCancelled, InquiryRejected, InquiryClosed},
	InquiryNegotiating: {InquiryNegotiating, InquiryAgreed, InquiryCancelled, InquiryRejected, InquiryClosed},
	InquiryAgreed:      {InquiryNegotiating, InquiryPurchased, InquiryCancelled, InquiryRejected, InquiryClosed},
}

var ErrInquiryNotFound = errors.New("inquiry not found")
var ErrDuplicateInquiry = errors.New("an active inquiry already exists for this property")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrUnknownStatus = errors.New("unknown inquiry status")
var ErrNotPaymentReady = errors.New("inquiry is not in payment-ready state")
var ErrForbidden = errors.New("access forbidden")

// ParseInquiryStatus validates a raw status string against the enum.
func ParseInquiryStatus(s string) (InquiryStatus, error) {
	switch st := InquiryStatus(s); st {
	case InquiryPending, InquiryActive, InquiryNegotiating, InquiryAgreed,
		InquiryPurchased, InquiryCancelled, InquiryRejected, InquiryClosed:
		return st, nil
	}
	return "", ErrUnknownStatus
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s InquiryStatus) CanTransitionTo(next InquiryStatus) bool {
	for _, allowed := range inquiryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s InquiryStatus) Terminal() bool {
	_, ok := inquiryTransitions[s]
	return !ok
}

// DocumentStatus tracks KYC document verification within an inquiry.
type DocumentStatus string

const (
	DocumentNone     DocumentStatus = "NONE"
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

// Inquiry is one prospective buyer/tenant negotiation thread over one
// property. At most one non-terminal inquiry may exist per (client, property)
// pair; the repository enforces this with a partial unique index.
type Inquiry struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	PropertyID     string         `json:"property_id" bson:"property_id"`
	ClientID       string         `json:"client_id" bson:"client_id"`
	OwnerID        string         `json:"owner_id" bson:"owner_id"`
	Status         InquiryStatus  `json:"status" bson:"status"`
	OfferedPrice   float64        `json:"offered_price,omitempty" bson:"offered_price,omitempty"`
	AgreedPrice    float64        `json:"agreed_price,omitempty" bson:"agreed_price,omitempty"`
	DocumentStatus DocumentStatus `json:"document_status" bson:"document_status"`
	DocumentURL    string         `json:"document_url,omitempty" bson:"document_url,omitempty"`
	ClosedAt       *time.Time     `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// Participant reports whether userID is one of the two negotiating parties.
func (i *Inquiry) Participant(userID string) bool {
	return userID == i.ClientID || userID == i.OwnerID
}

// CounterpartyOf returns the other participant's ID.
func (i *Inquiry) CounterpartyOf(userID string) string {
	if userID == i.ClientID {
		return i.OwnerID
	}
	return i.ClientID
}
