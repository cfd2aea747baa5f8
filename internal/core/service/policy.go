package service

import (
	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

// Action names a capability checked by the policy.
type Action string

const (
	ActInquiryRead     Action = "inquiry:read"
	ActInquiryMessage  Action = "inquiry:message"
	ActInquiryCancel   Action = "inquiry:cancel"
	ActDocumentSubmit  Action = "document:submit"
	ActDocumentVerify  Action = "document:verify"
	ActPaymentApprove  Action = "payment:approve"
	ActPaymentExecute  Action = "payment:execute"
	ActBookingManage   Action = "booking:manage"
	ActBookingCancel   Action = "booking:cancel"
	ActPropertyCreate  Action = "property:create"
	ActPropertyClaim   Action = "property:claim"
	ActPropertyApprove Action = "property:approve"
	ActUserAdminister  Action = "user:administer"
)

// Resource describes the relationship-bearing parties of the thing being
// acted on. Empty fields mean "no such party".
type Resource struct {
	OwnerID  string // listing owner / booking owner / inquiry owner
	ClientID string // inquiry client / booking tenant
}

// CanPerform is the single authorization predicate consulted by every
// transport (HTTP and WebSocket alike). It is a pure function of the actor's
// role and their relationship to the resource.
func CanPerform(actor ports.Actor, action Action, res Resource) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}

	isOwner := res.OwnerID != "" && actor.ID == res.OwnerID
	isClient := res.ClientID != "" && actor.ID == res.ClientID

	switch action {
	case ActInquiryRead, ActInquiryMessage:
		return isOwner || isClient
	case ActInquiryCancel:
		return isOwner || isClient
	case ActDocumentSubmit, ActPaymentExecute:
		return isClient
	case ActDocumentVerify, ActPaymentApprove, ActBookingManage:
		return isOwner
	case ActBookingCancel:
		return isOwner || isClient
	case ActPropertyCreate, ActPropertyClaim:
		return actor.Role == domain.RoleAgent
	case ActPropertyApprove, ActUserAdminister:
		return false // admin only, handled above
	}
	return false
}
