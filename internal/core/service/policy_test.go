package service

import (
	"testing"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

func TestCanPerform(t *testing.T) {
	owner := ports.Actor{ID: "owner_1", Role: domain.RoleAgent}
	client := ports.Actor{ID: "client_1", Role: domain.RoleUser}
	admin := ports.Actor{ID: "admin_1", Role: domain.RoleAdmin}
	stranger := ports.Actor{ID: "other_1", Role: domain.RoleUser}

	res := Resource{OwnerID: "owner_1", ClientID: "client_1"}

	cases := []struct {
		name    string
		actor   ports.Actor
		action  Action
		allowed bool
	}{
		{"admin can do anything", admin, ActUserAdminister, true},
		{"owner reads inquiry", owner, ActInquiryRead, true},
		{"client reads inquiry", client, ActInquiryRead, true},
		{"stranger cannot read inquiry", stranger, ActInquiryRead, false},
		{"client submits documents", client, ActDocumentSubmit, true},
		{"owner cannot submit documents", owner, ActDocumentSubmit, false},
		{"owner verifies documents", owner, ActDocumentVerify, true},
		{"client cannot verify documents", client, ActDocumentVerify, false},
		{"owner approves payment", owner, ActPaymentApprove, true},
		{"client executes payment", client, ActPaymentExecute, true},
		{"owner cannot execute payment", owner, ActPaymentExecute, false},
		{"owner manages booking", owner, ActBookingManage, true},
		{"client cannot manage booking", client, ActBookingManage, false},
		{"client cancels booking", client, ActBookingCancel, true},
		{"owner cancels booking", owner, ActBookingCancel, true},
		{"agent creates property", owner, ActPropertyCreate, true},
		{"user cannot create property", client, ActPropertyCreate, false},
		{"agent cannot approve property", owner, ActPropertyApprove, false},
		{"user cannot administer users", client, ActUserAdminister, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanPerform(tc.actor, tc.action, res); got != tc.allowed {
				t.Errorf("got %v, want %v", got, tc.allowed)
			}
		})
	}
}

func TestCanPerformEmptyResource(t *testing.T) {
	actor := ports.Actor{ID: "u1", Role: domain.RoleUser}

	// A resource with no parties grants nothing to non-admins.
	if CanPerform(actor, ActInquiryRead, Resource{}) {
		t.Errorf("empty resource should not grant access")
	}
}
