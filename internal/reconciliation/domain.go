// Package reconciliation turns at-least-once gateway webhook deliveries into
// exactly-one order mutation per confirmed payment.
package reconciliation

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	// ErrEventIgnored marks event names outside the reconciliation contract.
	// The handler acknowledges these so the gateway does not retry.
	ErrEventIgnored = errors.New("event_ignored")

	// ErrAwaitingPayment means the authoritative gateway status is not yet
	// settled; acknowledged without mutation.
	ErrAwaitingPayment = errors.New("awaiting_payment")

	// ErrOrderNotFound means no order matched after the full fallback chain.
	ErrOrderNotFound = errors.New("order_not_found")

	// ErrStoreMutation wraps a failed commit after a successful match. The
	// order id is logged for manual reconciliation.
	ErrStoreMutation = errors.New("store_mutation_failed")
)

// Event mirrors the gateway's webhook body.
type Event struct {
	Event     string        `json:"event"`
	AccountID string        `json:"accountId"`
	Payment   *EventPayment `json:"payment"`
}

// EventPayment is the payment fragment of a webhook body. It is a hint only;
// authoritative state is always re-fetched from the gateway.
type EventPayment struct {
	ID                string `json:"id"`
	AccountID         string `json:"accountId"`
	ExternalReference string `json:"externalReference"`
	Customer          string `json:"customer"`
}

func (e Event) accountID() string {
	if e.Payment != nil && e.Payment.AccountID != "" {
		return e.Payment.AccountID
	}
	return e.AccountID
}

func (e Event) externalReference() string {
	if e.Payment == nil {
		return ""
	}
	return e.Payment.ExternalReference
}

// Outcome reports what one processed event did.
type Outcome struct {
	OrderID        snowflake.ID
	RegistrationID snowflake.ID
	TenantID       snowflake.ID
}
