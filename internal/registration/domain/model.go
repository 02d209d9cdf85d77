package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusConfirmed       Status = "confirmed"
	StatusCanceled        Status = "canceled"
)

var ErrNotFound = errors.New("registration_not_found")

// Registration is a person's signup for an event. It is created pending by
// the submission flow and confirmed only by payment reconciliation.
type Registration struct {
	ID        snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID  snowflake.ID  `json:"tenant_id" gorm:"not null;index"`
	OwnerID   snowflake.ID  `json:"owner_id" gorm:"not null;index"`
	Name      string        `json:"name" gorm:"type:text;not null"`
	CPF       string        `json:"cpf" gorm:"type:text;not null;index"` // digits only
	EventID   snowflake.ID  `json:"event_id" gorm:"not null"`
	Status    Status        `json:"status" gorm:"type:text;not null"`
	OrderID   *snowflake.ID `json:"order_id"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"not null"`
}

func (Registration) TableName() string { return "registrations" }
