package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
	StatusOverdue  Status = "overdue"
)

type Channel string

const (
	ChannelLoja      Channel = "loja"
	ChannelInscricao Channel = "inscricao"
	ChannelAvulso    Channel = "avulso"
)

var ErrNotFound = errors.New("order_not_found")

// Order is a billable unit, either tied to a registration or standalone.
// At most one non-canceled order exists per registration; only
// reconciliation moves it pending->paid.
type Order struct {
	ID               snowflake.ID  `json:"id" gorm:"primaryKey"`
	TenantID         snowflake.ID  `json:"tenant_id" gorm:"not null;index"`
	RegistrationID   *snowflake.ID `json:"registration_id" gorm:"index"`
	ResponsibleID    snowflake.ID  `json:"responsible_id" gorm:"not null;index"`
	PayerCPF         string        `json:"payer_cpf" gorm:"type:text;index"` // digits only
	PayerName        string        `json:"payer_name" gorm:"type:text"`
	PayerEmail       string        `json:"payer_email" gorm:"type:text"`
	GatewayPaymentID string        `json:"gateway_payment_id" gorm:"type:text;index"`
	GatewayChargeID  string        `json:"gateway_charge_id" gorm:"type:text"`
	PaymentLink      string        `json:"link_pagamento" gorm:"type:text"`
	Status           Status        `json:"status" gorm:"type:text;not null"`
	AmountCents      int64         `json:"amount_cents" gorm:"not null"`
	Channel          Channel       `json:"channel" gorm:"type:text;not null"`
	CreatedAt        time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"not null"`
}

func (Order) TableName() string { return "orders" }
