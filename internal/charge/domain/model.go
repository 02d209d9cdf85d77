package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Charge is a cached snapshot of a gateway invoice, keyed by the payer's CPF
// so lost checkout links can be recovered without calling the gateway. It is
// not authoritative; the gateway and the order are.
type Charge struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	TenantID       snowflake.ID   `json:"tenant_id" gorm:"not null;index"`
	OrderID        snowflake.ID   `json:"order_id" gorm:"not null;index"`
	IdempotencyKey string         `json:"idempotency_key" gorm:"type:text;not null;index"` // digits-only CPF
	PayerName      string         `json:"payer_name" gorm:"type:text"`
	InvoiceURL     string         `json:"invoice_url" gorm:"type:text;not null"`
	DueDate        time.Time      `json:"due_date"`
	Snapshot       datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null"`
}

func (Charge) TableName() string { return "charges" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	// FindLatestByKey returns the newest cached charge for an idempotency
	// key, or nil when none exists.
	FindLatestByKey(ctx context.Context, db *gorm.DB, key string) (*Charge, error)
}
