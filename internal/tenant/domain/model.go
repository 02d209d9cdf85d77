package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is an isolated customer organization. Every record and gateway
// credential is scoped to exactly one tenant.
type Tenant struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	Name             string       `json:"name" gorm:"type:text;not null"`
	Hostname         string       `json:"hostname" gorm:"type:text;not null;uniqueIndex"`
	GatewayAccountID string       `json:"gateway_account_id" gorm:"type:text;index"`
	GatewayAPIKey    string       `json:"-" gorm:"type:text"`
	CreatedAt        time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"not null"`
}

func (Tenant) TableName() string { return "tenants" }

// Credentials is the identity resolved for one gateway event: whose tenant it
// belongs to, which API key may query the gateway for it, and any user or
// registration the embedded reference named.
type Credentials struct {
	TenantID       snowflake.ID
	APIKey         string
	UserID         snowflake.ID
	RegistrationID snowflake.ID
}
