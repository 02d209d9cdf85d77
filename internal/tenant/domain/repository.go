package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	FindByGatewayAccountID(ctx context.Context, db *gorm.DB, accountID string) (*Tenant, error)
	FindByHostname(ctx context.Context, db *gorm.DB, hostname string) (*Tenant, error)
}
