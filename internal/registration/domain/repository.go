package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reg *Registration) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Registration, error)
	// FindLatestByCPF returns the newest registration for a CPF within one
	// tenant, or nil when none exists.
	FindLatestByCPF(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, cpf string) (*Registration, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) error
	LinkOrder(ctx context.Context, db *gorm.DB, id, orderID snowflake.ID) error
}
