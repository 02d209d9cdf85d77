package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)

	// FindByRegistration returns the order bound to a registration,
	// additionally scoped by responsible user when userID is non-zero.
	FindByRegistration(ctx context.Context, db *gorm.DB, tenantID, registrationID, userID snowflake.ID) (*Order, error)

	// FindByGatewayPaymentID matches an order by its stored gateway payment
	// id, additionally scoped by responsible user when userID is non-zero.
	FindByGatewayPaymentID(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, paymentID string, userID snowflake.ID) (*Order, error)

	// FindLatestByCPF returns the most recently created order whose payer
	// CPF matches, ties resolved by store order.
	FindLatestByCPF(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, cpf string) (*Order, error)

	// FindPayableByRegistration returns the newest non-canceled order for a
	// registration, used by link recovery.
	FindPayableByRegistration(ctx context.Context, db *gorm.DB, registrationID snowflake.ID) (*Order, error)

	// MarkPaid sets the order paid and stamps the gateway payment id. It is
	// idempotent: re-marking a paid order is a no-op update, never an error.
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, gatewayPaymentID string) error
}
