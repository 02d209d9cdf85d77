package reconciliation

import (
	"context"
	"errors"
	"strings"

	"github.com/inscrevia/inscrevia/internal/gateway"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"go.uber.org/zap"
)

// matchOrder finds the internally owned order for a confirmed payment,
// trying each lookup in priority order and stopping at the first hit:
//
//  1. by registration id from the external reference
//  2. by stored gateway payment id
//  3. by the gateway customer's CPF, newest order first
//
// All lookups are scoped to the resolved tenant; cross-tenant matches are
// forbidden.
func (s *Service) matchOrder(
	ctx context.Context,
	client *gateway.Client,
	creds tenantdomain.Credentials,
	payment *gateway.Payment,
) (*orderdomain.Order, error) {
	if creds.RegistrationID != 0 {
		order, err := s.orderRepo.FindByRegistration(ctx, s.db, creds.TenantID, creds.RegistrationID, creds.UserID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}

	order, err := s.orderRepo.FindByGatewayPaymentID(ctx, s.db, creds.TenantID, payment.ID, creds.UserID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}

	if payment.Customer != "" {
		customer, err := client.GetCustomer(ctx, payment.Customer)
		switch {
		case errors.Is(err, gateway.ErrNotFound):
			// The gateway has no such customer; fall through to unmatched.
			s.log.Warn("customer record missing at gateway",
				zap.String("payment_id", payment.ID),
				zap.String("customer_id", payment.Customer),
			)
		case err != nil:
			// A transient gateway failure must surface as a 500 so the
			// gateway redelivers; an unmatched 404 here would drop the
			// payment for good.
			return nil, err
		default:
			cpf := digitsOnly(customer.CPFCNPJ)
			if cpf != "" {
				order, err = s.orderRepo.FindLatestByCPF(ctx, s.db, creds.TenantID, cpf)
				if err != nil {
					return nil, err
				}
				if order != nil {
					return order, nil
				}
			}
		}
	}

	s.log.Error("no order matched payment",
		zap.String("payment_id", payment.ID),
		zap.String("tenant_id", creds.TenantID.String()),
	)
	return nil, ErrOrderNotFound
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
