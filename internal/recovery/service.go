// Package recovery reconstructs "what should the user see or pay next" for
// people who lost their checkout link, walking Charge -> Registration ->
// Order in that priority order.
package recovery

import (
	"context"
	"errors"

	chargedomain "github.com/inscrevia/inscrevia/internal/charge/domain"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound means no charge and no registration exist for the CPF. The
// handler answers with an actionable hint, never internal detail.
var ErrNotFound = errors.New("recovery_not_found")

// Result is either a payment link or a status, never both.
type Result struct {
	PaymentLink string
	PayerName   string
	Status      string
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	TenantSvc  tenantdomain.Service
	ChargeRepo chargedomain.Repository
	RegRepo    registrationdomain.Repository
	OrderRepo  orderdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	tenantSvc  tenantdomain.Service
	chargeRepo chargedomain.Repository
	regRepo    registrationdomain.Repository
	orderRepo  orderdomain.Repository
}

func NewService(p Params) *Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("recovery"),
		tenantSvc:  p.TenantSvc,
		chargeRepo: p.ChargeRepo,
		regRepo:    p.RegRepo,
		orderRepo:  p.OrderRepo,
	}
}

// RecoverLink resolves a CPF to its payment link or registration status.
// The CPF must already be normalized via NormalizeCPF.
func (s *Service) RecoverLink(ctx context.Context, host, cpf string) (*Result, error) {
	// An expired invoice link is still returned: recovery is informational,
	// not a payment guarantee.
	cached, err := s.chargeRepo.FindLatestByKey(ctx, s.db, cpf)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &Result{
			PaymentLink: cached.InvoiceURL,
			PayerName:   cached.PayerName,
		}, nil
	}

	tenant, err := s.tenantSvc.ResolveHost(ctx, host)
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reg, err := s.regRepo.FindLatestByCPF(ctx, s.db, tenant.ID, cpf)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNotFound
	}

	switch reg.Status {
	case registrationdomain.StatusPending:
		return &Result{Status: string(registrationdomain.StatusPending)}, nil
	case registrationdomain.StatusAwaitingPayment:
		order, err := s.orderRepo.FindPayableByRegistration(ctx, s.db, reg.ID)
		if err != nil {
			return nil, err
		}
		if order != nil && order.PaymentLink != "" {
			return &Result{
				PaymentLink: order.PaymentLink,
				PayerName:   reg.Name,
			}, nil
		}
		return &Result{Status: string(reg.Status)}, nil
	default:
		return &Result{Status: string(reg.Status)}, nil
	}
}
