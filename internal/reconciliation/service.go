package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/gateway"
	"github.com/inscrevia/inscrevia/internal/notify/chat"
	"github.com/inscrevia/inscrevia/internal/notify/email"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	TenantSvc tenantdomain.Service
	OrderRepo orderdomain.Repository
	RegRepo   registrationdomain.Repository
	Gateway   *gateway.Factory
	Email     email.Provider
	Chat      chat.Provider
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	tenantSvc tenantdomain.Service
	orderRepo orderdomain.Repository
	regRepo   registrationdomain.Repository
	gateway   *gateway.Factory
	email     email.Provider
	chat      chat.Provider
}

func NewService(p Params) *Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("reconciliation"),
		tenantSvc: p.TenantSvc,
		orderRepo: p.OrderRepo,
		regRepo:   p.RegRepo,
		gateway:   p.Gateway,
		email:     p.Email,
		chat:      p.Chat,
	}
}

// ProcessEvent drives one gateway event to at most one order mutation.
// The store mutation commits before any notification fires; notifier
// failures never fail the event.
func (s *Service) ProcessEvent(ctx context.Context, evt Event) (*Outcome, error) {
	if !isPaymentEvent(evt) {
		return nil, ErrEventIgnored
	}

	creds, err := s.tenantSvc.ResolveCredentials(ctx, evt.accountID(), evt.externalReference())
	if err != nil {
		return nil, err
	}

	client := s.gateway.WithAPIKey(creds.APIKey)
	payment, err := client.GetPayment(ctx, evt.Payment.ID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment %s", gateway.ErrUnavailable, evt.Payment.ID)
		}
		return nil, err
	}

	if !payment.Settled() {
		return nil, ErrAwaitingPayment
	}

	order, err := s.matchOrder(ctx, client, creds, payment)
	if err != nil {
		return nil, err
	}

	registrationID := creds.RegistrationID
	if registrationID == 0 && order.RegistrationID != nil {
		registrationID = *order.RegistrationID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkPaid(ctx, tx, order.ID, payment.ID); err != nil {
			return err
		}
		if registrationID != 0 {
			if err := s.regRepo.UpdateStatus(ctx, tx, registrationID, registrationdomain.StatusConfirmed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("order mutation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrStoreMutation, err)
	}

	outcome := &Outcome{
		OrderID:        order.ID,
		RegistrationID: registrationID,
		TenantID:       creds.TenantID,
	}
	s.notifyPaid(ctx, order, registrationID)
	return outcome, nil
}

func isPaymentEvent(evt Event) bool {
	if evt.Payment == nil || strings.TrimSpace(evt.Payment.ID) == "" {
		return false
	}
	switch evt.Event {
	case gateway.EventPaymentReceived, gateway.EventPaymentConfirmed:
		return true
	default:
		return false
	}
}

// notifyPaid is best-effort fan-out. Failures are logged and swallowed so
// they can never roll back the committed mutation.
func (s *Service) notifyPaid(ctx context.Context, order *orderdomain.Order, registrationID snowflake.ID) {
	if order.PayerEmail != "" {
		subject := "Pagamento confirmado"
		body := fmt.Sprintf("<p>Olá %s,</p><p>Seu pagamento foi confirmado. Obrigado!</p>", order.PayerName)
		if err := s.email.Send(ctx, []string{order.PayerEmail}, subject, body); err != nil {
			s.log.Warn("payment email failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}

	msg := fmt.Sprintf("Pedido %s pago", order.ID.String())
	if registrationID != 0 {
		msg = fmt.Sprintf("Pedido %s pago, inscrição %s confirmada", order.ID.String(), registrationID.String())
	}
	if err := s.chat.PostMessage(ctx, order.ResponsibleID.String(), msg); err != nil {
		s.log.Warn("payment chat message failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
