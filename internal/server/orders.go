package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	chargedomain "github.com/inscrevia/inscrevia/internal/charge/domain"
	"github.com/inscrevia/inscrevia/internal/gateway"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	"github.com/inscrevia/inscrevia/internal/recovery"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	"github.com/inscrevia/inscrevia/internal/task"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createOrderRequest struct {
	RegistrationID  string `json:"inscricao_id"`
	ResponsibleID   string `json:"responsavel_id"`
	Canal           string `json:"canal"`
	ValorCentavos   int64  `json:"valor_centavos"`
	PayerCPF        string `json:"cpf"`
	PayerName       string `json:"nome"`
	PayerEmail      string `json:"email"`
	PaymentLink     string `json:"link_pagamento"`
	GatewayChargeID string `json:"gateway_charge_id"`
	DueDate         string `json:"vencimento"`
}

// CreateOrder records a billable unit and the cached charge snapshot link
// recovery reads, then defers the payer notification to the task queue.
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	channel := orderdomain.Channel(strings.TrimSpace(req.Canal))
	switch channel {
	case orderdomain.ChannelLoja, orderdomain.ChannelInscricao, orderdomain.ChannelAvulso:
	default:
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.ValorCentavos <= 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	cpf, err := recovery.NormalizeCPF(req.PayerCPF)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	responsibleID, err := snowflake.ParseString(req.ResponsibleID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	tenant, err := s.tenantSvc.ResolveHost(ctx, c.Request.Host)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var registrationID *snowflake.ID
	if req.RegistrationID != "" {
		id, err := snowflake.ParseString(req.RegistrationID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		reg, err := s.regRepo.FindByID(ctx, s.db, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if reg == nil || reg.TenantID != tenant.ID {
			AbortWithError(c, registrationdomain.ErrNotFound)
			return
		}
		registrationID = &id
	}

	now := s.clock.Now()
	order := &orderdomain.Order{
		ID:              s.genID.Generate(),
		TenantID:        tenant.ID,
		RegistrationID:  registrationID,
		ResponsibleID:   responsibleID,
		PayerCPF:        cpf,
		PayerName:       strings.TrimSpace(req.PayerName),
		PayerEmail:      strings.TrimSpace(req.PayerEmail),
		GatewayChargeID: strings.TrimSpace(req.GatewayChargeID),
		PaymentLink:     strings.TrimSpace(req.PaymentLink),
		Status:          orderdomain.StatusPending,
		AmountCents:     req.ValorCentavos,
		Channel:         channel,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var existing *orderdomain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// At most one non-canceled order may exist per registration.
		if registrationID != nil {
			found, err := s.orderRepo.FindPayableByRegistration(ctx, tx, *registrationID)
			if err != nil {
				return err
			}
			if found != nil {
				existing = found
				return nil
			}
		}
		if err := s.orderRepo.Insert(ctx, tx, order); err != nil {
			return err
		}
		if registrationID != nil {
			if err := s.regRepo.LinkOrder(ctx, tx, *registrationID, order.ID); err != nil {
				return err
			}
			if err := s.regRepo.UpdateStatus(ctx, tx, *registrationID, registrationdomain.StatusAwaitingPayment); err != nil {
				return err
			}
		}
		if order.PaymentLink != "" {
			charge := &chargedomain.Charge{
				ID:             s.genID.Generate(),
				TenantID:       tenant.ID,
				OrderID:        order.ID,
				IdempotencyKey: cpf,
				PayerName:      order.PayerName,
				InvoiceURL:     order.PaymentLink,
				DueDate:        parseDueDate(req.DueDate),
				CreatedAt:      now,
			}
			if err := s.chargeRepo.Insert(ctx, tx, charge); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if existing != nil {
		ref := gateway.Reference{
			TenantID:       tenant.ID.String(),
			UserID:         existing.ResponsibleID.String(),
			RegistrationID: registrationID.String(),
		}
		c.JSON(http.StatusOK, gin.H{
			"pedido":             existing,
			"external_reference": gateway.FormatReference(ref),
		})
		return
	}

	if order.PaymentLink != "" {
		_, err := s.enqueuer.Enqueue(ctx, task.EventChargeCreated, task.ChargeCreatedPayload{
			OrderID:     order.ID.String(),
			PayerName:   order.PayerName,
			PayerEmail:  order.PayerEmail,
			Responsible: order.ResponsibleID.String(),
			PaymentLink: order.PaymentLink,
		})
		if err != nil {
			// The order exists either way; the notification just won't be
			// retried by the queue.
			s.log.Warn("charge notification enqueue failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}

	ref := gateway.Reference{
		TenantID: tenant.ID.String(),
		UserID:   order.ResponsibleID.String(),
	}
	if registrationID != nil {
		ref.RegistrationID = registrationID.String()
	}

	c.JSON(http.StatusCreated, gin.H{
		"pedido":             order,
		"external_reference": gateway.FormatReference(ref),
	})
}

func parseDueDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
