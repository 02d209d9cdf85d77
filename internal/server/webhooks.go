package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inscrevia/inscrevia/internal/reconciliation"
	"go.uber.org/zap"
)

// HandleGatewayWebhook receives payment event notifications from the
// gateway. Status codes are the contract: 2xx stops gateway redelivery,
// 5xx triggers it.
func (s *Server) HandleGatewayWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var evt reconciliation.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		s.recordOutcome("malformed")
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	outcome, err := s.reconSvc.ProcessEvent(c.Request.Context(), evt)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrEventIgnored):
			s.recordOutcome("ignored")
			c.JSON(http.StatusOK, gin.H{"status": "Ignorado"})
		case errors.Is(err, reconciliation.ErrAwaitingPayment):
			s.recordOutcome("awaiting_payment")
			c.JSON(http.StatusOK, gin.H{"status": "Aguardando pagamento"})
		default:
			s.recordOutcome(errorOutcome(err))
			AbortWithError(c, err)
		}
		return
	}

	s.recordOutcome("updated")
	s.log.Info("order reconciled",
		zap.String("order_id", outcome.OrderID.String()),
		zap.String("tenant_id", outcome.TenantID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "Pedido atualizado com sucesso"})
}

func (s *Server) recordOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordWebhookOutcome(outcome)
	}
}
