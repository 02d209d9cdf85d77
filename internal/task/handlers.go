package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inscrevia/inscrevia/internal/notify/chat"
	"github.com/inscrevia/inscrevia/internal/notify/email"
	"github.com/inscrevia/inscrevia/internal/task/domain"
	"go.uber.org/fx"
)

// EventChargeCreated notifies a payer that a charge is waiting. Deferred to
// the queue because outbound mail is slow and fallible; the send is
// idempotent from the payer's point of view (a duplicate is a reminder).
const EventChargeCreated = "charge.created"

// ChargeCreatedPayload is the queue payload for EventChargeCreated.
type ChargeCreatedPayload struct {
	OrderID     string `json:"order_id"`
	PayerName   string `json:"payer_name"`
	PayerEmail  string `json:"payer_email"`
	Responsible string `json:"responsible_id"`
	PaymentLink string `json:"payment_link"`
}

type HandlersParams struct {
	fx.In

	Registry *Registry
	Email    email.Provider
	Chat     chat.Provider
}

func RegisterHandlers(p HandlersParams) {
	p.Registry.Register(EventChargeCreated, chargeCreatedExecutor(p.Email, p.Chat))
}

func chargeCreatedExecutor(mailer email.Provider, messenger chat.Provider) Executor {
	return func(ctx context.Context, t *domain.Task) error {
		var payload ChargeCreatedPayload
		if err := json.Unmarshal(t.Payload, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		if payload.PaymentLink == "" {
			return fmt.Errorf("task %s has no payment link", t.ID)
		}

		if payload.PayerEmail != "" {
			body := fmt.Sprintf(
				"<p>Olá %s,</p><p>Sua cobrança está disponível: <a href=%q>%s</a></p>",
				payload.PayerName, payload.PaymentLink, payload.PaymentLink,
			)
			if err := mailer.Send(ctx, []string{payload.PayerEmail}, "Link de pagamento", body); err != nil {
				return fmt.Errorf("send charge email: %w", err)
			}
		}

		if payload.Responsible != "" {
			msg := fmt.Sprintf("Cobrança criada para o pedido %s", payload.OrderID)
			if err := messenger.PostMessage(ctx, payload.Responsible, msg); err != nil {
				return fmt.Errorf("post charge message: %w", err)
			}
		}
		return nil
	}
}
