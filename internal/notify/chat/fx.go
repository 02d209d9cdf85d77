package chat

import (
	"github.com/inscrevia/inscrevia/internal/config"
	"go.uber.org/fx"
)

func provide(cfg config.Config) Provider {
	if cfg.ChatWebhookURL == "" {
		return NoOpProvider{}
	}
	return NewWebhook(cfg.ChatWebhookURL)
}

var Module = fx.Module("notify.chat",
	fx.Provide(provide),
)
