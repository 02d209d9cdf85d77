package email

import (
	"github.com/inscrevia/inscrevia/internal/config"
	"go.uber.org/fx"
)

func provide(cfg config.Config) Provider {
	if cfg.SMTP.Host == "" {
		return NoOpProvider{}
	}
	return NewSMTP(cfg.SMTP)
}

var Module = fx.Module("notify.email",
	fx.Provide(provide),
)
