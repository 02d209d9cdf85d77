package tenant

import (
	"github.com/inscrevia/inscrevia/internal/tenant/repository"
	"github.com/inscrevia/inscrevia/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
