package order

import (
	"github.com/inscrevia/inscrevia/internal/order/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(repository.Provide),
)
