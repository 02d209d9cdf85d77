package charge

import (
	"github.com/inscrevia/inscrevia/internal/charge/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("charge",
	fx.Provide(repository.Provide),
)
