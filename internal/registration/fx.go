package registration

import (
	"github.com/inscrevia/inscrevia/internal/registration/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("registration",
	fx.Provide(repository.Provide),
)
