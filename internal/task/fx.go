package task

import (
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/task/repository"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func provideLocker(cfg config.Config) *Locker {
	if cfg.RedisAddr == "" {
		return nil
	}
	return NewLocker(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
}

var Module = fx.Module("task",
	fx.Provide(repository.Provide),
	fx.Provide(NewRegistry),
	fx.Provide(provideLocker),
	fx.Provide(NewEnqueuer),
	fx.Provide(NewProcessor),
	fx.Invoke(RegisterHandlers),
)
