package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/logger"
	"github.com/inscrevia/inscrevia/internal/notify/chat"
	"github.com/inscrevia/inscrevia/internal/notify/email"
	"github.com/inscrevia/inscrevia/internal/task"
	"github.com/inscrevia/inscrevia/pkg/db"
	"go.uber.org/fx"
)

// The scheduler binary runs the task processor on its own poll interval,
// for installs without an external cron hitting the HTTP trigger.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		email.Module,
		chat.Module,
		task.Module,

		// No server module.
		fx.Invoke(StartProcessor),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}

func StartProcessor(lc fx.Lifecycle, p *task.Processor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go p.RunForever(context.Background())
			return nil
		},
	})
}
