package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/charge"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/gateway"
	"github.com/inscrevia/inscrevia/internal/logger"
	"github.com/inscrevia/inscrevia/internal/migration"
	"github.com/inscrevia/inscrevia/internal/notify/chat"
	"github.com/inscrevia/inscrevia/internal/notify/email"
	obsmetrics "github.com/inscrevia/inscrevia/internal/observability/metrics"
	"github.com/inscrevia/inscrevia/internal/order"
	"github.com/inscrevia/inscrevia/internal/reconciliation"
	"github.com/inscrevia/inscrevia/internal/recovery"
	"github.com/inscrevia/inscrevia/internal/registration"
	"github.com/inscrevia/inscrevia/internal/server"
	"github.com/inscrevia/inscrevia/internal/task"
	"github.com/inscrevia/inscrevia/internal/tenant"
	"github.com/inscrevia/inscrevia/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		obsmetrics.Module,

		gateway.Module,
		tenant.Module,
		registration.Module,
		order.Module,
		charge.Module,
		email.Module,
		chat.Module,
		reconciliation.Module,
		task.Module,
		recovery.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
