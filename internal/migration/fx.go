package migration

import (
	chargedomain "github.com/inscrevia/inscrevia/internal/charge/domain"
	"github.com/inscrevia/inscrevia/internal/config"
	orderdomain "github.com/inscrevia/inscrevia/internal/order/domain"
	registrationdomain "github.com/inscrevia/inscrevia/internal/registration/domain"
	"github.com/inscrevia/inscrevia/internal/seed"
	taskdomain "github.com/inscrevia/inscrevia/internal/task/domain"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Non-postgres installs (dev, sqlite) use gorm's migrator.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&registrationdomain.Registration{},
				&orderdomain.Order{},
				&chargedomain.Charge{},
				&taskdomain.Task{},
			); err != nil {
				return err
			}
		}

		if cfg.DefaultTenantHostname != "" {
			return seed.EnsureDefaultTenant(conn, cfg.DefaultTenantHostname)
		}
		return nil
	}),
)
