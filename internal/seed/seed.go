package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/inscrevia/inscrevia/internal/tenant/domain"
	"github.com/inscrevia/inscrevia/pkg/db"
	"gorm.io/gorm"
)

// EnsureDefaultTenant creates the bootstrap tenant for self-hosted installs
// when none exists for the configured hostname.
func EnsureDefaultTenant(conn *gorm.DB, hostname string) error {
	var count int64
	if err := conn.Model(&tenantdomain.Tenant{}).
		Where("hostname = ?", hostname).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = conn.Create(&tenantdomain.Tenant{
		ID:        node.Generate(),
		Name:      "default",
		Hostname:  hostname,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
	// Another instance may win the bootstrap race on the unique hostname.
	if db.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}
