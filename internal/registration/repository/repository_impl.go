package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/registration/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reg *domain.Registration) error {
	return db.WithContext(ctx).Create(reg).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Registration, error) {
	var reg domain.Registration
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repo) FindLatestByCPF(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, cpf string) (*domain.Registration, error) {
	var reg domain.Registration
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND cpf = ?", tenantID, cpf).
		Order("created_at desc, id desc").
		Take(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status) error {
	return db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repo) LinkOrder(ctx context.Context, db *gorm.DB, id, orderID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Registration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"order_id":   orderID,
			"updated_at": time.Now().UTC(),
		}).Error
}
