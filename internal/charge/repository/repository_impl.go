package repository

import (
	"context"

	"github.com/inscrevia/inscrevia/internal/charge/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.Charge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindLatestByKey(ctx context.Context, db *gorm.DB, key string) (*domain.Charge, error) {
	var charge domain.Charge
	err := db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		Order("created_at desc, id desc").
		Take(&charge).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &charge, nil
}
