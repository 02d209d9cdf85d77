package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindByRegistration(ctx context.Context, db *gorm.DB, tenantID, registrationID, userID snowflake.ID) (*domain.Order, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ? AND registration_id = ?", tenantID, registrationID)
	if userID != 0 {
		stmt = stmt.Where("responsible_id = ?", userID)
	}
	var order domain.Order
	err := stmt.Order("created_at desc, id desc").Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindByGatewayPaymentID(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, paymentID string, userID snowflake.ID) (*domain.Order, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ? AND gateway_payment_id = ?", tenantID, paymentID)
	if userID != 0 {
		stmt = stmt.Where("responsible_id = ?", userID)
	}
	var order domain.Order
	err := stmt.Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindLatestByCPF(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, cpf string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND payer_cpf = ?", tenantID, cpf).
		Order("created_at desc").
		Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) FindPayableByRegistration(ctx context.Context, db *gorm.DB, registrationID snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("registration_id = ? AND status <> ?", registrationID, domain.StatusCanceled).
		Order("created_at desc, id desc").
		Take(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, gatewayPaymentID string) error {
	return db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":             domain.StatusPaid,
			"gateway_payment_id": gatewayPaymentID,
			"updated_at":         time.Now().UTC(),
		}).Error
}
