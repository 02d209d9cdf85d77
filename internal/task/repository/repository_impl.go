package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/task/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Create(task).Error
}

func (r *repo) Due(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := db.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Where("next_retry IS NULL OR next_retry <= ?", now).
		Order("created_at asc, id asc").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&task).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *repo) MarkProcessing(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	return r.update(ctx, db, id, map[string]any{
		"status":     domain.StatusProcessing,
		"updated_at": now,
	})
}

func (r *repo) MarkDone(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	return r.update(ctx, db, id, map[string]any{
		"status":     domain.StatusDone,
		"last_error": "",
		"updated_at": now,
	})
}

func (r *repo) MarkRetry(ctx context.Context, db *gorm.DB, id snowflake.ID, attempts int, nextRetry time.Time, lastError string, now time.Time) error {
	return r.update(ctx, db, id, map[string]any{
		"status":     domain.StatusPending,
		"attempts":   attempts,
		"next_retry": nextRetry,
		"last_error": lastError,
		"updated_at": now,
	})
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, attempts int, lastError string, now time.Time) error {
	return r.update(ctx, db, id, map[string]any{
		"status":     domain.StatusFailed,
		"attempts":   attempts,
		"last_error": lastError,
		"updated_at": now,
	})
}

func (r *repo) update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(fields).Error
}
