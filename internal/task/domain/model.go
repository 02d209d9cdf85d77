package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Task is a durable unit of deferred webhook work. Tasks are never deleted;
// done and failed are terminal and kept for audit.
type Task struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	Event       string         `json:"event" gorm:"type:text;not null;index"`
	Payload     datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	Status      Status         `json:"status" gorm:"type:text;not null;index"`
	Attempts    int            `json:"attempts" gorm:"not null"`
	MaxAttempts int            `json:"max_attempts" gorm:"not null"`
	NextRetry   *time.Time     `json:"next_retry" gorm:"index"`
	LastError   string         `json:"last_error" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`
}

func (Task) TableName() string { return "webhook_tasks" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, task *Task) error
	// Due returns pending tasks whose retry window has elapsed, oldest
	// first, bounded by limit.
	Due(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]*Task, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Task, error)
	MarkProcessing(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error
	MarkDone(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error
	// MarkRetry returns a failed task to pending with its attempt count and
	// next retry window recorded.
	MarkRetry(ctx context.Context, db *gorm.DB, id snowflake.ID, attempts int, nextRetry time.Time, lastError string, now time.Time) error
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, attempts int, lastError string, now time.Time) error
}
