package task

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/task/domain"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EnqueuerParams struct {
	fx.In

	DB    *gorm.DB
	Repo  domain.Repository
	GenID *snowflake.Node
	Clock clock.Clock
	Cfg   config.Config
}

// Enqueuer is the producer side of the queue.
type Enqueuer struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.TaskConfig
}

func NewEnqueuer(p EnqueuerParams) *Enqueuer {
	return &Enqueuer{
		db:    p.DB,
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Cfg.Tasks,
	}
}

// Enqueue persists a pending task for the processor to pick up.
func (e *Enqueuer) Enqueue(ctx context.Context, event string, payload any) (*domain.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	t := &domain.Task{
		ID:          e.genID.Generate(),
		Event:       event,
		Payload:     datatypes.JSON(raw),
		Status:      domain.StatusPending,
		Attempts:    0,
		MaxAttempts: e.cfg.MaxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.repo.Insert(ctx, e.db, t); err != nil {
		return nil, err
	}
	return t, nil
}
