package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inscrevia/inscrevia/internal/clock"
	"github.com/inscrevia/inscrevia/internal/config"
	"github.com/inscrevia/inscrevia/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const processorLockKey = "inscrevia:tasks:processor"

type ProcessorParams struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Registry *Registry
	Clock    clock.Clock
	Cfg      config.Config
	Locker   *Locker `optional:"true"`
}

// Processor drains due webhook tasks. It is safe to invoke concurrently with
// itself: each task's status field acts as a soft lock, and effects are
// expected to be idempotent.
type Processor struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	registry *Registry
	clock    clock.Clock
	cfg      config.TaskConfig
	locker   *Locker
}

func NewProcessor(p ProcessorParams) *Processor {
	return &Processor{
		db:       p.DB,
		log:      p.Log.Named("task.processor"),
		repo:     p.Repo,
		registry: p.Registry,
		clock:    p.Clock,
		cfg:      p.Cfg.Tasks,
		locker:   p.Locker,
	}
}

// Stats summarizes one processor run.
type Stats struct {
	Picked  int
	Done    int
	Retried int
	Failed  int
	Skipped bool
}

// RunOnce loads one batch of due tasks and executes them concurrently. One
// task's failure never blocks its siblings.
func (p *Processor) RunOnce(ctx context.Context) (Stats, error) {
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID))

	if p.locker != nil {
		token, ok, err := p.locker.TryLock(ctx, processorLockKey, p.cfg.RunTimeout)
		if err != nil {
			log.Warn("processor lock unavailable, continuing without it", zap.Error(err))
		} else if !ok {
			log.Info("processor run already in progress, skipping")
			return Stats{Skipped: true}, nil
		} else {
			defer func() {
				if err := p.locker.Release(context.WithoutCancel(ctx), processorLockKey, token); err != nil {
					log.Warn("processor lock release failed", zap.Error(err))
				}
			}()
		}
	}

	now := p.clock.Now()
	tasks, err := p.repo.Due(ctx, p.db, now, p.cfg.BatchSize)
	if err != nil {
		return Stats{}, err
	}
	if len(tasks) == 0 {
		return Stats{}, nil
	}

	var (
		mu    sync.Mutex
		stats = Stats{Picked: len(tasks)}
		wg    sync.WaitGroup
	)
	for _, t := range tasks {
		wg.Add(1)
		go func(t *domain.Task) {
			defer wg.Done()
			switch p.runTask(ctx, log, t) {
			case taskDone:
				mu.Lock()
				stats.Done++
				mu.Unlock()
			case taskRetried:
				mu.Lock()
				stats.Retried++
				mu.Unlock()
			case taskFailed:
				mu.Lock()
				stats.Failed++
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()

	log.Info("processor run finished",
		zap.Int("picked", stats.Picked),
		zap.Int("done", stats.Done),
		zap.Int("retried", stats.Retried),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

type taskResult int

const (
	taskDone taskResult = iota
	taskRetried
	taskFailed
)

func (p *Processor) runTask(ctx context.Context, log *zap.Logger, t *domain.Task) taskResult {
	log = log.With(
		zap.String("task_id", t.ID.String()),
		zap.String("event", t.Event),
	)

	if err := p.repo.MarkProcessing(ctx, p.db, t.ID, p.clock.Now()); err != nil {
		log.Warn("mark processing failed", zap.Error(err))
	}

	execErr := p.execute(ctx, t)
	now := p.clock.Now()

	if execErr == nil {
		if err := p.repo.MarkDone(ctx, p.db, t.ID, now); err != nil {
			log.Error("mark done failed", zap.Error(err))
		}
		return taskDone
	}

	attempts := t.Attempts + 1
	if attempts >= t.MaxAttempts {
		log.Error("task exhausted retries",
			zap.Int("attempts", attempts),
			zap.Error(execErr),
		)
		if err := p.repo.MarkFailed(ctx, p.db, t.ID, attempts, execErr.Error(), now); err != nil {
			log.Error("mark failed failed", zap.Error(err))
		}
		return taskFailed
	}

	// Linear backoff: the delay grows with the attempt count.
	nextRetry := now.Add(p.cfg.BaseRetryDelay * time.Duration(attempts))
	log.Warn("task failed, scheduling retry",
		zap.Int("attempts", attempts),
		zap.Time("next_retry", nextRetry),
		zap.Error(execErr),
	)
	if err := p.repo.MarkRetry(ctx, p.db, t.ID, attempts, nextRetry, execErr.Error(), now); err != nil {
		log.Error("mark retry failed", zap.Error(err))
	}
	return taskRetried
}

func (p *Processor) execute(ctx context.Context, t *domain.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()

	exec, err := p.registry.Executor(t.Event)
	if err != nil {
		return err
	}
	return exec(ctx, t)
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.value)
}

// RunForever polls RunOnce on the configured interval until ctx is done.
func (p *Processor) RunForever(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil {
			p.log.Warn("processor run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
