package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/inscrevia/inscrevia/internal/task/domain"
)

// Executor runs the effect of one task. Effects should be idempotent: a task
// picked up twice inside its retry window is an accepted race.
type Executor func(ctx context.Context, task *domain.Task) error

// Registry maps task event names to executors.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

func (r *Registry) Register(event string, exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[event] = exec
}

func (r *Registry) Executor(event string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executors[event]
	if !ok {
		return nil, fmt.Errorf("no executor registered for event %q", event)
	}
	return exec, nil
}
