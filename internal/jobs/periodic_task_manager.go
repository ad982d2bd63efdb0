/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package jobs runs background maintenance tasks for edudash.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/edudash/edudash/pkg/logger"
)

// PeriodicTask is a unit of work executed on a fixed interval.
type PeriodicTask interface {
	// GetName returns a unique name used for logging and metrics
	GetName() string
	// GetInterval returns the time between the end of one run and the start of the next
	GetInterval() time.Duration
	// Run performs one execution; errors are logged and do not stop the schedule
	Run(ctx context.Context) error
}

// PeriodicTaskManager holds the registered tasks and runs them concurrently.
type PeriodicTaskManager struct {
	mu    sync.Mutex
	tasks []PeriodicTask
}

func NewPeriodicTaskManager() *PeriodicTaskManager {
	return &PeriodicTaskManager{}
}

// AddTask registers a task. Tasks added after RunAll has started are not run.
func (m *PeriodicTaskManager) AddTask(task PeriodicTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Tasks returns the registered tasks in registration order
func (m *PeriodicTaskManager) Tasks() []PeriodicTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PeriodicTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// RunAll starts every task on its own goroutine and blocks until ctx is
// cancelled. Each task runs immediately and then once per interval.
func (m *PeriodicTaskManager) RunAll(ctx context.Context) error {
	tasks := m.Tasks()
	if len(tasks) == 0 {
		return errors.New("no periodic tasks registered")
	}

	for _, task := range tasks {
		if task.GetInterval() <= 0 {
			return fmt.Errorf("periodic task %s has a non-positive interval", task.GetName())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			log := logger.Logger(gctx).WithField("task", task.GetName())
			log.WithField("interval", task.GetInterval().String()).Info("starting periodic task")

			wait.UntilWithContext(gctx, func(ctx context.Context) {
				start := time.Now()
				if err := task.Run(ctx); err != nil {
					log.WithError(err).Error("periodic task failed")
					return
				}
				log.WithField("duration", time.Since(start).String()).Debug("periodic task finished")
			}, task.GetInterval())

			log.Info("stopped periodic task")
			return nil
		})
	}
	return g.Wait()
}
