package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the refresh cycle on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Add registers a task on the given cron expression (standard 5-field form).
func (s *Scheduler) Add(spec string, name string, task func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		slog.Info("scheduled task starting", "task", name)
		task()
		slog.Info("scheduled task finished", "task", name)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// Start begins running scheduled tasks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; running tasks finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
