package scheduler

import (
	"context"
	"log/slog"
	"time"

	"sadanews/internal/executor"
	"sadanews/internal/model"
)

const tickInterval = 60 * time.Second

// TaskRunner is the slice of the executor the scheduler drives.
type TaskRunner interface {
	DueTasks(now time.Time) ([]model.ScheduledTask, error)
	Execute(ctx context.Context, task model.ScheduledTask) executor.Outcome
}

// Scheduler drains due pending tasks on a fixed cadence. Tasks run
// sequentially, one at a time, to keep provider load and cost predictable;
// a slow tick delays the next batch instead of overlapping with it.
type Scheduler struct {
	runner   TaskRunner
	interval time.Duration
	now      func() time.Time
}

func New(runner TaskRunner) *Scheduler {
	return &Scheduler{runner: runner, interval: tickInterval, now: time.Now}
}

// Run starts the scheduler loop with an immediate first tick and stops when
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("task scheduler started", "interval", s.interval.String())

	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("task scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick executes every currently due pending task. Task failures become
// failed-task records inside the executor; nothing escapes the tick.
func (s *Scheduler) Tick(ctx context.Context) {
	tasks, err := s.runner.DueTasks(s.now())
	if err != nil {
		slog.Error("error fetching due tasks", "error", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	var completed, failed, skipped int
	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}
		switch s.runner.Execute(ctx, task) {
		case executor.OutcomeCompleted:
			completed++
		case executor.OutcomeFailed:
			failed++
		case executor.OutcomeSkipped:
			skipped++
		}
	}

	slog.Info("scheduler tick finished", "due", len(tasks),
		"completed", completed, "failed", failed, "skipped", skipped)
}
