package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"sadanews/internal/executor"
	"sadanews/internal/model"

	"github.com/go-playground/assert/v2"
)

type fakeRunner struct {
	due      []model.ScheduledTask
	dueErr   error
	outcomes map[int64]executor.Outcome

	executed []int64
	running  int32
	overlap  bool
}

func (f *fakeRunner) DueTasks(now time.Time) ([]model.ScheduledTask, error) {
	return f.due, f.dueErr
}

func (f *fakeRunner) Execute(ctx context.Context, task model.ScheduledTask) executor.Outcome {
	if atomic.AddInt32(&f.running, 1) > 1 {
		f.overlap = true
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&f.running, -1)

	f.executed = append(f.executed, task.ID)
	if o, ok := f.outcomes[task.ID]; ok {
		return o
	}
	return executor.OutcomeCompleted
}

func TestTick_ExecutesDueTasksSequentially(t *testing.T) {
	runner := &fakeRunner{
		due: []model.ScheduledTask{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	s := New(runner)

	s.Tick(context.Background())

	assert.Equal(t, runner.executed, []int64{1, 2, 3})
	assert.Equal(t, runner.overlap, false)
}

func TestTick_CountsMixedOutcomes(t *testing.T) {
	runner := &fakeRunner{
		due: []model.ScheduledTask{{ID: 1}, {ID: 2}, {ID: 3}},
		outcomes: map[int64]executor.Outcome{
			2: executor.OutcomeFailed,
			3: executor.OutcomeSkipped,
		},
	}
	s := New(runner)

	s.Tick(context.Background())

	assert.Equal(t, len(runner.executed), 3)
}

func TestTick_FetchErrorDoesNotPanic(t *testing.T) {
	runner := &fakeRunner{dueErr: fmt.Errorf("db down")}
	s := New(runner)

	s.Tick(context.Background())

	assert.Equal(t, len(runner.executed), 0)
}

func TestTick_StopsOnCancelledContext(t *testing.T) {
	runner := &fakeRunner{
		due: []model.ScheduledTask{{ID: 1}, {ID: 2}},
	}
	s := New(runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Tick(ctx)

	assert.Equal(t, len(runner.executed), 0)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner)
	s.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
}
