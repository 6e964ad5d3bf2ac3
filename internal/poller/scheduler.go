package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Task is the unit of work run by a [Scheduler] on every tick.
//
// Task runs on the scheduler goroutine; the next tick is not taken until it
// returns. It should honour ctx, which is cancelled by [Scheduler.Stop].
type Task func(ctx context.Context)

// Scheduler runs a [Task] once immediately and then on a fixed interval.
//
// Runs never overlap: the task executes synchronously on a single goroutine,
// and ticks that fire while it is still running are dropped by the ticker
// rather than queued.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use. A
// Scheduler cannot be restarted once stopped; create a new one instead.
type Scheduler struct {
	interval time.Duration
	task     Task
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	runs     atomic.Uint64

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScheduler creates a new [Scheduler].
//
// Parameters:
//   - interval: Time between runs; must be positive
//   - task: Work to run on every tick
//   - logger: Logger for scheduler events (panic recovery)
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop].
func NewScheduler(interval time.Duration, task Task, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Interval returns the time between runs.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Runs returns how many times the task has been started.
func (s *Scheduler) Runs() uint64 {
	return s.runs.Load()
}

// Start begins the run loop in a background goroutine.
//
// Start is non-blocking and returns immediately. The scheduler will:
//  1. Run the task immediately
//  2. Run it again every interval
//  3. Continue until [Scheduler.Stop] is called or the context is cancelled
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		s.run(runCtx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.run(runCtx)
			}
		}
	}()
}

// Stop halts the scheduler and waits for the run loop to exit, including a
// task that is in progress.
//
// Stop is idempotent and safe to call multiple times. Calling Stop before
// Start is a safe no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// run executes the task with panic recovery so that a failing task cannot
// kill the run loop. The stack trace is logged with a correlation ID.
func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.runs.Add(1)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panic",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	s.task(ctx)
}
