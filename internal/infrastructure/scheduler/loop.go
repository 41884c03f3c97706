// Package scheduler provides the Scheduler implementations behind the demo
// sequencer and widgets: a real-time event loop and a manual virtual clock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/port"
)

// ErrLoopStopped is returned by Call once the loop has shut down.
var ErrLoopStopped = errors.New("scheduler loop stopped")

// Loop serializes all work onto a single goroutine. Timer callbacks are
// posted back onto the loop, so state touched only from loop tasks needs no
// locking.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	logger  *slog.Logger
	started atomic.Bool
	once    sync.Once
}

// NewLoop creates a loop with the given task buffer size.
func NewLoop(buffer int, logger *slog.Logger) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes tasks until ctx is cancelled. It must be called once.
func (l *Loop) Run(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		panic("scheduler: Loop.Run called twice")
	}
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-l.tasks:
			l.exec(task)
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post enqueues fn without waiting for it. Tasks posted after shutdown are
// dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.tasks <- fn:
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	case l.tasks <- task:
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Schedule runs fn on the loop once delay has elapsed.
func (l *Loop) Schedule(delay time.Duration, fn func()) port.Handle {
	h := &timerHandle{}
	h.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			if h.cancelled.Load() {
				return
			}
			h.fired.Store(true)
			fn()
		})
	})
	return h
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduler task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}

// timerHandle is cancelled from loop tasks, but its timer fires on a runtime
// goroutine, so the flags are atomic.
type timerHandle struct {
	timer     *time.Timer
	cancelled atomic.Bool
	fired     atomic.Bool
}

func (h *timerHandle) Cancel() bool {
	if h.fired.Load() {
		return false
	}
	if !h.cancelled.CompareAndSwap(false, true) {
		return false
	}
	h.timer.Stop()
	return true
}
