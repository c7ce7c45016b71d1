package timer

import (
	"context"
	"sync"
	"time"

	"github.com/sadopc/focusmine/internal/clock"
)

// CompletionHandler is called from the runner goroutine for every
// completed session. It must not call back into the Runner.
type CompletionHandler func(Completion)

// Runner owns the one-second tick source for an engine. At most one
// source is active at a time.
type Runner struct {
	engine     *Engine
	clock      clock.Clock
	onComplete CompletionHandler

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(e *Engine, c clock.Clock, onComplete CompletionHandler) *Runner {
	if c == nil {
		c = clock.Real()
	}
	return &Runner{engine: e, clock: c, onComplete: onComplete}
}

// Start stops any previous tick source, starts the engine and begins
// ticking until the engine stops or Pause is called. Cancelling ctx
// pauses the engine.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.engine.Start()
	if !r.engine.Snapshot().Running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := r.clock.NewTicker(time.Second)
	r.cancel = cancel
	r.done = done
	go r.loop(ctx, ticker, done)
}

// Pause stops the tick source and the engine. Remaining time is kept.
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.engine.Pause()
}

// Wait blocks until the current tick source has exited.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (r *Runner) stopLocked() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

func (r *Runner) loop(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.engine.Pause()
			return
		case <-ticker.C:
			c, ok := r.engine.Tick()
			if ok && r.onComplete != nil {
				r.onComplete(c)
			}
			if !r.engine.Snapshot().Running {
				return
			}
		}
	}
}
