package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrStopped is returned by Call once the dispatcher has stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Dispatcher runs tasks one at a time on a single goroutine. It owns the
// window tree: X callbacks, IPC requests, hotkeys and reconcile passes all
// reach the tree through it.
type Dispatcher struct {
	tasks   chan func()
	stopped chan struct{}
	logger  zerolog.Logger
}

// NewDispatcher creates a dispatcher with a queue of the given size.
func NewDispatcher(queue int, logger zerolog.Logger) *Dispatcher {
	if queue <= 0 {
		queue = 256
	}
	return &Dispatcher{
		tasks:   make(chan func(), queue),
		stopped: make(chan struct{}),
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Post queues fn. It blocks while the queue is full and drops fn once the
// dispatcher has stopped.
func (d *Dispatcher) Post(fn func()) {
	select {
	case d.tasks <- fn:
	case <-d.stopped:
	}
}

// Call runs fn on the dispatcher goroutine and waits for its result.
func (d *Dispatcher) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	task := func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panic: %v", r)
			}
			done <- err
		}()
		err = fn()
	}

	select {
	case d.tasks <- task:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued tasks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-d.tasks:
			d.run(fn)
		}
	}
}

func (d *Dispatcher) run(fn func()) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error().Str("panic", fmt.Sprint(err)).Msg("task panic recovered")
		}
	}()
	fn()
}
