package supervisor

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Supervisor runs named long-running loops on a shared context. The loops are started and stopped together: once one
// of them returns with an error or panics, the others are cancelled.
type Supervisor struct {
	l      log.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	errOnce  sync.Once
	firstErr error
}

// New initializes a new supervisor derived from parent
func New(parent context.Context, l log.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{
		l:      l,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the context all loops run on
func (s *Supervisor) Context() context.Context { return s.ctx }

// Go starts fn in its own goroutine
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.run(name, fn)
		if err == nil || (s.ctx.Err() != nil && errors.Is(err, s.ctx.Err())) {
			level.Info(s.l).Log("msg", "loop stopped", "loop", name)
			return
		}
		level.Error(s.l).Log("msg", "loop failed, stopping all loops", "loop", name, "err", err)
		s.errOnce.Do(func() { s.firstErr = errors.Wrap(err, name) })
		s.cancel()
	}()
}

func (s *Supervisor) run(name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
			level.Error(s.l).Log("msg", "loop panicked", "loop", name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	level.Info(s.l).Log("msg", "loop started", "loop", name)
	return fn(s.ctx)
}

// Stop cancels all loops
func (s *Supervisor) Stop() {
	s.cancel()
}

// Wait blocks until every loop returned and reports the error that brought them down, if any
func (s *Supervisor) Wait() error {
	s.wg.Wait()
	s.cancel()
	return s.firstErr
}
