package offscreen

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyResolved is returned by a second call to LoadSignal.Resolve.
var ErrAlreadyResolved = errors.New("load signal already resolved")

// LoadSignal carries the outcome of an asynchronous page load. It resolves
// exactly once; waiters observe the first outcome only.
type LoadSignal struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	err      error
}

// NewLoadSignal returns an unresolved signal.
func NewLoadSignal() *LoadSignal {
	return &LoadSignal{done: make(chan struct{})}
}

// Resolve records the load outcome; a nil err means success. Later calls
// leave the first outcome in place and return ErrAlreadyResolved.
func (s *LoadSignal) Resolve(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved {
		return ErrAlreadyResolved
	}
	s.resolved = true
	s.err = err
	close(s.done)
	return nil
}

// MustResolve is like Resolve but panics when the signal was already
// resolved.
func (s *LoadSignal) MustResolve(err error) {
	if rerr := s.Resolve(err); rerr != nil {
		panic(rerr)
	}
}

// Done is closed once the signal resolves.
func (s *LoadSignal) Done() <-chan struct{} {
	return s.done
}

// Err returns the load error. It is nil until Done is closed and nil after
// a successful load.
func (s *LoadSignal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the signal resolves or ctx is done. It returns the
// load error, or ctx.Err() if the context ended first.
func (s *LoadSignal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}
