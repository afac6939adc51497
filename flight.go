package doc2pdf

import (
	"context"
	"sync"
)

// FlightPolicy decides what happens when a conversion starts while another
// one is running.
type FlightPolicy int

// Flight policies.
const (
	// PreemptActive cancels the running conversion and waits for it to tear
	// down before the new one starts.
	PreemptActive FlightPolicy = iota
	// RejectWhenBusy fails the new conversion with ErrBusy.
	RejectWhenBusy
)

func (p FlightPolicy) String() string {
	if p == RejectWhenBusy {
		return "reject"
	}
	return "preempt"
}

// flight admits one conversion at a time.
type flight struct {
	policy FlightPolicy

	mu     sync.Mutex
	active *slot
}

type slot struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// acquire claims the flight for a new conversion. The returned context is
// cancelled when a later conversion preempts this one; release must be
// called when the conversion has fully torn down.
func (f *flight) acquire(ctx context.Context) (context.Context, func(), error) {
	for {
		f.mu.Lock()
		cur := f.active
		if cur == nil {
			jobCtx, cancel := context.WithCancel(ctx)
			s := &slot{cancel: cancel, done: make(chan struct{})}
			f.active = s
			f.mu.Unlock()
			return jobCtx, func() { f.release(s) }, nil
		}
		f.mu.Unlock()

		if f.policy == RejectWhenBusy {
			return nil, nil, ErrBusy
		}

		cur.cancel()
		select {
		case <-cur.done:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

func (f *flight) release(s *slot) {
	s.once.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()

		s.cancel()
		if f.active == s {
			f.active = nil
		}
		close(s.done)
	})
}
