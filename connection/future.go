package connection

import (
	"context"
	"time"
)

// Future is the pending result of an engine request. It can be awaited
// or given a callback; both read the same completion signal.
type Future struct {
	done chan struct{}
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// failedFuture returns an already completed Future carrying err.
func failedFuture(err error) *Future {
	f := newFuture()
	f.resolve(nil, err)
	return f
}

// resolve must be called exactly once.
func (f *Future) resolve(resp *Response, err error) {
	f.resp = resp
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed when the request completes.
func (f *Future) Done() <-chan struct{} { return f.done }

// IsComplete reports whether the request has completed, without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the request completes or ctx is done. Giving up on
// ctx does not cancel the request itself; cancel the context passed to
// the operation for that.
func (f *Future) Await(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitWithTimeout is Await bounded by d, returning ErrTimeout when it elapses.
func (f *Future) AwaitWithTimeout(d time.Duration) (*Response, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.resp, f.err
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Then registers fn to run on its own goroutine once the request
// completes. It returns f for chaining.
func (f *Future) Then(fn func(*Response, error)) *Future {
	go func() {
		<-f.done
		fn(f.resp, f.err)
	}()

	return f
}
