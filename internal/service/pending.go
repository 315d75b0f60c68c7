package service

import (
	"context"
	"sync/atomic"
	"time"
)

// Pending is the result of a submission that commits after the configured delay.
type Pending[T any] struct {
	id    string
	done  chan struct{}
	value T
	err   error
}

func newPending[T any](id string) *Pending[T] {
	return &Pending[T]{id: id, done: make(chan struct{})}
}

// failed returns an already-settled Pending carrying err.
func failed[T any](err error) *Pending[T] {
	p := newPending[T]("")
	p.settle(*new(T), err)
	return p
}

func (p *Pending[T]) settle(value T, err error) {
	p.value = value
	p.err = err
	close(p.done)
}

// ID is the identifier the committed record will carry. Empty when the submission was
// rejected up front.
func (p *Pending[T]) ID() string {
	return p.id
}

// Done is closed once the operation has committed or failed.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the operation settles or ctx ends. Abandoning the wait does not
// cancel the commit.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// inflight counts submissions that have not settled yet.
type inflight struct {
	n atomic.Int64
}

func (f *inflight) Loading() bool {
	return f.n.Load() > 0
}

// submit runs commit after delay on its own goroutine. The commit context is detached
// from ctx's cancellation so a finished request does not abort it.
func submit[T any](ctx context.Context, tracker *inflight, delay time.Duration, id string, commit func(context.Context) (T, error)) *Pending[T] {
	p := newPending[T](id)
	commitCtx := context.WithoutCancel(ctx)
	tracker.n.Add(1)
	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			<-timer.C
		}
		value, err := commit(commitCtx)
		tracker.n.Add(-1)
		p.settle(value, err)
	}()
	return p
}
