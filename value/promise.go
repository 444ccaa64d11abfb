// Copyright © 2024 The ELPS authors

package value

import (
	"context"
	"sync"
)

// Promise is the eventual result of an asynchronous operation.  A promise
// settles exactly once, either fulfilled with a value or rejected with a
// reason; later calls to Resolve or Reject are ignored.
type Promise struct {
	once     sync.Once
	done     chan struct{}
	value    any
	rejected bool
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Resolved returns a promise already fulfilled with v.
func Resolved(v any) *Promise {
	p := NewPromise()
	p.Resolve(v)
	return p
}

// Rejected returns a promise already rejected with reason.
func Rejected(reason any) *Promise {
	p := NewPromise()
	p.Reject(reason)
	return p
}

// Go runs fn on a new goroutine and settles the returned promise with its
// result.  A non-nil error or a panic rejects the promise.
func Go(fn func() (any, error)) *Promise {
	p := NewPromise()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.Reject(PanicError(r))
			}
		}()
		v, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}

// Resolve fulfils p with v.
func (p *Promise) Resolve(v any) {
	p.settle(v, false)
}

// Reject rejects p with reason.
func (p *Promise) Reject(reason any) {
	p.settle(reason, true)
}

func (p *Promise) settle(v any, rejected bool) {
	p.once.Do(func() {
		p.value = v
		p.rejected = rejected
		close(p.done)
	})
}

// Done returns a channel closed once p settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether p has settled.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until p settles or ctx is done.  It returns the fulfilled
// value or the rejection reason, and whether p was rejected.
func (p *Promise) Await(ctx context.Context) (v any, rejected bool, err error) {
	select {
	case <-p.done:
		return p.value, p.rejected, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
