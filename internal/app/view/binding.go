// Package view holds the presentation units of the course client. A unit owns
// the subscriptions it starts and releases all of them exactly once on Destroy.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/yigit/coursehub/internal/pkg/async"
)

var (
	// ErrDestroyed is returned when a destroyed unit is activated again
	ErrDestroyed = errors.New("view: unit destroyed")
	// ErrAlreadyActive is returned by a second Activate
	ErrAlreadyActive = errors.New("view: binding already active")
)

// Snapshot is what a render function sees of a bound sequence. Ready is false
// until the outcome is known.
type Snapshot[T any] struct {
	Value T
	Err   error
	Ready bool
}

// Binding subscribes a sequence on Activate and unsubscribes it on Destroy.
// Nothing reaches the snapshot after Destroy.
type Binding[T any] struct {
	mu        sync.Mutex
	seq       async.Sequence[T]
	sub       *async.Subscription
	snap      Snapshot[T]
	settled   chan struct{}
	active    bool
	destroyed bool
}

// Bind wraps seq without subscribing it
func Bind[T any](seq async.Sequence[T]) *Binding[T] {
	return &Binding[T]{
		seq:     seq,
		settled: make(chan struct{}),
	}
}

// Activate subscribes the sequence
func (b *Binding[T]) Activate(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.destroyed:
		return ErrDestroyed
	case b.active:
		return ErrAlreadyActive
	}
	b.active = true

	// Callbacks take b.mu, so they run only after sub is stored
	b.sub = b.seq.Subscribe(ctx, async.Observer[T]{
		Next: func(v T) {
			b.settle(Snapshot[T]{Value: v, Ready: true})
		},
		Error: func(err error) {
			b.settle(Snapshot[T]{Err: err, Ready: true})
		},
	})
	return nil
}

func (b *Binding[T]) settle(s Snapshot[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.snap = s
	close(b.settled)
}

// Snapshot returns the current view of the sequence
func (b *Binding[T]) Snapshot() Snapshot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Settled is closed when a value or an error has arrived. It is never closed
// for a binding destroyed before that.
func (b *Binding[T]) Settled() <-chan struct{} {
	return b.settled
}

// State reports the subscription state, Idle before activation
func (b *Binding[T]) State() async.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sub == nil {
		if b.destroyed {
			return async.TornDown
		}
		return async.Idle
	}
	return b.sub.State()
}

// Destroy releases the subscription. Only the first call has an effect; it
// reports whether this call did the work.
func (b *Binding[T]) Destroy() bool {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return false
	}
	b.destroyed = true
	sub := b.sub
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	return true
}
