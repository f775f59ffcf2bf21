// Package async provides cold, single-shot, cancellable sequences.
//
// A Sequence does nothing until it is subscribed. Every subscription runs the
// producer once in its own goroutine; two subscriptions to the same Sequence run
// it twice. A subscription delivers at most one value followed by completion, or
// one error. An Unsubscribe that reports a teardown guarantees that nothing is
// delivered afterwards; one that comes after the outcome was settled reports false
// and only releases the subscription.
package async

import (
	"context"
	"errors"
	"sync"
)

// ErrNilProducer is delivered by a zero Sequence.
var ErrNilProducer = errors.New("async: sequence has no producer")

// State is the lifecycle position of a Subscription.
type State int

const (
	Idle State = iota
	Requested
	Delivered
	Failed
	TornDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requested:
		return "requested"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	case TornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// Observer receives the outcome of a subscription. Nil callbacks are skipped.
// Callbacks run on the subscription's goroutine.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Producer performs the work behind a Sequence. It must honour ctx cancellation.
type Producer[T any] func(ctx context.Context) (T, error)

// Sequence is a cold single-shot asynchronous value.
type Sequence[T any] struct {
	produce Producer[T]
}

// New wraps produce in a Sequence. produce is not called until Subscribe.
func New[T any](produce Producer[T]) Sequence[T] {
	return Sequence[T]{produce: produce}
}

// Just returns a Sequence that yields v without doing any work
func Just[T any](v T) Sequence[T] {
	return New(func(context.Context) (T, error) { return v, nil })
}

// Fail returns a Sequence that fails with err
func Fail[T any](err error) Sequence[T] {
	return New(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// Subscribe starts the producer and routes its outcome to obs. Cancelling ctx
// or calling Unsubscribe on the returned Subscription tears it down.
func (s Sequence[T]) Subscribe(ctx context.Context, obs Observer[T]) *Subscription {
	runCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		state:  Requested,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	produce := s.produce
	if produce == nil {
		produce = func(context.Context) (T, error) {
			var zero T
			return zero, ErrNilProducer
		}
	}

	go func() {
		defer close(sub.done)
		defer cancel()

		v, err := produce(runCtx)

		// Once the context is gone the consumer is gone too
		if runCtx.Err() != nil {
			sub.finish(TornDown)
			return
		}

		if err != nil {
			if !sub.finish(Failed) {
				return
			}
			if obs.Error != nil {
				obs.Error(err)
			}
			return
		}

		if !sub.finish(Delivered) {
			return
		}
		if obs.Next != nil {
			obs.Next(v)
		}
		if obs.Complete != nil {
			obs.Complete()
		}
	}()

	return sub
}

// Await subscribes and blocks until the outcome is known or ctx is done.
// On ctx expiry the subscription is torn down and ctx.Err() is returned.
func (s Sequence[T]) Await(ctx context.Context) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)

	sub := s.Subscribe(ctx, Observer[T]{
		Next:  func(v T) { ch <- result{v: v} },
		Error: func(err error) { ch <- result{err: err} },
	})

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		sub.Unsubscribe()
		var zero T
		return zero, ctx.Err()
	}
}

// Subscription is the handle of one running (or finished) producer.
type Subscription struct {
	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// finish moves a requested subscription into a terminal state. It reports false
// when the subscription was torn down first; the outcome is then dropped.
func (s *Subscription) finish(to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Requested {
		return false
	}
	s.state = to
	return true
}

// Unsubscribe tears the subscription down and cancels the producer. It is safe
// to call more than once and from any goroutine, including an observer callback.
// It reports true only when it stopped an outcome that was not yet settled.
func (s *Subscription) Unsubscribe() bool {
	s.mu.Lock()
	prev := s.state
	if prev == TornDown {
		s.mu.Unlock()
		return false
	}
	s.state = TornDown
	s.mu.Unlock()

	s.cancel()
	return prev == Requested
}

// State returns the current lifecycle state
func (s *Subscription) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the producer goroutine has returned
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
