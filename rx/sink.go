package rx

import (
	"sync/atomic"

	"github.com/kbukum/rxkit/disposable"
)

// Sink is the per-subscription state an operator embeds. It owns the
// downstream observer and the Cancelable shared with the subscription
// handle.
type Sink[T any] struct {
	observer Observer[T]
	cancel   disposable.Cancelable
	disposed atomic.Bool
}

// NewSink creates a sink forwarding to o.
func NewSink[T any](o Observer[T], cancel disposable.Cancelable) *Sink[T] {
	return &Sink[T]{observer: o, cancel: cancel}
}

// ForwardOn delivers e downstream unless the sink is disposed.
func (s *Sink[T]) ForwardOn(e Event[T]) {
	if s.disposed.Load() {
		return
	}
	s.observer.On(e)
}

// IsDisposed reports whether the sink was disposed.
func (s *Sink[T]) IsDisposed() bool {
	return s.disposed.Load()
}

// Dispose stops forwarding and disposes the shared Cancelable, which
// tears down the upstream subscription.
func (s *Sink[T]) Dispose() {
	s.disposed.Store(true)
	s.cancel.Dispose()
}
