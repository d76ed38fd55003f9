package rx

import "sync/atomic"

// Observer receives the events of a stream.
type Observer[T any] interface {
	On(e Event[T])
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc[T any] func(e Event[T])

// On calls f(e).
func (f ObserverFunc[T]) On(e Event[T]) { f(e) }

// AsObserver erases the concrete type of o.
func AsObserver[T any](o Observer[T]) ObserverFunc[T] {
	if f, ok := o.(ObserverFunc[T]); ok {
		return f
	}
	return o.On
}

// GuardedObserver forwards events to a handler until the first terminal
// event; everything after it is dropped.
type GuardedObserver[T any] struct {
	handler func(Event[T])
	stopped atomic.Bool
}

// NewObserver wraps handler in a termination guard.
func NewObserver[T any](handler func(Event[T])) *GuardedObserver[T] {
	return &GuardedObserver[T]{handler: handler}
}

// On delivers e unless the observer has stopped. Only the first terminal
// event gets through.
func (g *GuardedObserver[T]) On(e Event[T]) {
	if !e.IsTerminal() {
		if !g.stopped.Load() {
			g.handler(e)
		}
		return
	}
	if g.stopped.CompareAndSwap(false, true) {
		g.handler(e)
	}
}

// Dispose stops the observer without delivering anything.
func (g *GuardedObserver[T]) Dispose() {
	g.stopped.Store(true)
}

// IsStopped reports whether a terminal event was delivered or the
// observer was disposed.
func (g *GuardedObserver[T]) IsStopped() bool {
	return g.stopped.Load()
}
