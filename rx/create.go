package rx

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/rxkit/disposable"
)

// Create builds an Observable from a subscribe function. subscribe is
// called once per subscription with an observer that ignores everything
// after the first terminal event; the Disposable it returns is disposed
// when the subscription ends.
func Create[T any](subscribe func(ctx context.Context, o Observer[T]) disposable.Disposable) Observable[T] {
	return NewProducer[T](RunnerFunc[T](func(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
		sink := &anonymousSink[T]{Sink: NewSink(o, cancel)}
		subscription := subscribe(ctx, sink)
		if subscription == nil {
			subscription = disposable.Nop
		}
		return sink, subscription
	}))
}

type anonymousSink[T any] struct {
	*Sink[T]
	stopped atomic.Bool
}

func (s *anonymousSink[T]) On(e Event[T]) {
	if !e.IsTerminal() {
		if !s.stopped.Load() {
			s.ForwardOn(e)
		}
		return
	}
	if s.stopped.CompareAndSwap(false, true) {
		s.ForwardOn(e)
		s.Dispose()
	}
}
