package rx

import (
	"context"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/scheduler"
)

// FromSlice returns an Observable that emits each item in order and then
// completes. The emission is queued on the trampoline, so it starts once
// the whole operator chain is subscribed and a downstream disposal stops
// it between items.
func FromSlice[T any](items []T) Observable[T] {
	return NewProducer[T](RunnerFunc[T](func(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
		sink := NewSink(o, cancel)
		emission := scheduler.CurrentThread.Schedule(ctx, func(context.Context) disposable.Disposable {
			for _, item := range items {
				if sink.IsDisposed() {
					return nil
				}
				sink.ForwardOn(Next(item))
			}
			sink.ForwardOn(Complete[T]())
			sink.Dispose()
			return nil
		})
		return sink, emission
	}))
}
