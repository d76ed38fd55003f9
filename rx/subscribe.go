package rx

import (
	"context"

	"github.com/kbukum/rxkit/disposable"
)

// SubscribeFunc subscribes a guarded handler to src. The handler sees at
// most one terminal event.
func SubscribeFunc[T any](ctx context.Context, src Observable[T], on func(Event[T])) disposable.Disposable {
	return src.Subscribe(ctx, NewObserver(on))
}

// Callbacks are the per-kind handlers used by SubscribeCallbacks. Any of
// them may be nil.
type Callbacks[T any] struct {
	OnNext     func(T)
	OnError    func(error)
	OnComplete func()
	// OnDisposed runs once, after a terminal event or when the returned
	// handle is disposed, whichever happens first.
	OnDisposed func()
}

// SubscribeCallbacks subscribes per-kind callbacks to src. The returned
// handle disposes the subscription and runs OnDisposed.
func SubscribeCallbacks[T any](ctx context.Context, src Observable[T], cb Callbacks[T]) disposable.Disposable {
	disposed := disposable.New(cb.OnDisposed)

	observer := NewObserver(func(e Event[T]) {
		switch e.Kind {
		case KindNext:
			if cb.OnNext != nil {
				cb.OnNext(e.Value)
			}
		case KindError:
			if cb.OnError != nil {
				cb.OnError(e.Err)
			}
			disposed.Dispose()
		case KindComplete:
			if cb.OnComplete != nil {
				cb.OnComplete()
			}
			disposed.Dispose()
		}
	})

	return disposable.NewBinary(src.Subscribe(ctx, observer), disposed)
}

// Bind subscribes src once and delivers every event to each observer in
// order.
func Bind[T any](ctx context.Context, src Observable[T], observers ...Observer[T]) disposable.Disposable {
	return SubscribeFunc(ctx, src, func(e Event[T]) {
		for _, o := range observers {
			o.On(e)
		}
	})
}
