package rx

import (
	"context"
	"slices"
	"sync"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/scheduler"
)

// Collect subscribes to src and blocks until it terminates, returning
// every value it produced and the terminal error, if any. If ctx is done
// first the subscription is disposed and Collect returns the values seen
// so far with a STREAM_DISPOSED error wrapping ctx.Err().
//
// The subscription runs detached from any trampoline drain active in ctx,
// so Collect may be called from inside a Map transform or a Create
// subscribe function.
func Collect[T any](ctx context.Context, src Observable[T]) ([]T, error) {
	var (
		mu    sync.Mutex
		items []T
		err   error
	)
	done := make(chan struct{})

	sub := SubscribeFunc(scheduler.Detach(ctx), src, func(e Event[T]) {
		switch e.Kind {
		case KindNext:
			mu.Lock()
			items = append(items, e.Value)
			mu.Unlock()
		case KindError:
			mu.Lock()
			err = e.Err
			mu.Unlock()
			close(done)
		case KindComplete:
			close(done)
		}
	})

	result := func() ([]T, error) {
		mu.Lock()
		defer mu.Unlock()
		return slices.Clone(items), err
	}

	select {
	case <-done:
		return result()
	case <-ctx.Done():
		select {
		case <-done:
			return result()
		default:
		}
		sub.Dispose()
		values, _ := result()
		return values, errors.StreamDisposed(ctx.Err())
	}
}
