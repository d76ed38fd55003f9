package rx

import (
	"context"

	"github.com/kbukum/rxkit/disposable"
)

type just[T any] struct {
	value T
}

// Just returns an Observable that emits v and completes, synchronously,
// on every subscription. It does not use the trampoline and there is
// nothing to cancel.
func Just[T any](v T) Observable[T] {
	return just[T]{value: v}
}

func (j just[T]) Subscribe(_ context.Context, o Observer[T]) disposable.Disposable {
	o.On(Next(j.value))
	o.On(Complete[T]())
	return disposable.Nop
}
