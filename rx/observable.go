package rx

import (
	"context"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/scheduler"
)

// Observable is a lazy stream of events.
type Observable[T any] interface {
	// Subscribe starts a run delivering events to o. Disposing the result
	// cancels the run.
	Subscribe(ctx context.Context, o Observer[T]) disposable.Disposable
}

// Runner builds the sink chain of one subscription. It returns the sink
// it created and the subscription to its source; cancel is the shared
// Cancelable the sink disposes on termination.
type Runner[T any] interface {
	Run(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (sink, subscription disposable.Disposable)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc[T any] func(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (sink, subscription disposable.Disposable)

// Run calls f.
func (f RunnerFunc[T]) Run(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
	return f(ctx, o, cancel)
}

// Producer is an Observable that runs its subscriptions on the
// current-thread trampoline.
type Producer[T any] struct {
	runner Runner[T]
}

// NewProducer creates a Producer backed by r.
func NewProducer[T any](r Runner[T]) *Producer[T] {
	return &Producer[T]{runner: r}
}

// Subscribe runs the subscription directly when the trampoline is already
// active for ctx; otherwise it starts a trampoline drain for it.
func (p *Producer[T]) Subscribe(ctx context.Context, o Observer[T]) disposable.Disposable {
	if !scheduler.CurrentThread.IsScheduleRequired(ctx) {
		return p.run(ctx, o)
	}
	return scheduler.CurrentThread.Schedule(ctx, func(ctx context.Context) disposable.Disposable {
		return p.run(ctx, o)
	})
}

func (p *Producer[T]) run(ctx context.Context, o Observer[T]) disposable.Disposable {
	disposer := disposable.NewSinkDisposer()
	sink, subscription := p.runner.Run(ctx, o, disposer)
	disposer.SetSinkAndSubscription(sink, subscription)
	return disposer
}
