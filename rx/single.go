package rx

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
)

// SingleEvent is the outcome of a Single: a value or an error. Build it
// with Success or Failure; the zero value is a failure.
type SingleEvent[T any] struct {
	Value T
	Err   error
	ok    bool
}

// Success returns a successful SingleEvent.
func Success[T any](v T) SingleEvent[T] {
	return SingleEvent[T]{Value: v, ok: true}
}

// Failure returns a failed SingleEvent. A nil err is replaced by a
// CONTRACT_VIOLATION error so the failure is never mistaken for a value.
func Failure[T any](err error) SingleEvent[T] {
	if err == nil {
		err = errors.ContractViolation("single failure without an error")
	}
	return SingleEvent[T]{Err: err}
}

// IsSuccess reports whether the event carries a value.
func (e SingleEvent[T]) IsSuccess() bool {
	return e.ok
}

func (e SingleEvent[T]) failure() error {
	if e.Err == nil {
		return errors.ContractViolation("single failure without an error")
	}
	return e.Err
}

// Single is a stream that produces exactly one value or one error.
type Single[T any] struct {
	source Observable[T]
}

// CreateSingle builds a Single from a subscribe function. emit maps
// Success to Next followed by Complete and Failure to Error; only the
// first call has an effect.
func CreateSingle[T any](subscribe func(ctx context.Context, emit func(SingleEvent[T])) disposable.Disposable) Single[T] {
	source := Create(func(ctx context.Context, o Observer[T]) disposable.Disposable {
		return subscribe(ctx, func(e SingleEvent[T]) {
			if e.IsSuccess() {
				o.On(Next(e.Value))
				o.On(Complete[T]())
				return
			}
			o.On(Error[T](e.failure()))
		})
	})
	return Single[T]{source: source}
}

// JustSingle returns a Single that succeeds with v.
func JustSingle[T any](v T) Single[T] {
	return Single[T]{source: Just(v)}
}

// AsSingle treats src as a Single. The first Next or Error is delivered
// and everything after it ignored.
func AsSingle[T any](src Observable[T]) Single[T] {
	return Single[T]{source: src}
}

// AsObservable returns the underlying stream.
func (s Single[T]) AsObservable() Observable[T] {
	return s.source
}

// Subscribe delivers the single outcome to fn. A source that completes
// without producing a value breaks the Single protocol; that is logged
// and nothing is delivered.
func (s Single[T]) Subscribe(ctx context.Context, fn func(SingleEvent[T])) disposable.Disposable {
	var stopped atomic.Bool
	return SubscribeFunc(ctx, s.source, func(e Event[T]) {
		if !stopped.CompareAndSwap(false, true) {
			return
		}
		switch e.Kind {
		case KindNext:
			fn(Success(e.Value))
		case KindError:
			fn(Failure[T](e.Err))
		case KindComplete:
			err := errors.ProtocolViolation("single completed without a value")
			logger.Get("rx").WithContext(ctx).WithError(err).Warn("single can't emit a completion event")
		}
	})
}
