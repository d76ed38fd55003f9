package rx

import (
	"context"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/errors"
)

// Map returns an Observable that applies fn to every value of src.
//
// An error returned by fn, or a panic inside it, is delivered downstream
// as a TRANSFORM_FAILED error and ends the subscription. Error and
// Complete from src are forwarded unchanged.
func Map[I, O any](src Observable[I], fn func(ctx context.Context, v I) (O, error)) Observable[O] {
	return NewProducer[O](RunnerFunc[O](func(ctx context.Context, o Observer[O], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
		sink := &mapSink[I, O]{Sink: NewSink(o, cancel), ctx: ctx, fn: fn}
		return sink, src.Subscribe(ctx, sink)
	}))
}

type mapSink[I, O any] struct {
	*Sink[O]
	ctx context.Context
	fn  func(context.Context, I) (O, error)
}

func (s *mapSink[I, O]) On(e Event[I]) {
	switch e.Kind {
	case KindNext:
		v, err := s.apply(e.Value)
		if err != nil {
			s.ForwardOn(Error[O](err))
			s.Dispose()
			return
		}
		s.ForwardOn(Next(v))
	case KindError:
		s.ForwardOn(Error[O](e.Err))
		s.Dispose()
	case KindComplete:
		s.ForwardOn(Complete[O]())
		s.Dispose()
	}
}

func (s *mapSink[I, O]) apply(v I) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.TransformPanicked("map", r)
		}
	}()
	out, err = s.fn(s.ctx, v)
	if err != nil {
		return out, errors.TransformFailed("map", err)
	}
	return out, nil
}
