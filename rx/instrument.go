package rx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
)

// Instrument wraps src so that every subscription gets an ID, a span and
// metrics. The subscription ID is placed on the context handed to src, so
// log lines written through logger.WithContext carry it. metrics may be
// nil.
func Instrument[T any](src Observable[T], name string, metrics *observability.StreamMetrics) Observable[T] {
	return NewProducer[T](RunnerFunc[T](func(ctx context.Context, o Observer[T], cancel disposable.Cancelable) (disposable.Disposable, disposable.Disposable) {
		id := uuid.NewString()
		ctx = logger.ContextWithSubscription(ctx, id)
		ctx, span := observability.StartSpan(ctx, observability.SpanSubscribe+" "+name,
			trace.WithAttributes(
				attribute.String(observability.AttrStream, name),
				attribute.String(observability.AttrSubscriptionID, id),
			),
		)
		metrics.RecordSubscribe(ctx, name)

		sink := &instrumentSink[T]{
			Sink:    NewSink(o, cancel),
			ctx:     ctx,
			name:    name,
			span:    span,
			metrics: metrics,
			started: time.Now(),
			log:     logger.WithContext(ctx).WithComponent("rx"),
		}
		sink.log.Debug("subscribed", logger.Fields(logger.FieldStream, name))
		return sink, src.Subscribe(ctx, sink)
	}))
}

type instrumentSink[T any] struct {
	*Sink[T]
	ctx     context.Context
	name    string
	span    trace.Span
	metrics *observability.StreamMetrics
	started time.Time
	log     *logger.Logger
	nexts   atomic.Int64
	once    sync.Once
}

func (s *instrumentSink[T]) On(e Event[T]) {
	if s.IsDisposed() {
		return
	}
	s.metrics.RecordEvent(s.ctx, s.name, e.Kind.String())
	switch e.Kind {
	case KindNext:
		s.nexts.Add(1)
		s.ForwardOn(e)
	case KindError:
		s.metrics.RecordError(s.ctx, s.name, e.Err)
		observability.SetSpanError(s.ctx, e.Err)
		s.log.WithError(e.Err).Warn("stream failed", logger.Fields(logger.FieldStream, s.name))
		s.ForwardOn(e)
		s.Dispose()
	case KindComplete:
		s.ForwardOn(e)
		s.Dispose()
	}
}

// Dispose ends the span and records the subscription lifetime once, then
// tears down the subscription.
func (s *instrumentSink[T]) Dispose() {
	s.once.Do(func() {
		lifetime := time.Since(s.started)
		s.span.SetAttributes(attribute.Int64(observability.AttrEventCount, s.nexts.Load()))
		s.span.End()
		s.metrics.RecordDispose(s.ctx, s.name, lifetime)
		s.log.Debug("disposed", logger.DurationFields(s.name, lifetime))
	})
	s.Sink.Dispose()
}
