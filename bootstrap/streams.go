package bootstrap

import (
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
)

// Instrument wraps src with the runtime's stream metrics and tracing and
// lists it in the startup summary.
func Instrument[T any](r *Runtime, src rx.Observable[T], name string) rx.Observable[T] {
	r.summary.TrackStream(name, "instrumented", observability.MetricEvents)
	return rx.Instrument(src, name, r.metrics)
}

// Buffer windows src with the configured buffer timespan and count, using
// the runtime's timer. Partial windows are flushed on completion.
func Buffer[T any](r *Runtime, src rx.Observable[T]) rx.Observable[[]T] {
	return rx.Buffer(src, r.cfg.Buffer.Timespan, r.cfg.Buffer.Count,
		rx.WithTimer(r.timer),
		rx.WithFlushOnTerminate(),
	)
}
