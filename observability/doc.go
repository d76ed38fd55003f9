// Package observability provides OpenTelemetry tracing and metrics for
// rxkit streams.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "rx.subscribe ticks")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStreamMetrics(observability.Meter("rxkit"))
//	stream := rx.Instrument(src, "ticks", metrics)
package observability
