package rx

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rxkit/disposable"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
)

type telemetry struct {
	spans   *tracetest.InMemoryExporter
	reader  *sdkmetric.ManualReader
	metrics *observability.StreamMetrics
}

func setupTelemetry(t *testing.T) *telemetry {
	t.Helper()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewStreamMetrics(mp.Meter("rx-test"))
	require.NoError(t, err)

	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return &telemetry{spans: spans, reader: reader, metrics: metrics}
}

func (tm *telemetry) sums(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tm.reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestInstrument_Complete(t *testing.T) {
	tm := setupTelemetry(t)

	got, err := Collect(context.Background(), Instrument(FromSlice([]int{1, 2}), "nums", tm.metrics))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	spans := tm.spans.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, observability.SpanSubscribe+" nums", spans[0].Name())

	count, ok := spanAttr(spans[0], observability.AttrEventCount)
	require.True(t, ok)
	assert.Equal(t, int64(2), count.AsInt64())

	id, ok := spanAttr(spans[0], observability.AttrSubscriptionID)
	require.True(t, ok)
	assert.NotEmpty(t, id.AsString())

	sums := tm.sums(t)
	assert.Equal(t, int64(1), sums[observability.MetricSubscriptions])
	assert.Equal(t, int64(0), sums[observability.MetricSubscriptionsActive])
	assert.Equal(t, int64(3), sums[observability.MetricEvents])
	assert.Equal(t, int64(0), sums[observability.MetricErrors])
}

func TestInstrument_Error(t *testing.T) {
	tm := setupTelemetry(t)
	cause := fmt.Errorf("boom")

	_, err := Collect(context.Background(), Instrument(Create(func(_ context.Context, o Observer[int]) disposable.Disposable {
		o.On(Error[int](cause))
		return nil
	}), "failing", tm.metrics))
	require.ErrorIs(t, err, cause)

	spans := tm.spans.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	sums := tm.sums(t)
	assert.Equal(t, int64(1), sums[observability.MetricErrors])
	assert.Equal(t, int64(0), sums[observability.MetricSubscriptionsActive])
}

func TestInstrument_PropagatesContext(t *testing.T) {
	setupTelemetry(t)

	var (
		subscriptionID string
		spanValid      bool
	)
	src := Create(func(ctx context.Context, o Observer[int]) disposable.Disposable {
		subscriptionID, _ = logger.SubscriptionFromContext(ctx)
		spanValid = trace.SpanFromContext(ctx).SpanContext().IsValid()
		o.On(Complete[int]())
		return nil
	})

	_, err := Collect(context.Background(), Instrument(src, "ctx", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, subscriptionID)
	assert.True(t, spanValid)
}

func TestInstrument_DisposeEndsSpanOnce(t *testing.T) {
	tm := setupTelemetry(t)
	src := &manualSource[int]{}

	sub := Instrument(src.Observable(), "manual", tm.metrics).Subscribe(context.Background(), &recorder[int]{})
	src.Push(Next(1))
	assert.Empty(t, tm.spans.GetSpans(), "span stays open while the subscription lives")
	assert.Equal(t, int64(1), tm.sums(t)[observability.MetricSubscriptionsActive])

	sub.Dispose()
	sub.Dispose()

	assert.Len(t, tm.spans.GetSpans(), 1)
	assert.True(t, src.disposed.Load())
	assert.Equal(t, int64(0), tm.sums(t)[observability.MetricSubscriptionsActive])
}
