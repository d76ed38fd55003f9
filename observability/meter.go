package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rxkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (development, staging, production).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "0.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names recorded by StreamMetrics.
const (
	MetricSubscriptions        = "rx.subscriptions"
	MetricSubscriptionsActive  = "rx.subscriptions.active"
	MetricEvents               = "rx.events"
	MetricErrors               = "rx.errors"
	MetricSubscriptionDuration = "rx.subscription.duration"
)

// StreamMetrics holds the instruments recording stream activity. A nil
// *StreamMetrics records nothing.
type StreamMetrics struct {
	subscriptions metric.Int64Counter
	active        metric.Int64UpDownCounter
	events        metric.Int64Counter
	errors        metric.Int64Counter
	duration      metric.Float64Histogram
}

// NewStreamMetrics creates the stream instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	subscriptions, err := meter.Int64Counter(MetricSubscriptions,
		metric.WithDescription("Total number of stream subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricSubscriptions, err)
	}

	active, err := meter.Int64UpDownCounter(MetricSubscriptionsActive,
		metric.WithDescription("Number of live stream subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricSubscriptionsActive, err)
	}

	events, err := meter.Int64Counter(MetricEvents,
		metric.WithDescription("Events delivered by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricEvents, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Streams terminated by an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	duration, err := meter.Float64Histogram(MetricSubscriptionDuration,
		metric.WithDescription("Lifetime of stream subscriptions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricSubscriptionDuration, err)
	}

	return &StreamMetrics{
		subscriptions: subscriptions,
		active:        active,
		events:        events,
		errors:        errorTotal,
		duration:      duration,
	}, nil
}

// RecordSubscribe counts a new subscription to stream.
func (m *StreamMetrics) RecordSubscribe(ctx context.Context, stream string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrStream, stream))
	m.subscriptions.Add(ctx, 1, attrs)
	m.active.Add(ctx, 1, attrs)
}

// RecordEvent counts an event of the given kind.
func (m *StreamMetrics) RecordEvent(ctx context.Context, stream, kind string) {
	if m == nil {
		return
	}
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStream, stream),
		attribute.String(AttrEventKind, kind),
	))
}

// RecordError counts a stream terminated by err.
func (m *StreamMetrics) RecordError(ctx context.Context, stream string, err error) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStream, stream),
		attribute.String(AttrErrorType, errorType(err)),
	))
}

// RecordDispose records the end of a subscription and how long it lived.
func (m *StreamMetrics) RecordDispose(ctx context.Context, stream string, lifetime time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrStream, stream))
	m.active.Add(ctx, -1, attrs)
	m.duration.Record(ctx, lifetime.Seconds(), attrs)
}
