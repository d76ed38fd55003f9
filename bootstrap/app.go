package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/rxkit/config"
	apperrors "github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/scheduler"
	"github.com/kbukum/rxkit/sse"
)

// Runtime holds everything a stream application shares: configuration,
// logger, stream metrics, the Buffer timer and the SSE hub.
type Runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *observability.StreamMetrics
	timer   scheduler.Timer
	hub     *sse.Hub
	summary *Summary

	gracefulTimeout time.Duration
	shutdowns       []namedShutdown
	onStart         []Hook
	onStop          []Hook

	stopOnce sync.Once
	stopErr  error
}

type namedShutdown struct {
	name string
	fn   func(context.Context) error
}

// Setup builds a Runtime from cfg. It applies defaults, validates the
// config, initializes the global logger, sizes the trampoline queue and,
// when observability is enabled, installs the OTLP meter and tracer
// providers. The SSE hub is started; call Shutdown to release it all.
func Setup(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	start := time.Now()

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	r := &Runtime{
		cfg:             cfg,
		timer:           scheduler.AfterFunc,
		gracefulTimeout: 15 * time.Second,
		summary:         NewSummary(cfg.Name, cfg.Version),
	}
	if o.timer != nil {
		r.timer = o.timer
	}
	if o.gracefulTimeout != nil {
		r.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		r.log = o.logger
		logger.SetGlobalLogger(o.logger)
	} else {
		logger.Init(&cfg.Logging)
		r.log = logger.GetGlobalLogger()
	}
	logger.RegisterDefaults("rx", "scheduler", "disposable", "sse")

	scheduler.CurrentThread.SetQueueCapacity(cfg.Scheduler.QueueCapacity)

	if err := r.initTelemetry(ctx); err != nil {
		r.shutdownTelemetry(context.Background())
		return nil, err
	}

	r.hub = sse.NewHub()
	go r.hub.Run()

	r.summary.SetStartupDuration(time.Since(start))
	r.log.Info("runtime ready", logger.Fields(
		"name", cfg.Name,
		"version", cfg.Version,
		"queue_capacity", cfg.Scheduler.QueueCapacity,
		"observability", cfg.Observability.Enabled,
	))
	return r, nil
}

// initTelemetry installs the OTLP providers when enabled and creates the
// stream instruments on the global meter, which is a no-op otherwise.
func (r *Runtime) initTelemetry(ctx context.Context) error {
	obs := r.cfg.Observability
	if obs.Enabled {
		tp, err := observability.InitTracer(ctx, &observability.TracerConfig{
			ServiceName:    r.cfg.Name,
			ServiceVersion: r.cfg.Version,
			Environment:    r.cfg.Environment,
			Endpoint:       obs.Endpoint,
			Insecure:       obs.Insecure,
			SampleRate:     obs.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("tracer init: %w", err)
		}
		r.shutdowns = append(r.shutdowns, namedShutdown{"tracer", tp.Shutdown})

		mp, err := observability.InitMeter(ctx, &observability.MeterConfig{
			ServiceName:    r.cfg.Name,
			ServiceVersion: r.cfg.Version,
			Environment:    r.cfg.Environment,
			Endpoint:       obs.Endpoint,
			Insecure:       obs.Insecure,
			Interval:       obs.Interval,
		})
		if err != nil {
			return fmt.Errorf("meter init: %w", err)
		}
		r.shutdowns = append(r.shutdowns, namedShutdown{"meter", mp.Shutdown})
	}

	metrics, err := observability.NewStreamMetrics(observability.Meter(r.cfg.Name))
	if err != nil {
		return fmt.Errorf("stream metrics: %w", err)
	}
	r.metrics = metrics
	return nil
}

// Config returns the validated configuration.
func (r *Runtime) Config() *config.Config { return r.cfg }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *logger.Logger { return r.log }

// Metrics returns the stream instruments.
func (r *Runtime) Metrics() *observability.StreamMetrics { return r.metrics }

// Timer returns the timer used for Buffer windows.
func (r *Runtime) Timer() scheduler.Timer { return r.timer }

// Hub returns the running SSE hub.
func (r *Runtime) Hub() *sse.Hub { return r.hub }

// Summary returns the startup summary tracker.
func (r *Runtime) Summary() *Summary { return r.summary }

// SSEOptions returns the SSE connection options from the config.
func (r *Runtime) SSEOptions() []sse.Option {
	return []sse.Option{sse.WithConfig(r.cfg.SSE)}
}

// Run starts the runtime and blocks until a shutdown signal or ctx is
// done, then shuts down gracefully.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.startup(ctx); err != nil {
		return err
	}

	r.log.Info("waiting for shutdown signal")
	r.WaitForSignal(ctx)

	return r.stop()
}

// RunTask runs a finite task with the runtime's lifecycle. SIGINT and
// SIGTERM cancel the task's context; the runtime shuts down when the task
// returns.
func (r *Runtime) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := r.startup(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			r.log.Info("received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := r.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (r *Runtime) startup(ctx context.Context) error {
	if err := runHooks(ctx, r.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	r.DisplaySummary()
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (r *Runtime) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		r.log.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		r.log.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the OnStop hooks, stops the SSE hub and flushes the
// telemetry providers. Only the first call has an effect.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() {
		r.stopErr = r.shutdown(ctx)
	})
	return r.stopErr
}

func (r *Runtime) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.gracefulTimeout)
	defer cancel()
	return r.Shutdown(ctx)
}

func (r *Runtime) shutdown(ctx context.Context) error {
	r.log.Info("shutting down runtime", logger.Fields("timeout", r.gracefulTimeout.String()))

	var shutdownErr error
	if err := runHooks(ctx, r.onStop); err != nil {
		r.log.Error("onStop hook error", logger.ErrorFields("shutdown", err))
		shutdownErr = err
	}

	r.hub.Stop()

	if err := r.shutdownTelemetry(ctx); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if stderrors.Is(shutdownErr, context.DeadlineExceeded) {
		shutdownErr = apperrors.Timeout("shutdown").WithCause(shutdownErr)
	}

	r.log.Info("runtime shutdown complete")
	return shutdownErr
}

// shutdownTelemetry stops providers in reverse order of creation.
func (r *Runtime) shutdownTelemetry(ctx context.Context) error {
	var firstErr error
	for i := len(r.shutdowns) - 1; i >= 0; i-- {
		s := r.shutdowns[i]
		if err := s.fn(ctx); err != nil {
			logger.Warn("telemetry shutdown error", logger.Fields(
				"provider", s.name,
				logger.FieldError, err.Error(),
			))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	r.shutdowns = nil
	return firstErr
}
