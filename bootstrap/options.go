package bootstrap

import (
	"time"

	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/scheduler"
)

// Option configures the Runtime during Setup.
type Option func(*runtimeOptions)

type runtimeOptions struct {
	logger          *logger.Logger
	timer           scheduler.Timer
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *runtimeOptions {
	o := &runtimeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the runtime.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *runtimeOptions) {
		o.logger = l
	}
}

// WithTimer sets the timer used for Buffer windows. The default is
// scheduler.AfterFunc.
func WithTimer(t scheduler.Timer) Option {
	return func(o *runtimeOptions) {
		o.timer = t
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *runtimeOptions) {
		o.gracefulTimeout = &d
	}
}
