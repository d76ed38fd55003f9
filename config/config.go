package config

import (
	"time"

	"github.com/kbukum/rxkit/validation"
)

// Defaults used by ApplyDefaults.
const (
	DefaultQueueCapacity     = 16
	DefaultBufferCount       = 1
	DefaultSSEKeepAlive      = 30 * time.Second
	DefaultSSEBufferSize     = 256
	DefaultOTLPEndpoint      = "localhost:4318"
	DefaultMetricsInterval   = 15 * time.Second
	DefaultTracingSampleRate = 1.0
)

// Config is the complete rxkit configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Scheduler     SchedulerConfig     `yaml:"scheduler" mapstructure:"scheduler"`
	Buffer        BufferConfig        `yaml:"buffer" mapstructure:"buffer"`
	SSE           SSEConfig           `yaml:"sse" mapstructure:"sse"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// SchedulerConfig configures the trampoline scheduler.
type SchedulerConfig struct {
	// QueueCapacity is the initial capacity of the trampoline queue. The
	// queue never shrinks below it.
	QueueCapacity int `yaml:"queue_capacity" mapstructure:"queue_capacity"`
}

// BufferConfig carries the default window for Buffer operators built by
// the application. A zero Timespan disables the time trigger and a zero
// Count disables the count trigger.
type BufferConfig struct {
	Timespan time.Duration `yaml:"timespan" mapstructure:"timespan" validate:"gte=0"`
	Count    int           `yaml:"count" mapstructure:"count" validate:"gte=0"`
}

// SSEConfig configures the Server-Sent Events bridge.
type SSEConfig struct {
	KeepAlive  time.Duration `yaml:"keep_alive" mapstructure:"keep_alive" validate:"gte=0"`
	BufferSize int           `yaml:"buffer_size" mapstructure:"buffer_size"`
}

// ObservabilityConfig configures OpenTelemetry export.
type ObservabilityConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	Interval   time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.Scheduler.QueueCapacity == 0 {
		c.Scheduler.QueueCapacity = DefaultQueueCapacity
	}
	if c.Buffer.Timespan == 0 && c.Buffer.Count == 0 {
		c.Buffer.Count = DefaultBufferCount
	}
	if c.SSE.KeepAlive == 0 {
		c.SSE.KeepAlive = DefaultSSEKeepAlive
	}
	if c.SSE.BufferSize == 0 {
		c.SSE.BufferSize = DefaultSSEBufferSize
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = DefaultOTLPEndpoint
	}
	if c.Observability.Interval == 0 {
		c.Observability.Interval = DefaultMetricsInterval
	}
	if c.Observability.Enabled && c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = DefaultTracingSampleRate
	}
}

// Validate checks struct tags first, then the rules spanning fields.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	v.Min("scheduler.queue_capacity", c.Scheduler.QueueCapacity, 1).
		Min("sse.buffer_size", c.SSE.BufferSize, 1).
		Custom(c.Buffer.Timespan > 0 || c.Buffer.Count > 0, "buffer", "needs a timespan or a count")
	if c.Observability.Enabled {
		v.Required("observability.endpoint", c.Observability.Endpoint).
			Range("observability.sample_rate", c.Observability.SampleRate, 0, 1)
	}
	return v.Err()
}
