package logger

import "github.com/kbukum/rxkit/validation"

// Config contains logging configuration.
type Config struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.ServiceName == "" {
		c.ServiceName = "default"
	}
	c.Timestamp = true
}

// Validate validates logging configuration. Failures are INVALID_INPUT
// errors listing each bad field.
func (c *Config) Validate() error {
	return validation.New().
		OneOf("logging.level", c.Level, []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}).
		OneOf("logging.format", c.Format, []string{"json", FormatConsole, FormatPretty}).
		OneOf("logging.output", c.Output, []string{"stdout", "stderr"}).
		Err()
}
