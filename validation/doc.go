// Package validation validates rxkit configuration.
//
// Struct tag validation covers single-field rules; the programmatic
// Validator collects the rules that span fields.
//
// # Struct Tag Validation
//
//	type SchedulerConfig struct {
//	    QueueCapacity int `mapstructure:"queue_capacity" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(cfg.Timespan > 0 || cfg.Count > 0, "buffer", "needs a timespan or a count")
//	err := v.Err()
package validation
