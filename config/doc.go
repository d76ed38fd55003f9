// Package config loads rxkit configuration.
//
// It uses Viper to read a config.yml and godotenv to load .env files, then
// binds every environment variable so LOGGING_LEVEL overrides logging.level
// and SCHEDULER_QUEUE_CAPACITY overrides scheduler.queue_capacity.
//
// # Usage
//
//	var cfg config.Config
//	if err := config.Load("ticker", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
