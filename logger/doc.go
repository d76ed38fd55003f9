// Package logger provides structured logging for rxkit using zerolog.
//
// Library packages never build their own loggers; they ask the registry for
// a component-scoped logger at the point of use, so whatever the host
// installs with Init or SetGlobalLogger is honored:
//
//	log := logger.Get("rx")
//	log.Warn("single completed without a value", logger.Fields("stream", name))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
package logger
