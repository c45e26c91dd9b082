// Package logger provides structured logging for carbon using zerolog.
//
// It supports JSON and console output, a configurable level and
// component-scoped loggers carrying run-level fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "carbon").WithComponent("feed")
//	log.Info("feed complete", logger.Fields(logger.FieldRecords, n))
package logger
