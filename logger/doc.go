// Package logger provides structured logging for typeioc using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The container logs every
// binding mutation at debug level through a logger obtained here.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Debug("binding re-scoped", logger.Fields(logger.FieldType, "app.Clock"))
package logger
