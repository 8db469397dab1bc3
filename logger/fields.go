package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across wtu.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRunID  = "run_id"
	FieldRecord = "record"
	FieldTable  = "table"

	// Components
	FieldComponent = "component"
	FieldTask      = "task"
	FieldBackend   = "backend"

	// Table coordinates
	FieldCol     = "col"
	FieldRow     = "row"
	FieldLocator = "locator"

	// Knowledge base
	FieldEntity   = "entity"
	FieldProperty = "property"
	FieldMention  = "mention"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldSkipped = "skipped"
	FieldWorkers = "workers"

	// Status
	FieldStatus = "status"

	// Files and paths
	FieldFile = "file"
	FieldLine = "line"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	pool := pulse.NewPool(cfg, logger.ComponentLogger("pulse"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	tableLogger := logger.ChildLogger(base, logger.FieldRecord, ordinal)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
