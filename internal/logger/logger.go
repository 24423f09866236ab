package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared by every component so log queries stay uniform.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldJobID     = "job_id"
	FieldUserID    = "user_id"
	FieldActorID   = "actor_id"
	FieldCount     = "count"
	FieldReason    = "reason"
	FieldStatus    = "status"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldLatency   = "latency"
)

// New builds the process logger. Development mode gets a console encoder
// with debug level; everything else gets production JSON.
func New(environment string) (*zap.Logger, error) {
	var cfg zap.Config
	switch environment {
	case "development", "dev":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

// Named returns l scoped to a component, or a no-op logger when l is nil.
func Named(l *zap.Logger, component string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String(FieldComponent, component))
}
