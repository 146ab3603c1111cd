package telemetry

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with service context.
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a structured logger for a component.
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{Logger: logger}
}

// NewConsoleLogger creates a human-readable logger for CLI use.
func NewConsoleLogger(service string, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{Logger: logger}
}

// WithContext returns a logger carrying the context.
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}
