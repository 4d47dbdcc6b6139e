// Package logger is the logging layer of the audit pipeline, a thin
// wrapper over log/slog. The auditor logs input degradations (schema DDL
// without tables, unparsable queries) and nothing else; detectors and
// estimators stay silent. Callers embed their own logging by providing
// an Interface implementation to Auditor.WithLogger.
package logger

import (
	"log/slog"
	"os"
)

// Interface is the logging surface the audit pipeline writes to.
type Interface interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Logger writes structured text records to stderr via slog.
type Logger struct {
	logger *slog.Logger
}

// New creates a Logger at Info level.
func New() *Logger {
	return NewWithLevel(slog.LevelInfo)
}

// NewWithLevel creates a Logger at the given level. Debug level surfaces
// per-query parse failures during an audit.
func NewWithLevel(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		logger: slog.New(handler),
	}
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// GetSlogLogger returns the underlying slog logger, for callers that
// want to attach it elsewhere.
func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// Error builds the structured attribute used for error values.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
