// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/core/ports"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using log/slog with the project's
// three-level model: silent, warn, info.
type Logger struct {
	mu     sync.RWMutex
	level  domain.LogLevel
	logger *slog.Logger
}

// New creates a Logger writing to stderr at the given level.
func New(level domain.LogLevel) *Logger {
	l := &Logger{}
	l.configure(os.Stderr, level)
	return l
}

// SetLevel reconfigures the logger's verbosity. Thread-safe.
func (l *Logger) SetLevel(level domain.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.configure(os.Stderr, level)
}

// SetOutput redirects the logger. Used by tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.configure(w, l.level)
}

func (l *Logger) configure(w io.Writer, level domain.LogLevel) {
	slogLevel := slog.LevelInfo
	switch level {
	case domain.LogSilent:
		w = io.Discard
	case domain.LogWarn:
		slogLevel = slog.LevelWarn
	case domain.LogInfo, "":
		level = domain.LogInfo
	}
	l.level = level
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel}))
}

// Info logs an informational message with optional key/value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message with optional key/value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, args...)
}

// Error logs an error message with optional key/value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(msg, args...)
}

// Level returns the configured verbosity.
func (l *Logger) Level() domain.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}
