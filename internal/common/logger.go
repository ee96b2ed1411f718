package common

import (
	"io"
	"log/slog"
	"os"

	"github.com/loykin/snitchrun/internal/util"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel maps a level name onto LogLevel; unknown names mean info.
func ParseLogLevel(s string) LogLevel {
	switch util.TrimAndLower(s) {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger provides the structured logging interface for snitchrun
type Logger struct {
	*slog.Logger
	level LogLevel
}

// NewLogger creates a logger writing colorized output to w.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlogLevel()}
	return &Logger{Logger: slog.New(NewColorHandler(w, opts)), level: level}
}

// NewTextLogger creates a logger with plain text output.
func NewTextLogger(w io.Writer, level LogLevel) *Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlogLevel()}
	return &Logger{Logger: slog.New(slog.NewTextHandler(w, opts)), level: level}
}

// NewJSONLogger creates a logger with JSON output.
func NewJSONLogger(w io.Writer, level LogLevel) *Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlogLevel()}
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts)), level: level}
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component), level: l.level}
}

// WithMode returns a logger with invocation mode context
func (l *Logger) WithMode(mode string) *Logger {
	return &Logger{Logger: l.Logger.With("mode", mode), level: l.level}
}

// Setup builds the default logger from the resolved logging inputs and
// installs it globally. format is one of text, json, color.
func Setup(level, format string, mask bool) *Logger {
	lv := ParseLogLevel(level)
	var logger *Logger
	switch util.TrimAndLower(format) {
	case "text":
		logger = NewTextLogger(os.Stdout, lv)
	case "json":
		logger = NewJSONLogger(os.Stdout, lv)
	default:
		logger = NewLogger(os.Stdout, lv)
	}
	EnableMasking(mask)
	SetDefaultLogger(logger)
	return logger
}

// Global default logger instance
var defaultLogger = NewLogger(os.Stdout, LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}
