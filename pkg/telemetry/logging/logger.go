package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mercator-hq/trigon/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in logfmt-style text.
	FormatText LogFormat = "text"
	// FormatConsole outputs compact human-readable lines without timestamps.
	FormatConsole LogFormat = "console"
)

// Logger provides structured logging on top of slog.
type Logger struct {
	slog   *slog.Logger
	level  slog.Level
	format LogFormat
}

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// Writer is the output writer (defaults to os.Stderr)
	Writer io.Writer
}

// FromConfig builds a logger Config from the application configuration.
func FromConfig(cfg config.LoggingConfig, w io.Writer) Config {
	return Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Writer:    w,
	}
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(writer, opts)
	case FormatConsole:
		opts.ReplaceAttr = dropTime
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		level:  level,
		format: format,
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{
		slog:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
		level:  slog.LevelError + 1,
		format: FormatText,
	}
}

// Slog returns the underlying *slog.Logger for components that accept one.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Level returns the minimum enabled level.
func (l *Logger) Level() slog.Level {
	return l.level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

// DebugContext logs a debug message with context fields.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, append(extractContextFields(ctx), args...)...)
}

// InfoContext logs an info message with context fields.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, append(extractContextFields(ctx), args...)...)
}

// WarnContext logs a warning message with context fields.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, append(extractContextFields(ctx), args...)...)
}

// ErrorContext logs an error message with context fields.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, append(extractContextFields(ctx), args...)...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, msg, args...)
}

// With creates a new logger with additional fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		level:  l.level,
		format: l.format,
	}
}

// WithComponent tags every record with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// WithContext creates a new logger carrying the context's request and run IDs.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	args := extractContextFields(ctx)
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch strings.ToLower(formatStr) {
	case "json", "":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
