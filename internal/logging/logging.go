// Package logging is sid's structured logger: a process-wide slog logger
// writing to stderr, with the build run ID attached from the context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type contextKey string

const runIDKey contextKey = "run_id"

// Level is a slog level.
type Level = slog.Level

// Levels accepted by ParseLevel.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the record encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

var (
	logger *slog.Logger

	// Results go to stdout; records go here.
	output io.Writer = os.Stderr
)

func init() {
	InitLogger(LevelInfo, FormatText)
}

// ParseLevel converts a level name ("debug", "info", "warn", "error").
// The empty string means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat converts a format name ("json", "text"). The empty string
// means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// SetOutput changes where records go. Call InitLogger afterwards.
func SetOutput(w io.Writer) {
	output = w
}

// InitLogger replaces the process logger. Timestamps are RFC3339.
func InitLogger(level Level, format Format) {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var h slog.Handler = slog.NewTextHandler(output, opts)
	if format == FormatJSON {
		h = slog.NewJSONHandler(output, opts)
	}
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	return logger
}

// WithRunID returns ctx carrying runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID returns the run ID in ctx, or "".
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// LoggerFromContext returns the process logger with ctx's run ID attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if id := GetRunID(ctx); id != "" {
		return logger.With("run_id", id)
	}
	return logger
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).ErrorContext(ctx, msg, args...)
}

// Stage logs a finished build stage.
func Stage(ctx context.Context, stage string, d time.Duration, args ...any) {
	args = append([]any{"stage", stage, "duration_ms", d.Milliseconds()}, args...)
	LoggerFromContext(ctx).Info("build_stage", args...)
}

// StageError logs a failed build stage.
func StageError(ctx context.Context, stage string, err error, args ...any) {
	args = append([]any{"stage", stage, "error", err.Error()}, args...)
	LoggerFromContext(ctx).Error("build_stage_failed", args...)
}

// ToolRun logs an external tool invocation at debug level.
func ToolRun(ctx context.Context, tool string, argv []string, args ...any) {
	args = append([]any{"tool", tool, "args", strings.Join(argv, " ")}, args...)
	LoggerFromContext(ctx).Debug("tool_run", args...)
}
