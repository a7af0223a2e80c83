// Package logging provides structured logging using Go's slog package.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is below debug and carries per-query detail such as SQL text.
const LevelTrace = slog.Level(-8)

// Config holds logging configuration.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, text, pretty
	Service string // service name for default attrs
	Version string // service version for default attrs

	// File adds a rolling JSON log file next to the terminal output.
	File FileConfig
}

// FileConfig configures the rolling log file.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a new configured slog.Logger writing to stdout.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a new configured slog.Logger with a custom writer.
// Every handler redacts secrets; when a log file is configured the records
// are fanned out to both the writer and the file.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	replaceAttr := NewReplaceAttr()

	handler := terminalHandler(cfg.Format, w, level, replaceAttr)

	if cfg.File.Enabled && cfg.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}

		fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceAttr,
		})

		handler = NewMultiHandler(handler, fileHandler)
	}

	return slog.New(handler).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)
}

func terminalHandler(
	format string,
	w io.Writer,
	level slog.Level,
	replaceAttr func([]string, slog.Attr) slog.Attr,
) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts)

	case "pretty":
		charm := log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           slogToCharmLevel(level),
		})

		return &redactingHandler{next: charm, replace: replaceAttr}

	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// slogToCharmLevel maps slog levels onto the coarser charm levels.
func slogToCharmLevel(level slog.Level) log.Level {
	switch {
	case level < slog.LevelInfo:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

// redactingHandler applies a ReplaceAttr function in front of handlers
// that do not accept slog.HandlerOptions.
type redactingHandler struct {
	next    slog.Handler
	replace func([]string, slog.Attr) slog.Attr
	groups  []string
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

//nolint:gocritic // slog.Handler interface requires value
func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	replaced := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		replaced = append(replaced, h.replace(h.groups, a))
	}

	return &redactingHandler{next: h.next.WithAttrs(replaced), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(slices.Clone(h.groups), name),
	}
}
