package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes gorm's query log into slog. Records go to the logger
// carried in the query context when there is one, so they pick up request ids.
type GormLogger struct {
	fallback      *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a gorm logger. level is one of silent, error, warn, info.
func NewGormLogger(logger *slog.Logger, level string, slowThreshold time.Duration) *GormLogger {
	if logger == nil {
		logger = slog.Default()
	}

	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}

	return &GormLogger{
		fallback:      logger,
		level:         parseGormLevel(level),
		slowThreshold: slowThreshold,
	}
}

// LogMode implements gormlogger.Interface.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info implements gormlogger.Interface.
func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger(ctx).InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface.
func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger(ctx).WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface.
func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger(ctx).ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace implements gormlogger.Interface. Failed statements log at error,
// slow ones at warn and the rest at trace.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	logger := l.logger(ctx)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		logger.ErrorContext(ctx, "database query failed",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.WarnContext(ctx, "slow database query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Duration("threshold", l.slowThreshold),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Log(ctx, logging.LevelTrace, "database query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func (l *GormLogger) logger(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, l.fallback)
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
