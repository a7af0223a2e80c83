// Package store implements the quote repository on a relational database
// through gorm. PostgreSQL is the production target; SQLite serves tests
// and local development through the same query code.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrUnsupportedDSN is returned when no driver matches the DSN.
var ErrUnsupportedDSN = errors.New("unsupported database dsn")

// Config holds connection and pool settings.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// LogLevel is one of silent, error, warn, info.
	LogLevel      string
	SlowThreshold time.Duration
}

// Open connects to the database named by cfg.DSN and applies pool settings.
func Open(cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  NewGormLogger(logger, cfg.LogLevel, cfg.SlowThreshold),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if isSQLite && maxOpen <= 0 {
		// SQLite has a single writer; an in-memory database also exists
		// only as long as one connection holds it.
		maxOpen = 1
	}

	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the quotes, tags and quote_tags tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&quoteRecord{}, &tagRecord{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func dialectorFor(dsn string) (gorm.Dialector, bool, error) {
	switch {
	case dsn == "":
		return nil, false, fmt.Errorf("%w: empty", ErrUnsupportedDSN)
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(strings.TrimPrefix(dsn, "sqlite://")), true, nil
	case strings.HasPrefix(dsn, "file:"),
		dsn == ":memory:",
		strings.HasSuffix(dsn, ".db"),
		strings.HasSuffix(dsn, ".sqlite"):
		return openSQLite(dsn), true, nil
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redactDSN(dsn))
	}
}

// redactDSN drops everything after the scheme so credentials never reach logs.
func redactDSN(dsn string) string {
	if scheme, _, ok := strings.Cut(dsn, "://"); ok {
		return scheme + "://..."
	}

	return "..."
}
