// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20 // 1048576 bytes

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultDatabaseDSN is a file-backed SQLite database for local runs.
	DefaultDatabaseDSN = "file:quotevault.db?_foreign_keys=1"

	// DefaultMaxOpenConns is the default database pool size.
	DefaultMaxOpenConns = 10

	// DefaultMaxIdleConns is the default number of idle pooled connections.
	DefaultMaxIdleConns = 5

	// DefaultProfile is used when APP_ENVIRONMENT is unset.
	DefaultProfile = "local"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	API       APIConfig       `koanf:"api"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains the shared admin credential and session cookie settings.
type AuthConfig struct {
	// AdminPassword enables admin login. Empty disables it.
	AdminPassword string `koanf:"admin_password"`

	// SessionSecret signs session tokens when AdminPassword is empty,
	// so that tokens minted offline can still be verified.
	SessionSecret string `koanf:"session_secret"`

	// CookieSecure forces the Secure attribute on the session cookie.
	CookieSecure bool `koanf:"cookie_secure"`

	SessionMaxAge time.Duration `koanf:"session_max_age" validate:"required,min=1m"`
}

// SigningSecret returns the key used to sign and verify session tokens.
func (a AuthConfig) SigningSecret() string {
	if a.AdminPassword != "" {
		return a.AdminPassword
	}

	return a.SessionSecret
}

// DatabaseConfig contains the quote store connection settings.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"               validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	Seed            bool          `koanf:"seed"`
	LogLevel        string        `koanf:"log_level"         validate:"required,oneof=silent error warn info"`
	SlowThreshold   time.Duration `koanf:"slow_threshold"`
}

// APIConfig contains settings for the /api route groups.
type APIConfig struct {
	// RequestTimeout bounds each API request. Zero disables the deadline.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"min=0"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotevault",
		"app.version":     "dev",
		"app.environment": DefaultProfile,

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotevault.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quotevault",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      false,

		"auth.admin_password":  "",
		"auth.session_secret":  "",
		"auth.cookie_secure":   false,
		"auth.session_max_age": "168h",

		"database.dsn":               DefaultDatabaseDSN,
		"database.max_open_conns":    DefaultMaxOpenConns,
		"database.max_idle_conns":    DefaultMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.auto_migrate":      true,
		"database.seed":              true,
		"database.log_level":         "warn",
		"database.slow_threshold":    "200ms",

		"api.request_timeout": "30s",
	}
}

// wellKnownEnv maps the unprefixed variables of a plain deployment onto
// their configuration keys. They take precedence over APP_ variables.
var wellKnownEnv = map[string]string{
	"ADMIN_PASSWORD": "auth.admin_password",
	"SESSION_SECRET": "auth.session_secret",
	"DATABASE_URL":   "database.dsn",
	"PORT":           "server.port",
}

// Profile returns the configuration profile named by APP_ENVIRONMENT,
// defaulting to "local".
func Profile() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return DefaultProfile
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Well-known unprefixed variables (ADMIN_PASSWORD, DATABASE_URL, PORT, ...)
//  2. Environment variables (APP_ prefix)
//  3. Profile config file (configs/{profile}.yaml)
//  4. Base config file (configs/base.yaml)
//  5. Default values
//
// A .env file in the working directory is read into the environment first;
// variables already set are left alone.
func Load(profile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix.
	// APP_SERVER_PORT maps to server.port; the first underscore after the
	// section separates it from a field name that may contain underscores.
	err = k.Load(env.Provider("APP_", ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 5. Load the well-known unprefixed variables
	err = k.Load(confmap.Provider(wellKnownValues(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading deployment env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey converts APP_DATABASE_MAX_OPEN_CONNS to database.max_open_conns
// and APP_LOG_FILE_ENABLED to log.file.enabled.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))

	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}

	// log.file is the only nested section.
	if section == "log" && strings.HasPrefix(rest, "file_") {
		return "log.file." + strings.TrimPrefix(rest, "file_")
	}

	return section + "." + rest
}

func wellKnownValues() map[string]any {
	values := make(map[string]any)

	for name, key := range wellKnownEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			values[key] = v
		}
	}

	return values
}

// loadDotEnv reads a dotenv file if present. Existing variables win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
