// Package config loads fitscore service configuration from TOML files
// and environment variables. A base config.toml may be overlaid by an
// environment-specific file (config.<env>.toml); every section then
// finalizes through defaults, environment overrides, and validation.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/skillforge/fitscore/pkg/database"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFitscoreEnv             = "FITSCORE_ENV"
	EnvFitscoreShutdownTimeout = "FITSCORE_SHUTDOWN_TIMEOUT"
	EnvFitscoreVersion         = "FITSCORE_VERSION"
	EnvFitscoreLogLevel        = "FITSCORE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	DSN:             "FITSCORE_DB_DSN",
	Host:            "FITSCORE_DB_HOST",
	Port:            "FITSCORE_DB_PORT",
	Name:            "FITSCORE_DB_NAME",
	User:            "FITSCORE_DB_USER",
	Password:        "FITSCORE_DB_PASSWORD",
	SSLMode:         "FITSCORE_DB_SSL_MODE",
	MaxOpenConns:    "FITSCORE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "FITSCORE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "FITSCORE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "FITSCORE_DB_CONN_TIMEOUT",
}

// Config is the root configuration for the fitscore service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	API             APIConfig       `toml:"api"`
	Scoring         ScoringConfig   `toml:"scoring"`
	Metrics         MetricsConfig   `toml:"metrics"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
}

// Env returns the FITSCORE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFitscoreEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// LogLevelValue returns LogLevel as a slog.Level, defaulting to Info.
func (c *Config) LogLevelValue() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Overrides carries command-line values applied after file and
// environment configuration.
type Overrides struct {
	Addr     string
	Dsn      string
	LogLevel string
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom("", Overrides{})
}

// LoadFrom reads the named config file, or the default base config when
// path is empty, then applies any environment overlay and the given
// overrides before finalizing. A named file must exist; the default is
// optional.
func LoadFrom(path string, o Overrides) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(BaseConfigFile); err == nil {
			path = BaseConfigFile
		}
	}

	if path != "" {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		loaded, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(loaded)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	if err := cfg.applyOverrides(o); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyOverrides writes flag values over the finalized config. Flags
// outrank both file and environment values.
func (c *Config) applyOverrides(o Overrides) error {
	if o.Addr != "" {
		host, port, err := net.SplitHostPort(o.Addr)
		if err != nil {
			return fmt.Errorf("invalid addr override: %w", err)
		}
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid addr override port: %s", port)
		}
		if host != "" {
			c.Server.Host = host
		}
		c.Server.Port = n
	}

	if o.Dsn != "" {
		c.Database.DSN = o.Dsn
	}

	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}

	return nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.API.Merge(&overlay.API)
	c.Scoring.Merge(&overlay.Scoring)
	c.Metrics.Merge(&overlay.Metrics)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Scoring.Finalize(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Metrics.Finalize(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFitscoreShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFitscoreVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvFitscoreLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFitscoreEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
