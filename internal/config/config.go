// Package config provides centralized configuration management for the importer.
// It loads configuration from an optional YAML file and environment variables
// with sensible defaults, and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultConfigFile is read when IMPORT_CONFIG is not set and the file exists.
const DefaultConfigFile = "importer.yaml"

// Config holds all application configuration.
// Environment variables take precedence over the config file.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres or sqlite (default: postgres)
	Driver string `yaml:"driver" env:"DB_DRIVER" default:"postgres"`

	// Host is the PostgreSQL server host (default: localhost)
	Host string `yaml:"host" env:"DB_HOST" envAlt:"PGHOST" default:"localhost"`

	// Port is the PostgreSQL server port (default: 5432)
	Port int `yaml:"port" env:"DB_PORT" envAlt:"PGPORT" default:"5432"`

	// Name is the database name (default: riichi-canada)
	Name string `yaml:"name" env:"DB_NAME" envAlt:"PGDATABASE" default:"riichi-canada"`

	// User is the database user, required for postgres
	User string `yaml:"user" env:"DB_USER" envAlt:"PGUSER"`

	// Password is the database password
	Password string `yaml:"password" env:"DB_PASSWORD" envAlt:"PGPASSWORD"`

	// SSLMode is the PostgreSQL sslmode parameter (default: disable)
	SSLMode string `yaml:"sslmode" env:"DB_SSLMODE" default:"disable"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `yaml:"max_conns" env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of idle connections kept open (default: 0)
	MinConns int `yaml:"min_conns" env:"DB_MIN_CONNS" default:"0"`

	// ConnectTimeout bounds establishing a connection (default: 10s)
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" default:"10s"`

	// SQLitePath is the database file used when Driver is sqlite (default: standings.db)
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" default:"standings.db"`
}

// ImportConfig holds import run settings.
type ImportConfig struct {
	// DataDir is the root directory holding players/ and events/ (default: ./data)
	DataDir string `yaml:"data_dir" env:"IMPORT_DATA_DIR" default:"./data"`

	// MetricsTextfile, when set, receives the run's metrics in Prometheus text format
	MetricsTextfile string `yaml:"metrics_textfile" env:"METRICS_TEXTFILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// ConnectionString builds a PostgreSQL connection URL from the settings.
func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Target returns a loggable description of the store, without credentials.
func (c *DatabaseConfig) Target() string {
	if c.Driver == DriverSQLite {
		return "sqlite:" + c.SQLitePath
	}
	return fmt.Sprintf("postgres://%s:%d/%s", c.Host, c.Port, c.Name)
}
