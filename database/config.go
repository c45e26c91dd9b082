package database

import (
	"fmt"
	"time"
)

// Config holds warehouse connection configuration.
type Config struct {
	// Driver names a registered dialector: "oracle", "postgres", "sqlite".
	Driver string `mapstructure:"driver" validate:"required"`

	// DSN is the driver-specific connection string.
	DSN string `mapstructure:"dsn" validate:"required"`

	// MaxOpenConns caps open connections. A run needs one.
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// ConnMaxLifetime is the maximum time a connection may be reused (e.g. "30m").
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`

	// LogLevel is the GORM log level: "silent", "error", "warn", "info".
	LogLevel string `mapstructure:"log_level"`

	// SlowQueryThreshold is the duration above which queries are logged as slow.
	// The feed query runs for as long as the transfer takes, so keep it generous.
	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = "oracle"
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 2
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "1h"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "10m"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if _, ok := lookupDriver(c.Driver); !ok {
		return fmt.Errorf("database.driver %q is not registered (have %v)", c.Driver, Drivers())
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database.conn_max_lifetime %q: %w", c.ConnMaxLifetime, err)
	}
	if _, err := time.ParseDuration(c.SlowQueryThreshold); err != nil {
		return fmt.Errorf("invalid database.slow_query_threshold %q: %w", c.SlowQueryThreshold, err)
	}
	return nil
}
