package database

import (
	"context"
	"fmt"

	"github.com/mitlibraries/carbon/component"
	"github.com/mitlibraries/carbon/logger"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db  *DB
	cfg Config
	log *logger.Logger
}

// NewComponent creates a warehouse component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "warehouse" }

// Start prepares the connection pool. It does not connect; the run's
// connection test does that.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("warehouse start: %w", err)
	}
	c.db = db
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Describe returns a summary for the startup log.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Warehouse",
		Type:    "database",
		Details: fmt.Sprintf("driver=%s pool=%d", c.cfg.Driver, c.cfg.MaxOpenConns),
	}
}
