// Package testutil provides an in-memory warehouse for tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mitlibraries/carbon/component"
	"github.com/mitlibraries/carbon/database"
	"github.com/mitlibraries/carbon/testutil"
)

// Warehouse is an in-memory SQLite warehouse with the feed tables created.
// It implements both component.Component and testutil.TestComponent.
type Warehouse struct {
	gdb     *gorm.DB
	db      *database.DB
	started bool
	mu      sync.RWMutex
}

var (
	_ component.Component    = (*Warehouse)(nil)
	_ testutil.TestComponent = (*Warehouse)(nil)
)

// NewWarehouse creates a test warehouse. Call Start (or testutil.T(t).Setup)
// before use.
func NewWarehouse() *Warehouse {
	return &Warehouse{}
}

// Name returns the component name.
func (w *Warehouse) Name() string { return "warehouse-test" }

// Start opens the in-memory database and creates the warehouse tables.
func (w *Warehouse) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("component already started")
	}

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open test warehouse: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.WithContext(ctx).AutoMigrate(database.WarehouseModels()...); err != nil {
		sqlDB.Close()
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	w.gdb = gdb
	w.db = database.Wrap(gdb, "sqlite", nil)
	w.started = true
	return nil
}

// Stop closes the database.
func (w *Warehouse) Stop(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return nil
	}
	w.started = false
	return w.db.Close()
}

// Reset deletes every row while preserving the schema.
func (w *Warehouse) Reset(ctx context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.started {
		return fmt.Errorf("component not started")
	}
	for _, m := range database.WarehouseModels() {
		if err := w.gdb.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", m, err)
		}
	}
	return nil
}

// DB returns the warehouse wrapped as the feed source expects it, or nil
// if not started.
func (w *Warehouse) DB() *database.DB {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.db
}

// Gorm returns the raw GORM handle for seeding.
func (w *Warehouse) Gorm() *gorm.DB {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gdb
}
