package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mitlibraries/carbon/logger"
)

// DB wraps a GORM handle on the warehouse.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	driver Driver
	closed bool
	mu     sync.Mutex
}

// Open prepares a connection pool for cfg. Drivers that connect lazily
// report an unreachable warehouse from PingContext instead of here.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()

	driver, ok := lookupDriver(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", cfg.Driver)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("database")

	slowThreshold, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gdb, err := gorm.Open(driver.Open(cfg.DSN), &gorm.Config{
		Logger:                 newGormLogger(log, slowThreshold, parseLogLevel(cfg.LogLevel)),
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, FromDatabase(err, "open")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, FromDatabase(err, "open")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if lifetime, parseErr := time.ParseDuration(cfg.ConnMaxLifetime); parseErr == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	return &DB{GormDB: gdb.WithContext(ctx), log: log, driver: driver}, nil
}

// Wrap adapts an already open GORM handle, such as a test warehouse.
// driverName selects the version query used by ServerVersion.
func Wrap(gdb *gorm.DB, driverName string, log *logger.Logger) *DB {
	if log == nil {
		log = logger.Nop()
	}
	driver, _ := lookupDriver(driverName)
	return &DB{GormDB: gdb, log: log.WithComponent("database"), driver: driver}
}

// Close closes the underlying connection pool. Safe to call multiple times.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	d.closed = true
	return sqlDB.Close()
}

// PingContext opens (or reuses) a connection and verifies it is alive.
func (d *DB) PingContext(ctx context.Context) error {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return FromDatabase(err, "ping")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return FromDatabase(err, "ping")
	}
	return nil
}

// ServerVersion asks the warehouse for its version string. It returns ""
// when the driver has no version query.
func (d *DB) ServerVersion(ctx context.Context) (string, error) {
	if d.driver.VersionQuery == "" {
		return "", nil
	}
	var version string
	if err := d.GormDB.WithContext(ctx).Raw(d.driver.VersionQuery).Scan(&version).Error; err != nil {
		return "", FromDatabase(err, "version")
	}
	return version, nil
}

// WithContext returns a GORM session scoped to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}
