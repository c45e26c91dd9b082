package database

import (
	"sort"
	"sync"

	oracle "github.com/godoes/gorm-oracle"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Driver opens a dialector for a DSN and knows how to ask the server for
// its version string.
type Driver struct {
	Open         func(dsn string) gorm.Dialector
	VersionQuery string
}

var (
	driversMu sync.RWMutex
	drivers   = map[string]Driver{
		"oracle":   {Open: oracle.Open, VersionQuery: "SELECT banner FROM v$version WHERE ROWNUM = 1"},
		"postgres": {Open: postgres.Open, VersionQuery: "SELECT version()"},
		"sqlite":   {Open: sqlite.Open, VersionQuery: "SELECT sqlite_version()"},
	}
)

// RegisterDriver makes a warehouse driver available under name, replacing
// any existing registration.
func RegisterDriver(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = d
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupDriver(name string) (Driver, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	return d, ok
}
