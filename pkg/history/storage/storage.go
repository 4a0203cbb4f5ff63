package storage

import (
	"fmt"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/history"
)

// Open creates the backend named by cfg.Driver.
func Open(cfg *config.HistoryConfig) (history.Storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryStorage(), nil
	case config.DriverSQLite, config.DriverSQLite3, "":
		driver := cfg.Driver
		if driver == "" {
			driver = config.DriverSQLite
		}
		return NewSQLiteStorage(&SQLiteConfig{
			Driver:      driver,
			Path:        cfg.Path,
			BusyTimeout: cfg.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported history driver %q", cfg.Driver)
	}
}
