package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverTOML     = "toml"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects and locates an identity store.
type StoreConfig struct {
	Driver string
	Path   string // TOML or SQLite file
	DSN    string // PostgreSQL connection string
}

// Open creates the store named by cfg.Driver.
func Open(ctx context.Context, cfg StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case DriverMemory, "":
		store = NewMemoryStore()
	case DriverTOML:
		store = NewFileStore(cfg.Path)
	case DriverSQLite:
		store, err = OpenSQLiteStore(ctx, cfg.Path)
	case DriverPostgres:
		store, err = OpenPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown identity store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s identity store: %w", cfg.Driver, err)
	}

	logger.Info("identity store opened",
		zap.String("driver", cfg.Driver),
		zap.String("path", cfg.Path),
	)
	return store, nil
}
