package store

import (
	"context"
	"fmt"

	"fiado-ledger/internal/config"
)

// OpenBackend builds the backend selected by the store configuration.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileBackend(cfg.Path)
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path, cfg.LogMode)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// OpenConfigured opens the configured backend and loads the store on top of it.
func OpenConfigured(ctx context.Context, cfg config.StoreConfig, version string) (*Store, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	s, err := Open(ctx, backend, version)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}
