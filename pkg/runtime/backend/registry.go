package backend

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/de-tools/sales-atlas/pkg/config"
	"github.com/de-tools/sales-atlas/pkg/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	duckdbledger "github.com/de-tools/sales-atlas/pkg/store/duckdb/ledger"
	"github.com/de-tools/sales-atlas/pkg/store/postgres"
	pgledger "github.com/de-tools/sales-atlas/pkg/store/postgres/ledger"
)

// DriverFactory opens a ledger store. The returned function releases it.
type DriverFactory func(ctx context.Context, cfg config.StoreConfig) (store.Ledger, func() error, error)

// Registry manages ledger store drivers
type Registry interface {
	// Register adds a new driver factory
	Register(driver string, factory DriverFactory) error
	// Open connects to the store configured in cfg
	Open(ctx context.Context, cfg config.StoreConfig) (store.Ledger, func() error, error)
	// ListDrivers returns the registered driver names
	ListDrivers() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]DriverFactory
}

// NewRegistry creates an empty driver registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]DriverFactory),
	}
}

// DefaultRegistry knows the duckdb and postgres drivers.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(config.DriverDuckDB, openDuckDB)
	_ = r.Register(config.DriverPostgres, openPostgres)
	return r
}

func (r *registry) Register(driver string, factory DriverFactory) error {
	if driver == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[driver]; exists {
		return fmt.Errorf("driver %q is already registered", driver)
	}

	r.factories[driver] = factory
	return nil
}

func (r *registry) Open(ctx context.Context, cfg config.StoreConfig) (store.Ledger, func() error, error) {
	r.mu.RLock()
	factory, exists := r.factories[cfg.Driver]
	r.mu.RUnlock()

	if !exists {
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	return factory(ctx, cfg)
}

func (r *registry) ListDrivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]string, 0, len(r.factories))
	for driver := range r.factories {
		drivers = append(drivers, driver)
	}
	slices.Sort(drivers)
	return drivers
}

func openDuckDB(_ context.Context, cfg config.StoreConfig) (store.Ledger, func() error, error) {
	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  cfg.DuckDBPath,
		Threads: runtime.NumCPU(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	s, err := duckdbledger.NewStore(db, duckdbledger.WithQueryTimeout(cfg.QueryTimeout))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create ledger store: %w", err)
	}
	return s, db.Close, nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (store.Ledger, func() error, error) {
	pool, err := postgres.NewPool(ctx, postgres.Settings{DSN: cfg.PostgresDSN})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s, err := pgledger.NewStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create ledger store: %w", err)
	}
	return s, func() error {
		pool.Close()
		return nil
	}, nil
}
