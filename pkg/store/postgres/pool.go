package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS inventory_items (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		cost_price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (cost_price >= 0),
		selling_price DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (selling_price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (business_id, name)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('SALE', 'EXPENSE')),
		category TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
		date TIMESTAMPTZ NOT NULL,
		product_id UUID,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
		cogs DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS transactions_business_date ON transactions (business_id, date DESC);
`

type Settings struct {
	DSN      string
	MaxConns int32
}

// NewPool connects to PostgreSQL and makes sure the ledger tables exist.
func NewPool(ctx context.Context, settings Settings) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if settings.MaxConns > 0 {
		cfg.MaxConns = settings.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pool, nil
}

// Querier is the subset of pgx shared by the pool and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
