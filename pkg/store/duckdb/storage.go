package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const InventoryTableSchema = `
	CREATE TABLE IF NOT EXISTS inventory_items (
		id VARCHAR NOT NULL PRIMARY KEY,
		business_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		description VARCHAR,
		cost_price DOUBLE NOT NULL DEFAULT 0 CHECK (cost_price >= 0),
		selling_price DOUBLE NOT NULL DEFAULT 0 CHECK (selling_price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (business_id, name)
	);
`

const TransactionTableSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id VARCHAR NOT NULL PRIMARY KEY,
		business_id VARCHAR NOT NULL,
		type VARCHAR NOT NULL CHECK (type IN ('SALE', 'EXPENSE')),
		category VARCHAR NOT NULL,
		amount DOUBLE NOT NULL CHECK (amount >= 0),
		date TIMESTAMP NOT NULL,
		product_id VARCHAR,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity > 0),
		cogs DOUBLE NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const TransactionDateIndex = `
	CREATE INDEX IF NOT EXISTS transactions_business_date ON transactions (business_id, date);
`

var bootQueries = []string{
	InventoryTableSchema,
	TransactionTableSchema,
	TransactionDateIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
