// Package store holds the contracts shared by the ledger backends.
package store

import (
	"context"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/google/uuid"
)

// Source is the read side used by reporting. Transactions come back ordered
// by date descending and GetInventoryItem answers store.ErrNotFound for
// unknown IDs.
type Source interface {
	ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]store.TransactionRecord, error)
	ListInventory(ctx context.Context, businessID uuid.UUID) ([]store.InventoryRecord, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (*store.InventoryRecord, error)
}

// Ledger is a Source that also accepts writes. Calls made with the context
// handed to WithinTx's callback run in one database transaction.
type Ledger interface {
	Source
	FindInventoryItemByName(ctx context.Context, businessID uuid.UUID, name string) (*store.InventoryRecord, error)
	InsertTransaction(ctx context.Context, record store.TransactionRecord) error
	InsertInventoryItem(ctx context.Context, record store.InventoryRecord) error
	UpdateInventoryItem(ctx context.Context, record store.InventoryRecord) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
