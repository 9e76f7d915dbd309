package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrStockConflict = errors.New("stock changed or insufficient")
)

type TransactionRecord struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Type        string
	Category    string
	Amount      float64
	Date        time.Time
	ProductID   uuid.NullUUID
	ProductName string // joined from inventory_items
	Quantity    int
	COGS        float64
	CreatedAt   time.Time
}

type InventoryRecord struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	Name         string
	Description  string
	CostPrice    float64
	SellingPrice float64
	Stock        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TransactionFilter struct {
	BusinessID uuid.UUID
	Type       string
	From       *time.Time
	To         *time.Time
	ProductID  *uuid.UUID
}
