package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionSale    TransactionType = "SALE"
	TransactionExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionExpense
}

type Transaction struct {
	ID          uuid.UUID
	BusinessID  uuid.UUID
	Type        TransactionType
	Category    string     // "Groceries", "Rent"
	Amount      float64    // 120.5
	Date        time.Time  // UTC
	ProductID   *uuid.UUID // set for sales of an inventory item
	ProductName string     // resolved from inventory, empty when unknown
	Quantity    int        // 1 by default
	COGS        float64    // costPrice * Quantity, fixed at creation
}

// Units returns the sold quantity, treating a missing quantity as a single unit.
func (t Transaction) Units() int {
	if t.Quantity <= 0 {
		return 1
	}
	return t.Quantity
}

type TransactionFilter struct {
	BusinessID uuid.UUID
	Type       TransactionType // empty means any type
	From       *time.Time
	To         *time.Time
	ProductID  *uuid.UUID
}
