package domain

import "github.com/google/uuid"

type InventoryItem struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	Name         string
	Description  string
	CostPrice    float64
	SellingPrice float64
	Stock        int
}
