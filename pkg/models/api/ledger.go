package api

import "time"

type Transaction struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	ProductID   *string   `json:"productId,omitempty"`
	ProductName string    `json:"productName,omitempty"`
	Quantity    int       `json:"quantity"`
	COGS        float64   `json:"cogs"`
}

type CreateTransactionRequest struct {
	BusinessID string     `json:"businessId"`
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	Amount     float64    `json:"amount"`
	Date       *time.Time `json:"date,omitempty"`
	ProductID  *string    `json:"productId,omitempty"`
	Quantity   *int       `json:"quantity,omitempty"`
}

type InventoryItem struct {
	ID           string  `json:"id"`
	BusinessID   string  `json:"businessId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Stock        int     `json:"stock"`
}

type AddInventoryRequest struct {
	BusinessID   string  `json:"businessId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	CostPrice    float64 `json:"costPrice"`
	SellingPrice float64 `json:"sellingPrice"`
	Stock        int     `json:"stock"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
