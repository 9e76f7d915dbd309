package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bucket aggregates the transactions of one period at a given granularity.
type Bucket struct {
	Key      string // 2024-03-01, 2024-03 or 2024
	Sales    float64
	Expenses float64
	COGS     float64
	Profit   float64
	Quantity int // units sold
}

type Summary struct {
	TotalSales    float64
	TotalExpenses float64
	TotalCOGS     float64
	Profit        float64
}

type PeriodReport struct {
	Period  string
	Since   time.Time
	Summary Summary
	Chart   []Bucket
}

type PeriodSales struct {
	PeriodKey  string
	TotalSales float64
}

type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
)

type ForecastPoint struct {
	Date            time.Time
	PredictedAmount float64
	Confidence      float64
}

// Forecast is the projection of daily sales. When Sufficient is false the
// series was too short to fit and Points is empty.
type Forecast struct {
	Sufficient bool
	Message    string
	Trend      Trend
	Slope      float64
	Intercept  float64
	RSquared   float64
	Points     []ForecastPoint
}

type RankedItem struct {
	ProductID     uuid.UUID
	Name          string
	TotalQuantity int
	TotalRevenue  float64
}

type StockStatus string

const (
	StockStable    StockStatus = "stable"
	StockCritical  StockStatus = "critical"
	StockAttention StockStatus = "attention"
	StockHealthy   StockStatus = "healthy"
)

type StockHealth struct {
	DailyRate float64
	DaysLeft  *int // nil when no depletion can be projected
	Status    StockStatus
}

type StockAlert struct {
	Item     InventoryItem
	LowStock bool
}

type ProductSales struct {
	PeriodKey     string
	TotalQuantity int
	TotalRevenue  float64
}

type ProductAnalytics struct {
	Product InventoryItem
	Sales   []ProductSales
	Sold    int // units sold over the stock window
	Health  StockHealth
}

type InventoryOverview struct {
	Lowest   []StockAlert
	LowStock []InventoryItem
}
