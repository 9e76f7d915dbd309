package analytics

import (
	"cmp"
	"slices"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const (
	DefaultStockWindowDays   = 30
	DefaultLowStockThreshold = 10
	DefaultLowestStockLimit  = 10

	criticalDays  = 7
	attentionDays = 30
)

// ProjectStock estimates days to stockout from the units sold over the last
// windowDays, assuming the run rate stays constant.
func ProjectStock(stock, sold, windowDays int) domain.StockHealth {
	if windowDays <= 0 {
		windowDays = DefaultStockWindowDays
	}

	rate := float64(sold) / float64(windowDays)
	if rate <= 0 {
		return domain.StockHealth{DailyRate: 0, Status: domain.StockStable}
	}

	// floor(stock / (sold / window)) without float rounding
	daysLeft := max(stock, 0) * windowDays / sold

	status := domain.StockHealthy
	switch {
	case daysLeft < criticalDays:
		status = domain.StockCritical
	case daysLeft < attentionDays:
		status = domain.StockAttention
	}

	return domain.StockHealth{DailyRate: rate, DaysLeft: &daysLeft, Status: status}
}

// IsLowStock is a static threshold check independent of sales velocity.
func IsLowStock(item domain.InventoryItem, threshold int) bool {
	return item.Stock < threshold
}

// LowStock returns the items whose stock is strictly below threshold.
func LowStock(items []domain.InventoryItem, threshold int) []domain.InventoryItem {
	low := make([]domain.InventoryItem, 0)
	for _, item := range items {
		if IsLowStock(item, threshold) {
			low = append(low, item)
		}
	}
	return low
}

// LowestStock returns up to limit items ordered by stock ascending, each
// flagged against threshold.
func LowestStock(items []domain.InventoryItem, limit, threshold int) []domain.StockAlert {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.InventoryItem) int {
		return cmp.Or(cmp.Compare(a.Stock, b.Stock), cmp.Compare(a.Name, b.Name))
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	alerts := make([]domain.StockAlert, 0, len(sorted))
	for _, item := range sorted {
		alerts = append(alerts, domain.StockAlert{Item: item, LowStock: IsLowStock(item, threshold)})
	}
	return alerts
}

// UnitsSold sums the sale quantities of txns.
func UnitsSold(txns []domain.Transaction) int {
	total := 0
	for _, txn := range txns {
		if txn.Type == domain.TransactionSale {
			total += txn.Units()
		}
	}
	return total
}
