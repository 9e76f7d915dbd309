package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

const DefaultTopItems = 3

// RankTopItems joins sales to inventory and returns the best sellers by
// units. Sales of products missing from inventory are dropped. Ties are
// broken by revenue descending, then name and product ID ascending.
func RankTopItems(sales []domain.Transaction, inventory []domain.InventoryItem, limit int) []domain.RankedItem {
	products := make(map[uuid.UUID]domain.InventoryItem, len(inventory))
	for _, item := range inventory {
		products[item.ID] = item
	}

	totals := make(map[uuid.UUID]*domain.RankedItem)
	for _, txn := range sales {
		if txn.Type != domain.TransactionSale || txn.ProductID == nil {
			continue
		}
		product, ok := products[*txn.ProductID]
		if !ok {
			continue
		}
		ranked, ok := totals[product.ID]
		if !ok {
			ranked = &domain.RankedItem{ProductID: product.ID, Name: product.Name}
			totals[product.ID] = ranked
		}
		ranked.TotalQuantity += txn.Units()
		ranked.TotalRevenue += txn.Amount
	}

	ranking := make([]domain.RankedItem, 0, len(totals))
	for _, ranked := range totals {
		ranking = append(ranking, *ranked)
	}

	slices.SortFunc(ranking, func(a, b domain.RankedItem) int {
		return cmp.Or(
			cmp.Compare(b.TotalQuantity, a.TotalQuantity),
			cmp.Compare(b.TotalRevenue, a.TotalRevenue),
			strings.Compare(a.Name, b.Name),
			strings.Compare(a.ProductID.String(), b.ProductID.String()),
		)
	})

	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}
