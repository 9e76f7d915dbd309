package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/google/uuid"
)

func MapStoreTransactionToDomain(rec store.TransactionRecord) domain.Transaction {
	txn := domain.Transaction{
		ID:          rec.ID,
		BusinessID:  rec.BusinessID,
		Type:        domain.TransactionType(rec.Type),
		Category:    rec.Category,
		Amount:      rec.Amount,
		Date:        rec.Date.UTC(),
		ProductName: rec.ProductName,
		Quantity:    rec.Quantity,
		COGS:        rec.COGS,
	}
	if rec.ProductID.Valid {
		id := rec.ProductID.UUID
		txn.ProductID = &id
	}
	return txn
}

func MapStoreTransactionsToDomain(recs []store.TransactionRecord) []domain.Transaction {
	txns := make([]domain.Transaction, 0, len(recs))
	for _, rec := range recs {
		txns = append(txns, MapStoreTransactionToDomain(rec))
	}
	return txns
}

func MapDomainTransactionToStore(txn domain.Transaction) store.TransactionRecord {
	rec := store.TransactionRecord{
		ID:          txn.ID,
		BusinessID:  txn.BusinessID,
		Type:        string(txn.Type),
		Category:    txn.Category,
		Amount:      txn.Amount,
		Date:        txn.Date.UTC(),
		ProductName: txn.ProductName,
		Quantity:    txn.Quantity,
		COGS:        txn.COGS,
	}
	if txn.ProductID != nil {
		rec.ProductID = uuid.NullUUID{UUID: *txn.ProductID, Valid: true}
	}
	return rec
}

func MapDomainFilterToStore(f domain.TransactionFilter) store.TransactionFilter {
	return store.TransactionFilter{
		BusinessID: f.BusinessID,
		Type:       string(f.Type),
		From:       f.From,
		To:         f.To,
		ProductID:  f.ProductID,
	}
}

func MapStoreInventoryToDomain(rec store.InventoryRecord) domain.InventoryItem {
	return domain.InventoryItem{
		ID:           rec.ID,
		BusinessID:   rec.BusinessID,
		Name:         rec.Name,
		Description:  rec.Description,
		CostPrice:    rec.CostPrice,
		SellingPrice: rec.SellingPrice,
		Stock:        rec.Stock,
	}
}

func MapStoreInventoryListToDomain(recs []store.InventoryRecord) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, MapStoreInventoryToDomain(rec))
	}
	return items
}

func MapDomainInventoryToStore(item domain.InventoryItem) store.InventoryRecord {
	return store.InventoryRecord{
		ID:           item.ID,
		BusinessID:   item.BusinessID,
		Name:         item.Name,
		Description:  item.Description,
		CostPrice:    item.CostPrice,
		SellingPrice: item.SellingPrice,
		Stock:        item.Stock,
	}
}

func MapTransactionDomainToApi(txn domain.Transaction) api.Transaction {
	out := api.Transaction{
		ID:          txn.ID.String(),
		BusinessID:  txn.BusinessID.String(),
		Type:        string(txn.Type),
		Category:    txn.Category,
		Amount:      txn.Amount,
		Date:        txn.Date,
		ProductName: txn.ProductName,
		Quantity:    txn.Quantity,
		COGS:        txn.COGS,
	}
	if txn.ProductID != nil {
		id := txn.ProductID.String()
		out.ProductID = &id
	}
	return out
}

func MapTransactionsDomainToApi(txns []domain.Transaction) []api.Transaction {
	out := make([]api.Transaction, 0, len(txns))
	for _, txn := range txns {
		out = append(out, MapTransactionDomainToApi(txn))
	}
	return out
}

func MapInventoryDomainToApi(item domain.InventoryItem) api.InventoryItem {
	return api.InventoryItem{
		ID:           item.ID.String(),
		BusinessID:   item.BusinessID.String(),
		Name:         item.Name,
		Description:  item.Description,
		CostPrice:    item.CostPrice,
		SellingPrice: item.SellingPrice,
		Stock:        item.Stock,
	}
}

func MapInventoryListDomainToApi(items []domain.InventoryItem) []api.InventoryItem {
	out := make([]api.InventoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, MapInventoryDomainToApi(item))
	}
	return out
}
