package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	modelstore "github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidItem        = errors.New("invalid inventory item")
	ErrInsufficientStock  = errors.New("insufficient inventory")
	ErrProductNotFound    = errors.New("product not found in inventory")
)

type NewTransaction struct {
	BusinessID uuid.UUID
	Type       domain.TransactionType
	Category   string
	Amount     float64
	Date       *time.Time // now when nil
	ProductID  *uuid.UUID
	Quantity   int // 1 when zero
}

type NewInventoryItem struct {
	BusinessID   uuid.UUID
	Name         string
	Description  string
	CostPrice    float64
	SellingPrice float64
	Stock        int
}

type Service interface {
	RecordTransaction(ctx context.Context, in NewTransaction) (domain.Transaction, error)
	AddInventory(ctx context.Context, in NewInventoryItem) (domain.InventoryItem, error)
	ListTransactions(ctx context.Context, businessID uuid.UUID, from, to *time.Time) ([]domain.Transaction, error)
	ListInventory(ctx context.Context, businessID uuid.UUID) ([]domain.InventoryItem, error)
}

type DefaultService struct {
	ledger store.Ledger
	now    func() time.Time
}

func NewService(ledger store.Ledger) *DefaultService {
	return &DefaultService{ledger: ledger, now: time.Now}
}

func (in NewTransaction) validate() error {
	switch {
	case in.BusinessID == uuid.Nil:
		return fmt.Errorf("%w: business id is required", ErrInvalidTransaction)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, in.Type)
	case strings.TrimSpace(in.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	case in.Amount < 0:
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidTransaction)
	case in.Quantity < 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidTransaction)
	case in.ProductID != nil && in.Type != domain.TransactionSale:
		return fmt.Errorf("%w: only sales reference a product", ErrInvalidTransaction)
	}
	return nil
}

// RecordTransaction stores a sale or an expense. A sale of an inventory item
// takes its quantity out of stock and fixes COGS at the current cost price,
// both in the same database transaction as the insert.
func (s *DefaultService) RecordTransaction(ctx context.Context, in NewTransaction) (domain.Transaction, error) {
	if err := in.validate(); err != nil {
		return domain.Transaction{}, err
	}

	txn := domain.Transaction{
		ID:         uuid.New(),
		BusinessID: in.BusinessID,
		Type:       in.Type,
		Category:   strings.TrimSpace(in.Category),
		Amount:     in.Amount,
		Date:       s.now().UTC(),
		ProductID:  in.ProductID,
		Quantity:   max(in.Quantity, 1),
	}
	if in.Date != nil {
		txn.Date = in.Date.UTC()
	}

	if txn.ProductID == nil {
		if err := s.ledger.InsertTransaction(ctx, adapters.MapDomainTransactionToStore(txn)); err != nil {
			return domain.Transaction{}, fmt.Errorf("record transaction: %w", err)
		}
		return txn, nil
	}

	err := s.ledger.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.ledger.GetInventoryItem(ctx, *txn.ProductID)
		if errors.Is(err, modelstore.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if record.BusinessID != txn.BusinessID {
			return ErrProductNotFound
		}
		if record.Stock < txn.Quantity {
			return fmt.Errorf("%w: %d in stock, %d requested", ErrInsufficientStock, record.Stock, txn.Quantity)
		}

		if err := s.ledger.DecrementStock(ctx, record.ID, txn.Quantity); err != nil {
			if errors.Is(err, modelstore.ErrStockConflict) {
				return ErrInsufficientStock
			}
			return fmt.Errorf("take stock: %w", err)
		}

		txn.ProductName = record.Name
		txn.COGS = record.CostPrice * float64(txn.Quantity)
		if err := s.ledger.InsertTransaction(ctx, adapters.MapDomainTransactionToStore(txn)); err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("transaction_id", txn.ID.String()).
		Str("product_id", txn.ProductID.String()).
		Int("quantity", txn.Quantity).
		Float64("cogs", txn.COGS).
		Msg("sale recorded")
	return txn, nil
}

func (in NewInventoryItem) validate() error {
	switch {
	case in.BusinessID == uuid.Nil:
		return fmt.Errorf("%w: business id is required", ErrInvalidItem)
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	case in.CostPrice < 0 || in.SellingPrice < 0:
		return fmt.Errorf("%w: prices must not be negative", ErrInvalidItem)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidItem)
	}
	return nil
}

// AddInventory creates the item or, when the business already has one with
// the same name, adds to its stock and takes the new prices.
func (s *DefaultService) AddInventory(ctx context.Context, in NewInventoryItem) (domain.InventoryItem, error) {
	if err := in.validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	name := strings.TrimSpace(in.Name)

	var item domain.InventoryItem
	err := s.ledger.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.ledger.FindInventoryItemByName(ctx, in.BusinessID, name)
		switch {
		case errors.Is(err, modelstore.ErrNotFound):
			item = domain.InventoryItem{
				ID:           uuid.New(),
				BusinessID:   in.BusinessID,
				Name:         name,
				Description:  in.Description,
				CostPrice:    in.CostPrice,
				SellingPrice: in.SellingPrice,
				Stock:        in.Stock,
			}
			if err := s.ledger.InsertInventoryItem(ctx, adapters.MapDomainInventoryToStore(item)); err != nil {
				return fmt.Errorf("insert inventory item: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("find inventory item: %w", err)
		}

		item = adapters.MapStoreInventoryToDomain(*existing)
		item.Stock += in.Stock
		item.CostPrice = in.CostPrice
		item.SellingPrice = in.SellingPrice
		if in.Description != "" {
			item.Description = in.Description
		}
		if err := s.ledger.UpdateInventoryItem(ctx, adapters.MapDomainInventoryToStore(item)); err != nil {
			return fmt.Errorf("restock inventory item: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.InventoryItem{}, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("item_id", item.ID.String()).
		Str("name", item.Name).
		Int("stock", item.Stock).
		Msg("inventory updated")
	return item, nil
}

func (s *DefaultService) ListTransactions(
	ctx context.Context,
	businessID uuid.UUID,
	from, to *time.Time,
) ([]domain.Transaction, error) {
	records, err := s.ledger.ListTransactions(ctx, adapters.MapDomainFilterToStore(domain.TransactionFilter{
		BusinessID: businessID,
		From:       from,
		To:         to,
	}))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return adapters.MapStoreTransactionsToDomain(records), nil
}

func (s *DefaultService) ListInventory(ctx context.Context, businessID uuid.UUID) ([]domain.InventoryItem, error) {
	records, err := s.ledger.ListInventory(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return adapters.MapStoreInventoryListToDomain(records), nil
}
