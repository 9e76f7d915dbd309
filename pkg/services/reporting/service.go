package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/analytics"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	modelstore "github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrProductNotFound = errors.New("product not found")

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type Service interface {
	Forecast(ctx context.Context, businessID uuid.UUID) (domain.Forecast, error)
	NetSales(ctx context.Context, businessID uuid.UUID, rangeName string) ([]domain.PeriodSales, error)
	TopItems(ctx context.Context, businessID uuid.UUID) ([]domain.RankedItem, error)
	ProductAnalytics(ctx context.Context, businessID, productID uuid.UUID) (domain.ProductAnalytics, error)
	InventoryOverview(ctx context.Context, businessID uuid.UUID) (domain.InventoryOverview, error)
	PeriodSummary(ctx context.Context, businessID uuid.UUID, period string) (domain.PeriodReport, error)
}

type Options struct {
	ForecastWindowDays  int
	ForecastHorizonDays int
	MinForecastPoints   int
	StockWindowDays     int
	LowStockThreshold   int
	TopItemsLimit       int
	LowestStockLimit    int
	Now                 func() time.Time
}

func DefaultOptions() Options {
	return Options{
		ForecastWindowDays:  30,
		ForecastHorizonDays: 7,
		MinForecastPoints:   5,
		StockWindowDays:     analytics.DefaultStockWindowDays,
		LowStockThreshold:   analytics.DefaultLowStockThreshold,
		TopItemsLimit:       analytics.DefaultTopItems,
		LowestStockLimit:    analytics.DefaultLowestStockLimit,
		Now:                 time.Now,
	}
}

// withDefaults fills every unset option from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ForecastWindowDays <= 0 {
		o.ForecastWindowDays = def.ForecastWindowDays
	}
	if o.ForecastHorizonDays <= 0 {
		o.ForecastHorizonDays = def.ForecastHorizonDays
	}
	if o.MinForecastPoints <= 0 {
		o.MinForecastPoints = def.MinForecastPoints
	}
	if o.StockWindowDays <= 0 {
		o.StockWindowDays = def.StockWindowDays
	}
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = def.LowStockThreshold
	}
	if o.TopItemsLimit <= 0 {
		o.TopItemsLimit = def.TopItemsLimit
	}
	if o.LowestStockLimit <= 0 {
		o.LowestStockLimit = def.LowestStockLimit
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}

type DefaultService struct {
	source store.Source
	opts   Options
}

func NewService(source store.Source, opts Options) *DefaultService {
	return &DefaultService{
		source: source,
		opts:   opts.withDefaults(),
	}
}

func (s *DefaultService) now() time.Time {
	return s.opts.Now().UTC()
}

func (s *DefaultService) transactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	records, err := s.source.ListTransactions(ctx, adapters.MapDomainFilterToStore(filter))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return adapters.MapStoreTransactionsToDomain(records), nil
}

func (s *DefaultService) inventory(ctx context.Context, businessID uuid.UUID) ([]domain.InventoryItem, error) {
	records, err := s.source.ListInventory(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return adapters.MapStoreInventoryListToDomain(records), nil
}

func (s *DefaultService) Forecast(ctx context.Context, businessID uuid.UUID) (domain.Forecast, error) {
	now := s.now()
	since := now.AddDate(0, 0, -s.opts.ForecastWindowDays)

	sales, err := s.transactions(ctx, domain.TransactionFilter{
		BusinessID: businessID,
		Type:       domain.TransactionSale,
		From:       &since,
	})
	if err != nil {
		return domain.Forecast{}, err
	}

	buckets := analytics.Bucketize(sales, analytics.Day)
	series := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, b.Sales)
	}

	forecast := analytics.Forecast(series, now, analytics.ForecastOptions{
		MinPoints: s.opts.MinForecastPoints,
		Horizon:   s.opts.ForecastHorizonDays,
	})

	zerolog.Ctx(ctx).Debug().
		Str("business_id", businessID.String()).
		Int("days", len(series)).
		Bool("sufficient", forecast.Sufficient).
		Str("trend", string(forecast.Trend)).
		Msg("sales forecast computed")
	return forecast, nil
}

func (s *DefaultService) NetSales(
	ctx context.Context,
	businessID uuid.UUID,
	rangeName string,
) ([]domain.PeriodSales, error) {
	window := analytics.ResolveRange(rangeName, s.now())

	sales, err := s.transactions(ctx, domain.TransactionFilter{
		BusinessID: businessID,
		Type:       domain.TransactionSale,
		From:       &window.Since,
	})
	if err != nil {
		return nil, err
	}

	return analytics.SalesSeries(analytics.Bucketize(sales, window.Granularity)), nil
}

func (s *DefaultService) TopItems(ctx context.Context, businessID uuid.UUID) ([]domain.RankedItem, error) {
	sales, err := s.transactions(ctx, domain.TransactionFilter{
		BusinessID: businessID,
		Type:       domain.TransactionSale,
	})
	if err != nil {
		return nil, err
	}

	items, err := s.inventory(ctx, businessID)
	if err != nil {
		return nil, err
	}

	return analytics.RankTopItems(sales, items, s.opts.TopItemsLimit), nil
}

func (s *DefaultService) ProductAnalytics(
	ctx context.Context,
	businessID, productID uuid.UUID,
) (domain.ProductAnalytics, error) {
	record, err := s.source.GetInventoryItem(ctx, productID)
	if errors.Is(err, modelstore.ErrNotFound) {
		return domain.ProductAnalytics{}, ErrProductNotFound
	}
	if err != nil {
		return domain.ProductAnalytics{}, fmt.Errorf("get product %s: %w", productID, err)
	}
	if record.BusinessID != businessID {
		return domain.ProductAnalytics{}, ErrProductNotFound
	}
	product := adapters.MapStoreInventoryToDomain(*record)

	since := s.now().AddDate(0, 0, -s.opts.StockWindowDays)
	sales, err := s.transactions(ctx, domain.TransactionFilter{
		BusinessID: businessID,
		Type:       domain.TransactionSale,
		From:       &since,
		ProductID:  &productID,
	})
	if err != nil {
		return domain.ProductAnalytics{}, err
	}

	sold := analytics.UnitsSold(sales)
	return domain.ProductAnalytics{
		Product: product,
		Sales:   analytics.ProductSeries(analytics.Bucketize(sales, analytics.Day)),
		Sold:    sold,
		Health:  analytics.ProjectStock(product.Stock, sold, s.opts.StockWindowDays),
	}, nil
}

func (s *DefaultService) InventoryOverview(
	ctx context.Context,
	businessID uuid.UUID,
) (domain.InventoryOverview, error) {
	items, err := s.inventory(ctx, businessID)
	if err != nil {
		return domain.InventoryOverview{}, err
	}

	return domain.InventoryOverview{
		Lowest:   analytics.LowestStock(items, s.opts.LowestStockLimit, s.opts.LowStockThreshold),
		LowStock: analytics.LowStock(items, s.opts.LowStockThreshold),
	}, nil
}

// PeriodSummary totals everything recorded since the start of period and
// charts it per day. Unknown periods are treated as monthly.
func (s *DefaultService) PeriodSummary(
	ctx context.Context,
	businessID uuid.UUID,
	period string,
) (domain.PeriodReport, error) {
	period, since := periodStart(period, s.now())

	txns, err := s.transactions(ctx, domain.TransactionFilter{
		BusinessID: businessID,
		From:       &since,
	})
	if err != nil {
		return domain.PeriodReport{}, err
	}

	return domain.PeriodReport{
		Period:  period,
		Since:   since,
		Summary: analytics.Summarize(txns),
		Chart:   analytics.SummarizeByBucket(txns, analytics.Day),
	}, nil
}

func periodStart(period string, now time.Time) (string, time.Time) {
	switch period {
	case PeriodDaily:
		return period, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeekly:
		return period, now.AddDate(0, 0, -7)
	default:
		return PeriodMonthly, now.AddDate(0, -1, 0)
	}
}
