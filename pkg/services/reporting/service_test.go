package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]store.TransactionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.TransactionRecord), args.Error(1)
}

func (m *mockSource) ListInventory(ctx context.Context, businessID uuid.UUID) ([]store.InventoryRecord, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.InventoryRecord), args.Error(1)
}

func (m *mockSource) GetInventoryItem(ctx context.Context, id uuid.UUID) (*store.InventoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.InventoryRecord), args.Error(1)
}

var (
	now      = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	business = uuid.MustParse("6f1c2a8e-8b1d-4a57-9d1e-0c3b5f0e9a11")
)

func newTestService(source *mockSource) *DefaultService {
	opts := DefaultOptions()
	opts.Now = func() time.Time { return now }
	return NewService(source, opts)
}

func saleRecord(date time.Time, amount float64, product *uuid.UUID, qty int) store.TransactionRecord {
	rec := store.TransactionRecord{
		ID:         uuid.New(),
		BusinessID: business,
		Type:       string(domain.TransactionSale),
		Category:   "Sales",
		Amount:     amount,
		Date:       date,
		Quantity:   qty,
	}
	if product != nil {
		rec.ProductID = uuid.NullUUID{UUID: *product, Valid: true}
	}
	return rec
}

func expenseRecord(date time.Time, amount float64) store.TransactionRecord {
	return store.TransactionRecord{
		ID:         uuid.New(),
		BusinessID: business,
		Type:       string(domain.TransactionExpense),
		Category:   "Rent",
		Amount:     amount,
		Date:       date,
		Quantity:   1,
	}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func salesSince(since time.Time) interface{} {
	return mock.MatchedBy(func(f store.TransactionFilter) bool {
		return f.BusinessID == business &&
			f.Type == string(domain.TransactionSale) &&
			f.From != nil && f.From.Equal(since)
	})
}

func TestForecast(t *testing.T) {
	t.Run("too few days is insufficient", func(t *testing.T) {
		source := new(mockSource)
		source.On("ListTransactions", mock.Anything, salesSince(daysAgo(30))).Return([]store.TransactionRecord{
			saleRecord(daysAgo(1), 10, nil, 1),
			saleRecord(daysAgo(2), 20, nil, 1),
			saleRecord(daysAgo(2), 5, nil, 1),
		}, nil)

		f, err := newTestService(source).Forecast(context.Background(), business)
		require.NoError(t, err)
		assert.False(t, f.Sufficient)
		assert.Equal(t, "insufficient data", f.Message)
		assert.Empty(t, f.Points)
		source.AssertExpectations(t)
	})

	t.Run("growing sales trend up", func(t *testing.T) {
		records := make([]store.TransactionRecord, 0)
		for i := 6; i >= 1; i-- {
			records = append(records, saleRecord(daysAgo(i), float64(100-i*10), nil, 1))
		}
		source := new(mockSource)
		source.On("ListTransactions", mock.Anything, mock.Anything).Return(records, nil)

		f, err := newTestService(source).Forecast(context.Background(), business)
		require.NoError(t, err)
		assert.True(t, f.Sufficient)
		assert.Equal(t, domain.TrendUp, f.Trend)
		require.Len(t, f.Points, 7)
		assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), f.Points[0].Date)
		assert.InDelta(t, 1.0, f.RSquared, 1e-9)
	})

	t.Run("source failure", func(t *testing.T) {
		source := new(mockSource)
		source.On("ListTransactions", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := newTestService(source).Forecast(context.Background(), business)
		assert.ErrorContains(t, err, "boom")
	})
}

func TestNetSales(t *testing.T) {
	tests := []struct {
		name      string
		rangeName string
		since     time.Time
		records   []store.TransactionRecord
		expected  []domain.PeriodSales
	}{
		{
			name:      "week groups by day",
			rangeName: "week",
			since:     daysAgo(7),
			records: []store.TransactionRecord{
				saleRecord(daysAgo(1), 30, nil, 1),
				saleRecord(daysAgo(3), 20, nil, 1),
				saleRecord(daysAgo(3), 5, nil, 1),
			},
			expected: []domain.PeriodSales{
				{PeriodKey: "2025-03-12", TotalSales: 25},
				{PeriodKey: "2025-03-14", TotalSales: 30},
			},
		},
		{
			name:      "unknown range falls back to a year by month",
			rangeName: "fortnight",
			since:     now.AddDate(-1, 0, 0),
			records: []store.TransactionRecord{
				saleRecord(daysAgo(1), 30, nil, 1),
				saleRecord(daysAgo(40), 20, nil, 1),
			},
			expected: []domain.PeriodSales{
				{PeriodKey: "2025-02", TotalSales: 20},
				{PeriodKey: "2025-03", TotalSales: 30},
			},
		},
		{
			name:      "ten years by year",
			rangeName: "10years",
			since:     now.AddDate(-10, 0, 0),
			records: []store.TransactionRecord{
				saleRecord(now.AddDate(-2, 0, 0), 7, nil, 1),
			},
			expected: []domain.PeriodSales{{PeriodKey: "2023", TotalSales: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSource)
			source.On("ListTransactions", mock.Anything, salesSince(tt.since)).Return(tt.records, nil)

			series, err := newTestService(source).NetSales(context.Background(), business, tt.rangeName)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, series)
			source.AssertExpectations(t)
		})
	}
}

func TestTopItems(t *testing.T) {
	soap, oil := uuid.New(), uuid.New()
	unknown := uuid.New()

	source := new(mockSource)
	source.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f store.TransactionFilter) bool {
		return f.Type == string(domain.TransactionSale) && f.From == nil
	})).Return([]store.TransactionRecord{
		saleRecord(daysAgo(1), 10, &soap, 2),
		saleRecord(daysAgo(2), 40, &oil, 4),
		saleRecord(daysAgo(3), 99, &unknown, 50),
		saleRecord(daysAgo(3), 99, nil, 50),
	}, nil)
	source.On("ListInventory", mock.Anything, business).Return([]store.InventoryRecord{
		{ID: soap, BusinessID: business, Name: "Soap", Stock: 10},
		{ID: oil, BusinessID: business, Name: "Oil", Stock: 3},
	}, nil)

	items, err := newTestService(source).TopItems(context.Background(), business)
	require.NoError(t, err)
	assert.Equal(t, []domain.RankedItem{
		{ProductID: oil, Name: "Oil", TotalQuantity: 4, TotalRevenue: 40},
		{ProductID: soap, Name: "Soap", TotalQuantity: 2, TotalRevenue: 10},
	}, items)
}

func TestProductAnalytics(t *testing.T) {
	product := uuid.New()

	t.Run("unknown product", func(t *testing.T) {
		source := new(mockSource)
		source.On("GetInventoryItem", mock.Anything, product).Return(nil, store.ErrNotFound)

		_, err := newTestService(source).ProductAnalytics(context.Background(), business, product)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("product of another business", func(t *testing.T) {
		source := new(mockSource)
		source.On("GetInventoryItem", mock.Anything, product).Return(&store.InventoryRecord{
			ID:         product,
			BusinessID: uuid.New(),
			Name:       "Soap",
		}, nil)

		_, err := newTestService(source).ProductAnalytics(context.Background(), business, product)
		assert.ErrorIs(t, err, ErrProductNotFound)
		source.AssertNotCalled(t, "ListTransactions", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is not a missing product", func(t *testing.T) {
		source := new(mockSource)
		source.On("GetInventoryItem", mock.Anything, product).Return(nil, errors.New("connection reset"))

		_, err := newTestService(source).ProductAnalytics(context.Background(), business, product)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("daily series and stock projection", func(t *testing.T) {
		source := new(mockSource)
		source.On("GetInventoryItem", mock.Anything, product).Return(&store.InventoryRecord{
			ID:           product,
			BusinessID:   business,
			Name:         "Soap",
			SellingPrice: 2.5,
			Stock:        50,
		}, nil)
		source.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f store.TransactionFilter) bool {
			return f.ProductID != nil && *f.ProductID == product &&
				f.From != nil && f.From.Equal(daysAgo(30))
		})).Return([]store.TransactionRecord{
			saleRecord(daysAgo(1), 250, &product, 100),
			saleRecord(daysAgo(5), 125, &product, 50),
		}, nil)

		pa, err := newTestService(source).ProductAnalytics(context.Background(), business, product)
		require.NoError(t, err)
		assert.Equal(t, "Soap", pa.Product.Name)
		assert.Equal(t, 150, pa.Sold)
		assert.Equal(t, []domain.ProductSales{
			{PeriodKey: "2025-03-10", TotalQuantity: 50, TotalRevenue: 125},
			{PeriodKey: "2025-03-14", TotalQuantity: 100, TotalRevenue: 250},
		}, pa.Sales)
		assert.Equal(t, domain.StockAttention, pa.Health.Status)
		require.NotNil(t, pa.Health.DaysLeft)
		assert.Equal(t, 10, *pa.Health.DaysLeft)
	})
}

func TestInventoryOverview(t *testing.T) {
	records := make([]store.InventoryRecord, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, store.InventoryRecord{
			ID:         uuid.New(),
			BusinessID: business,
			Name:       string(rune('A' + i)),
			Stock:      22 - i*2,
		})
	}

	source := new(mockSource)
	source.On("ListInventory", mock.Anything, business).Return(records, nil)

	overview, err := newTestService(source).InventoryOverview(context.Background(), business)
	require.NoError(t, err)

	require.Len(t, overview.Lowest, 10)
	assert.Equal(t, 0, overview.Lowest[0].Item.Stock)
	assert.True(t, overview.Lowest[0].LowStock)
	assert.Equal(t, 18, overview.Lowest[9].Item.Stock)
	assert.False(t, overview.Lowest[9].LowStock)

	for _, item := range overview.LowStock {
		assert.Less(t, item.Stock, 10)
	}
	assert.Len(t, overview.LowStock, 5)
}

func TestPeriodSummary(t *testing.T) {
	tests := []struct {
		name   string
		period string
		want   string
		since  time.Time
	}{
		{name: "daily starts at midnight", period: "daily", want: "daily", since: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "weekly", period: "weekly", want: "weekly", since: daysAgo(7)},
		{name: "monthly", period: "monthly", want: "monthly", since: now.AddDate(0, -1, 0)},
		{name: "unknown falls back to monthly", period: "quarterly", want: "monthly", since: now.AddDate(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSource)
			source.On("ListTransactions", mock.Anything, mock.MatchedBy(func(f store.TransactionFilter) bool {
				return f.Type == "" && f.From != nil && f.From.Equal(tt.since)
			})).Return([]store.TransactionRecord{
				saleRecord(now.Add(-time.Hour), 100, nil, 1),
				saleRecord(now.Add(-2*time.Hour), 50, nil, 1),
				expenseRecord(now.Add(-3*time.Hour), 30),
			}, nil)

			report, err := newTestService(source).PeriodSummary(context.Background(), business, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Period)
			assert.Equal(t, tt.since, report.Since)
			assert.Equal(t, domain.Summary{TotalSales: 150, TotalExpenses: 30, Profit: 120}, report.Summary)
			require.Len(t, report.Chart, 1)
			assert.Equal(t, "2025-03-15", report.Chart[0].Key)
			source.AssertExpectations(t)
		})
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{TopItemsLimit: 5}.withDefaults()
	assert.Equal(t, 5, opts.TopItemsLimit)
	assert.Equal(t, 30, opts.ForecastWindowDays)
	assert.Equal(t, 7, opts.ForecastHorizonDays)
	assert.Equal(t, 5, opts.MinForecastPoints)
	assert.Equal(t, 10, opts.LowStockThreshold)
	assert.NotNil(t, opts.Now)
}
