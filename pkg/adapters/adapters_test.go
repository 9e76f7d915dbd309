package adapters

import (
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRoundTrip(t *testing.T) {
	product := uuid.New()
	local := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("WAT", 3600))

	txn := domain.Transaction{
		ID:          uuid.New(),
		BusinessID:  uuid.New(),
		Type:        domain.TransactionSale,
		Category:    "Sales",
		Amount:      12,
		Date:        local,
		ProductID:   &product,
		ProductName: "Soap",
		Quantity:    4,
		COGS:        6,
	}

	rec := MapDomainTransactionToStore(txn)
	assert.True(t, rec.ProductID.Valid)
	assert.Equal(t, time.UTC, rec.Date.Location())

	back := MapStoreTransactionToDomain(rec)
	require.NotNil(t, back.ProductID)
	assert.Equal(t, product, *back.ProductID)
	assert.True(t, back.Date.Equal(local))
	assert.Equal(t, domain.TransactionSale, back.Type)
}

func TestMapStoreTransactionToDomain_NoProduct(t *testing.T) {
	txn := MapStoreTransactionToDomain(store.TransactionRecord{Type: "EXPENSE"})
	assert.Nil(t, txn.ProductID)

	out := MapTransactionDomainToApi(txn)
	assert.Nil(t, out.ProductID)
	assert.Equal(t, "EXPENSE", out.Type)
}

func TestMapForecastDomainToApi(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		out := MapForecastDomainToApi(domain.Forecast{Message: "insufficient data"})
		assert.True(t, out.Success)
		assert.Equal(t, "insufficient data", out.Message)
		assert.Nil(t, out.RSquared)
		assert.NotNil(t, out.Forecast)
		assert.Empty(t, out.Forecast)
	})

	t.Run("sufficient with zero fit", func(t *testing.T) {
		out := MapForecastDomainToApi(domain.Forecast{
			Sufficient: true,
			Trend:      domain.TrendDown,
			Points: []domain.ForecastPoint{
				{Date: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), PredictedAmount: 4},
			},
		})
		require.NotNil(t, out.RSquared)
		assert.Zero(t, *out.RSquared)
		assert.Equal(t, "DOWN", out.Trend)
		assert.Equal(t, "2025-03-16", out.Forecast[0].Date)
	})
}

func TestMapInventoryOverviewDomainToApi_Empty(t *testing.T) {
	out := MapInventoryOverviewDomainToApi(domain.InventoryOverview{})
	assert.NotNil(t, out.Items)
	assert.NotNil(t, out.LowStock)
}

func TestMapPeriodReportDomainToApi(t *testing.T) {
	out := MapPeriodReportDomainToApi(domain.PeriodReport{
		Summary: domain.Summary{TotalSales: 10, TotalCOGS: 4, Profit: 6},
		Chart:   []domain.Bucket{{Key: "2025-03-14", Sales: 10, COGS: 4, Profit: 6}},
	})
	assert.Equal(t, 6.0, out.PeriodSummary.Profit)
	require.Len(t, out.ChartData, 1)
	assert.Equal(t, "2025-03-14", out.ChartData[0].Date)
	assert.Equal(t, 4.0, out.ChartData[0].COGS)
}
