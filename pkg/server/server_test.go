package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	duckdbledger "github.com/de-tools/sales-atlas/pkg/store/duckdb/ledger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *httptest.Server {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := duckdbledger.NewStore(db)
	require.NoError(t, err)

	router := ConfigureRouter(Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Reports: reporting.NewService(store, reporting.DefaultOptions()),
			Ledger:  ledger.NewService(store),
			Logger:  zerolog.New(zerolog.NewTestWriter(t)),
		},
	})
	testServer := httptest.NewServer(router)
	t.Cleanup(testServer.Close)
	return testServer
}

func post(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err, "Failed to send request")
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err, "Failed to send request")
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestWebAPI_SalesFlow(t *testing.T) {
	srv := setupServer(t)
	base := srv.URL + "/api/v1"
	business := uuid.New().String()

	resp := post(t, base+"/inventory", api.AddInventoryRequest{
		BusinessID:   business,
		Name:         "Soap",
		CostPrice:    1.5,
		SellingPrice: 3,
		Stock:        10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	soap := decode[api.InventoryItem](t, resp)

	quantity := 4
	resp = post(t, base+"/transactions", api.CreateTransactionRequest{
		BusinessID: business,
		Type:       "SALE",
		Category:   "Sales",
		Amount:     12,
		ProductID:  &soap.ID,
		Quantity:   &quantity,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[api.Transaction](t, resp)
	assert.Equal(t, 6.0, sale.COGS)
	assert.Equal(t, "Soap", sale.ProductName)

	resp = post(t, base+"/transactions", api.CreateTransactionRequest{
		BusinessID: business,
		Type:       "EXPENSE",
		Category:   "Rent",
		Amount:     5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("overselling is rejected", func(t *testing.T) {
		tooMany := 7
		resp := post(t, base+"/transactions", api.CreateTransactionRequest{
			BusinessID: business,
			Type:       "SALE",
			Category:   "Sales",
			Amount:     21,
			ProductID:  &soap.ID,
			Quantity:   &tooMany,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("stock was decremented", func(t *testing.T) {
		items := decode[[]api.InventoryItem](t, get(t, base+"/inventory/"+business))
		require.Len(t, items, 1)
		assert.Equal(t, 6, items[0].Stock)
	})

	t.Run("summary", func(t *testing.T) {
		report := decode[api.PeriodReport](t, get(t, base+"/reports/summary/"+business+"?period=monthly"))
		assert.Equal(t, api.Summary{TotalSales: 12, TotalExpenses: 5, TotalCOGS: 6, Profit: 1}, report.PeriodSummary)
		require.Len(t, report.ChartData, 1)
	})

	t.Run("top items", func(t *testing.T) {
		items := decode[[]api.RankedItem](t, get(t, base+"/analytics/top-items/"+business))
		assert.Equal(t, []api.RankedItem{
			{ProductID: soap.ID, Name: "Soap", TotalQuantity: 4, TotalRevenue: 12},
		}, items)
	})

	t.Run("forecast needs more history", func(t *testing.T) {
		forecast := decode[api.Forecast](t, get(t, base+"/analytics/forecast/"+business))
		assert.True(t, forecast.Success)
		assert.Equal(t, "insufficient data", forecast.Message)
		assert.Empty(t, forecast.Forecast)
	})

	t.Run("product analytics", func(t *testing.T) {
		pa := decode[api.ProductAnalytics](t, get(t, base+"/analytics/product/"+business+"/"+soap.ID))
		assert.Equal(t, api.ProductContext{Name: "Soap", Stock: 6, SellingPrice: 3}, pa.Product)
		require.Len(t, pa.Sales, 1)
		assert.Equal(t, 4, pa.Sales[0].TotalQuantity)
		assert.Equal(t, "healthy", pa.Health.Status)
		require.NotNil(t, pa.Health.DaysLeft)
		assert.Equal(t, 45, *pa.Health.DaysLeft)
	})

	t.Run("inventory overview flags low stock", func(t *testing.T) {
		overview := decode[api.InventoryOverview](t, get(t, base+"/analytics/inventory/"+business))
		require.Len(t, overview.Items, 1)
		assert.True(t, overview.Items[0].LowStock)
		assert.Len(t, overview.LowStock, 1)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		resp := get(t, base+"/analytics/product/"+business+"/"+uuid.NewString())
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("transactions newest first", func(t *testing.T) {
		txns := decode[[]api.Transaction](t, get(t, base+"/transactions/"+business))
		require.Len(t, txns, 2)
		assert.False(t, txns[0].Date.Before(txns[1].Date))
	})
}

func TestWebAPI_InvalidBusinessID(t *testing.T) {
	srv := setupServer(t)

	resp := get(t, srv.URL+"/api/v1/analytics/sales/not-a-uuid")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
