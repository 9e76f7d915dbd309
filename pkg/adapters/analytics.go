package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const dateLayout = "2006-01-02"

func MapForecastDomainToApi(f domain.Forecast) api.Forecast {
	if !f.Sufficient {
		return api.Forecast{
			Success:  true,
			Message:  f.Message,
			Forecast: []api.ForecastPoint{},
		}
	}

	rSquared := f.RSquared
	out := api.Forecast{
		Success:  true,
		Trend:    string(f.Trend),
		RSquared: &rSquared,
		Forecast: make([]api.ForecastPoint, 0, len(f.Points)),
	}
	for _, p := range f.Points {
		out.Forecast = append(out.Forecast, api.ForecastPoint{
			Date:            p.Date.Format(dateLayout),
			PredictedAmount: p.PredictedAmount,
			Confidence:      p.Confidence,
		})
	}
	return out
}

func MapPeriodSalesDomainToApi(series []domain.PeriodSales) []api.PeriodSales {
	out := make([]api.PeriodSales, 0, len(series))
	for _, s := range series {
		out = append(out, api.PeriodSales{PeriodKey: s.PeriodKey, TotalSales: s.TotalSales})
	}
	return out
}

func MapRankedItemsDomainToApi(items []domain.RankedItem) []api.RankedItem {
	out := make([]api.RankedItem, 0, len(items))
	for _, item := range items {
		out = append(out, api.RankedItem{
			ProductID:     item.ProductID.String(),
			Name:          item.Name,
			TotalQuantity: item.TotalQuantity,
			TotalRevenue:  item.TotalRevenue,
		})
	}
	return out
}

func MapProductAnalyticsDomainToApi(pa domain.ProductAnalytics) api.ProductAnalytics {
	out := api.ProductAnalytics{
		Sales: make([]api.ProductSales, 0, len(pa.Sales)),
		Product: api.ProductContext{
			Name:         pa.Product.Name,
			Stock:        pa.Product.Stock,
			SellingPrice: pa.Product.SellingPrice,
		},
		Health: MapStockHealthDomainToApi(pa.Health),
	}
	for _, s := range pa.Sales {
		out.Sales = append(out.Sales, api.ProductSales{
			PeriodKey:     s.PeriodKey,
			TotalQuantity: s.TotalQuantity,
			TotalRevenue:  s.TotalRevenue,
		})
	}
	return out
}

func MapStockHealthDomainToApi(h domain.StockHealth) api.StockHealth {
	return api.StockHealth{
		DailyRate: h.DailyRate,
		DaysLeft:  h.DaysLeft,
		Status:    string(h.Status),
	}
}

func MapInventoryOverviewDomainToApi(o domain.InventoryOverview) api.InventoryOverview {
	out := api.InventoryOverview{
		Items:    make([]api.StockAlert, 0, len(o.Lowest)),
		LowStock: MapInventoryListDomainToApi(o.LowStock),
	}
	for _, alert := range o.Lowest {
		out.Items = append(out.Items, api.StockAlert{
			InventoryItem: MapInventoryDomainToApi(alert.Item),
			LowStock:      alert.LowStock,
		})
	}
	return out
}

func MapPeriodReportDomainToApi(r domain.PeriodReport) api.PeriodReport {
	out := api.PeriodReport{
		PeriodSummary: api.Summary{
			TotalSales:    r.Summary.TotalSales,
			TotalExpenses: r.Summary.TotalExpenses,
			TotalCOGS:     r.Summary.TotalCOGS,
			Profit:        r.Summary.Profit,
		},
		ChartData: make([]api.ChartPoint, 0, len(r.Chart)),
	}
	for _, b := range r.Chart {
		out.ChartData = append(out.ChartData, api.ChartPoint{
			Date:     b.Key,
			Sales:    b.Sales,
			Expenses: b.Expenses,
			COGS:     b.COGS,
			Profit:   b.Profit,
		})
	}
	return out
}
