package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/analytics"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func period(start, end time.Time) domain.TimePeriod {
	return domain.TimePeriod{
		Start:    start,
		End:      end,
		Duration: int(end.Sub(start).Hours() / 24),
	}
}

func SummaryReport(businessID uuid.UUID, r domain.PeriodReport, now time.Time) *domain.Report {
	totals := domain.ReportSection{
		Title:   "Totals",
		Columns: domain.ReportColumns{Value: "Amount"},
		Details: []domain.ReportDetail{
			{Name: "Sales", Value: money(r.Summary.TotalSales)},
			{Name: "Expenses", Value: money(r.Summary.TotalExpenses)},
			{Name: "COGS", Value: money(r.Summary.TotalCOGS)},
			{Name: "Profit", Value: money(r.Summary.Profit), Description: "sales - expenses - cogs"},
		},
	}

	daily := domain.ReportSection{
		Title:   "By day",
		Columns: domain.ReportColumns{Name: "Day", Value: "Profit"},
	}
	for _, b := range r.Chart {
		daily.Details = append(daily.Details, domain.ReportDetail{
			Name:  b.Key,
			Value: money(b.Profit),
			Description: fmt.Sprintf("sales %s, expenses %s, cogs %s",
				money(b.Sales), money(b.Expenses), money(b.COGS)),
		})
	}

	return &domain.Report{
		Title:       fmt.Sprintf("Financial summary (%s)", r.Period),
		Business:    businessID.String(),
		Period:      period(r.Since, now),
		Sections:    []domain.ReportSection{totals, daily},
		TotalAmount: r.Summary.Profit,
	}
}

func ForecastReport(businessID uuid.UUID, f domain.Forecast) *domain.Report {
	report := &domain.Report{
		Title:    "Sales forecast",
		Business: businessID.String(),
	}
	if !f.Sufficient {
		report.Sections = []domain.ReportSection{{
			Title:   "Forecast",
			Summary: map[string]interface{}{"status": f.Message},
		}}
		return report
	}

	section := domain.ReportSection{
		Title:   "Forecast",
		Columns: domain.ReportColumns{Name: "Date", Value: "Predicted"},
		Summary: map[string]interface{}{
			"trend":     string(f.Trend),
			"r_squared": fmt.Sprintf("%.3f", f.RSquared),
		},
	}
	for _, p := range f.Points {
		report.TotalAmount += p.PredictedAmount
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        p.Date.Format(dateLayout),
			Value:       money(p.PredictedAmount),
			Description: fmt.Sprintf("confidence %.2f", p.Confidence),
		})
	}
	report.Sections = []domain.ReportSection{section}
	if n := len(f.Points); n > 0 {
		report.Period = period(f.Points[0].Date, f.Points[n-1].Date.AddDate(0, 0, 1))
	}
	return report
}

func SalesReport(businessID uuid.UUID, window analytics.Window, series []domain.PeriodSales, now time.Time) *domain.Report {
	section := domain.ReportSection{
		Title:   "Net sales",
		Columns: domain.ReportColumns{Name: "Period", Value: "Sales"},
		Summary: map[string]interface{}{"range": window.Range, "granularity": string(window.Granularity)},
	}
	var total float64
	for _, s := range series {
		total += s.TotalSales
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  s.PeriodKey,
			Value: money(s.TotalSales),
		})
	}

	return &domain.Report{
		Title:       "Net sales",
		Business:    businessID.String(),
		Period:      period(window.Since, now),
		Sections:    []domain.ReportSection{section},
		TotalAmount: total,
	}
}

func TopItemsReport(businessID uuid.UUID, items []domain.RankedItem) *domain.Report {
	section := domain.ReportSection{
		Title:   "Top items",
		Columns: domain.ReportColumns{Name: "Product", Value: "Sold"},
	}
	var total float64
	for i, item := range items {
		total += item.TotalRevenue
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("%d. %s", i+1, item.Name),
			Value:       item.TotalQuantity,
			Unit:        "units",
			Description: fmt.Sprintf("revenue %s", money(item.TotalRevenue)),
		})
	}

	return &domain.Report{
		Title:       "Top items",
		Business:    businessID.String(),
		Sections:    []domain.ReportSection{section},
		TotalAmount: total,
	}
}

func ProductReport(businessID uuid.UUID, pa domain.ProductAnalytics, windowDays int, now time.Time) *domain.Report {
	daysLeft := "-"
	if pa.Health.DaysLeft != nil {
		daysLeft = fmt.Sprint(*pa.Health.DaysLeft)
	}

	health := domain.ReportSection{
		Title:   pa.Product.Name,
		Columns: domain.ReportColumns{Name: "Metric"},
		Summary: map[string]interface{}{
			"stock":         pa.Product.Stock,
			"selling_price": money(pa.Product.SellingPrice),
		},
		Details: []domain.ReportDetail{
			{Name: "Units sold", Value: pa.Sold, Unit: "units", Description: fmt.Sprintf("last %d days", windowDays)},
			{Name: "Daily rate", Value: fmt.Sprintf("%.2f", pa.Health.DailyRate), Unit: "units/day"},
			{Name: "Days left", Value: daysLeft, Unit: "days"},
			{Name: "Status", Value: string(pa.Health.Status)},
		},
	}

	sales := domain.ReportSection{
		Title:   "Daily sales",
		Columns: domain.ReportColumns{Name: "Day", Value: "Sold"},
	}
	var revenue float64
	for _, s := range pa.Sales {
		revenue += s.TotalRevenue
		sales.Details = append(sales.Details, domain.ReportDetail{
			Name:        s.PeriodKey,
			Value:       s.TotalQuantity,
			Unit:        "units",
			Description: fmt.Sprintf("revenue %s", money(s.TotalRevenue)),
		})
	}

	return &domain.Report{
		Title:       "Product analytics",
		Business:    businessID.String(),
		Period:      period(now.AddDate(0, 0, -windowDays), now),
		Sections:    []domain.ReportSection{health, sales},
		TotalAmount: revenue,
	}
}

func InventoryReport(businessID uuid.UUID, o domain.InventoryOverview) *domain.Report {
	section := domain.ReportSection{
		Title:   "Lowest stock",
		Columns: domain.ReportColumns{Name: "Item", Value: "Stock"},
		Summary: map[string]interface{}{"low_stock_items": len(o.LowStock)},
	}
	for _, alert := range o.Lowest {
		desc := ""
		if alert.LowStock {
			desc = "low stock"
		}
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        alert.Item.Name,
			Value:       alert.Item.Stock,
			Unit:        "units",
			Description: desc,
		})
	}

	return &domain.Report{
		Title:    "Inventory",
		Business: businessID.String(),
		Sections: []domain.ReportSection{section},
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
