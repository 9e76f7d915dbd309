package analytics

import "github.com/de-tools/sales-atlas/pkg/models/domain"

// Summarize totals sales, expenses and COGS of txns.
// Profit is always TotalSales - TotalExpenses - TotalCOGS.
func Summarize(txns []domain.Transaction) domain.Summary {
	var s domain.Summary
	for _, txn := range txns {
		switch txn.Type {
		case domain.TransactionSale:
			s.TotalSales += txn.Amount
			s.TotalCOGS += txn.COGS
		case domain.TransactionExpense:
			s.TotalExpenses += txn.Amount
		}
	}
	s.Profit = s.TotalSales - s.TotalExpenses - s.TotalCOGS
	return s
}

// SummarizeByBucket is the per-period variant of Summarize.
func SummarizeByBucket(txns []domain.Transaction, g Granularity) []domain.Bucket {
	return Bucketize(txns, g)
}

// SalesSeries keeps only the sales amount of each bucket.
func SalesSeries(buckets []domain.Bucket) []domain.PeriodSales {
	series := make([]domain.PeriodSales, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, domain.PeriodSales{PeriodKey: b.Key, TotalSales: b.Sales})
	}
	return series
}

// ProductSeries keeps the units and revenue of each bucket.
func ProductSeries(buckets []domain.Bucket) []domain.ProductSales {
	series := make([]domain.ProductSales, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, domain.ProductSales{
			PeriodKey:     b.Key,
			TotalQuantity: b.Quantity,
			TotalRevenue:  b.Sales,
		})
	}
	return series
}
