// Package analytics turns transaction and inventory snapshots into derived
// metrics. Every function is pure: results are rebuilt from the records on
// each call and nothing is cached or shared between calls.
package analytics

import (
	"slices"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Key renders t as a period key. Keys of one granularity sort
// lexicographically in chronological order.
func (g Granularity) Key(t time.Time) string {
	return t.UTC().Format(g.layout())
}

func (g Granularity) layout() string {
	switch g {
	case Day:
		return "2006-01-02"
	case Year:
		return "2006"
	default:
		return "2006-01"
	}
}

const (
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeYear    = "year"
	Range3Years  = "3years"
	Range5Years  = "5years"
	Range10Years = "10years"
	DefaultRange = RangeYear
)

// Window is the lookback and grouping resolved from a named range.
type Window struct {
	Range       string
	Granularity Granularity
	Since       time.Time
}

// ResolveRange maps a range name to its granularity and start time. Unknown
// names fall back to DefaultRange.
func ResolveRange(name string, now time.Time) Window {
	now = now.UTC()
	switch name {
	case RangeWeek:
		return Window{Range: name, Granularity: Day, Since: now.AddDate(0, 0, -7)}
	case RangeMonth:
		return Window{Range: name, Granularity: Day, Since: now.AddDate(0, -1, 0)}
	case Range3Years:
		return Window{Range: name, Granularity: Year, Since: now.AddDate(-3, 0, 0)}
	case Range5Years:
		return Window{Range: name, Granularity: Year, Since: now.AddDate(-5, 0, 0)}
	case Range10Years:
		return Window{Range: name, Granularity: Year, Since: now.AddDate(-10, 0, 0)}
	case RangeYear:
		return Window{Range: name, Granularity: Month, Since: now.AddDate(-1, 0, 0)}
	default:
		return Window{Range: DefaultRange, Granularity: Month, Since: now.AddDate(-1, 0, 0)}
	}
}

// Bucketize groups txns into one bucket per distinct period, ordered by
// period ascending whatever the input order.
func Bucketize(txns []domain.Transaction, g Granularity) []domain.Bucket {
	buckets := make([]domain.Bucket, 0)
	index := make(map[string]int)

	for _, txn := range txns {
		key := g.Key(txn.Date)
		i, ok := index[key]
		if !ok {
			buckets = append(buckets, domain.Bucket{Key: key})
			i = len(buckets) - 1
			index[key] = i
		}
		accumulate(&buckets[i], txn)
	}

	for i := range buckets {
		b := &buckets[i]
		b.Profit = b.Sales - b.Expenses - b.COGS
	}

	slices.SortFunc(buckets, func(a, b domain.Bucket) int {
		return strings.Compare(a.Key, b.Key)
	})
	return buckets
}

func accumulate(b *domain.Bucket, txn domain.Transaction) {
	switch txn.Type {
	case domain.TransactionSale:
		b.Sales += txn.Amount
		b.COGS += txn.COGS
		b.Quantity += txn.Units()
	case domain.TransactionExpense:
		b.Expenses += txn.Amount
	}
}
