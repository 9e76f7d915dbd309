package api

type Summary struct {
	TotalSales    float64 `json:"totalSales"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalCOGS     float64 `json:"totalCOGS"`
	Profit        float64 `json:"profit"`
}

type ChartPoint struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	COGS     float64 `json:"cogs"`
	Profit   float64 `json:"profit"`
}

type PeriodReport struct {
	PeriodSummary Summary      `json:"periodSummary"`
	ChartData     []ChartPoint `json:"chartData"`
}
