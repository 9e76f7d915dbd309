package api

type ForecastPoint struct {
	Date            string  `json:"date"`
	PredictedAmount float64 `json:"predictedAmount"`
	Confidence      float64 `json:"confidence"`
}

type Forecast struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Trend    string          `json:"trend,omitempty"`
	RSquared *float64        `json:"rSquared,omitempty"`
	Forecast []ForecastPoint `json:"forecast"`
}

type PeriodSales struct {
	PeriodKey  string  `json:"periodKey"`
	TotalSales float64 `json:"totalSales"`
}

type RankedItem struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type ProductSales struct {
	PeriodKey     string  `json:"periodKey"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type ProductContext struct {
	Name         string  `json:"name"`
	Stock        int     `json:"stock"`
	SellingPrice float64 `json:"sellingPrice"`
}

type StockHealth struct {
	DailyRate float64 `json:"dailyRate"`
	DaysLeft  *int    `json:"daysLeft"`
	Status    string  `json:"status"`
}

type ProductAnalytics struct {
	Sales   []ProductSales `json:"sales"`
	Product ProductContext `json:"product"`
	Health  StockHealth    `json:"health"`
}

type StockAlert struct {
	InventoryItem
	LowStock bool `json:"lowStock"`
}

type InventoryOverview struct {
	Items    []StockAlert    `json:"items"`
	LowStock []InventoryItem `json:"lowStock"`
}
