// internal/domain/forecast.go
package domain

import "time"

// SalesRow is a single historical sale aggregate for a SKU as returned by the sales store
type SalesRow struct {
	SaleDate      time.Time `json:"sale_date" db:"sale_date" csv:"sale_date"`
	TotalQuantity int       `json:"total_quantity" db:"total_quantity" csv:"total_quantity"`
}

// InventoryItem is the current on-hand position of a SKU
type InventoryItem struct {
	SKU               string `json:"sku" db:"sku" csv:"sku"`
	InventoryQuantity int    `json:"inventory_quantity" db:"inventory_quantity" csv:"inventory_quantity"`
	ProductTitle      string `json:"product_title" db:"product_title" csv:"product_title"`
}

// SalesObservation is one dated demand value fed into the forecaster
type SalesObservation struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// SeasonalPattern describes how a calendar month compares to the all-time average
type SeasonalPattern struct {
	Month             int     `json:"month"`
	SeasonalityFactor float64 `json:"seasonality_factor"`
	HistoricalAverage float64 `json:"historical_average"`
	Confidence        float64 `json:"confidence"`
}

// ForecastingModel describes the model that produced a forecast
type ForecastingModel struct {
	Name       string    `json:"name"`
	Algorithm  Algorithm `json:"algorithm"`
	Accuracy   float64   `json:"accuracy"`
	Confidence float64   `json:"confidence"`
}

// Predictions holds the forecast horizon at three granularities
type Predictions struct {
	Daily   []float64 `json:"daily"`
	Weekly  []float64 `json:"weekly"`
	Monthly []float64 `json:"monthly"`
}

// InventoryOptimization holds the reorder parameters derived from a forecast
type InventoryOptimization struct {
	CurrentStock               int          `json:"current_stock"`
	RecommendedReorderPoint    int          `json:"recommended_reorder_point"`
	RecommendedReorderQuantity int          `json:"recommended_reorder_quantity"`
	SafetyStockDays            int          `json:"safety_stock_days"`
	StockoutRisk               StockoutRisk `json:"stockout_risk"`
	ExpectedDepleteDate        *time.Time   `json:"expected_deplete_date"`
	DaysUntilStockout          int          `json:"days_until_stockout"`
	AverageDailyDemand         float64      `json:"average_daily_demand"`
}

// BusinessInsights is the rule-engine output attached to a forecast
type BusinessInsights struct {
	Trend           Trend       `json:"trend"`
	Seasonality     Seasonality `json:"seasonality"`
	RiskFactors     []string    `json:"risk_factors"`
	Opportunities   []string    `json:"opportunities"`
	Recommendations []string    `json:"recommendations"`
}

// EnhancedForecast is the full forecast record for one SKU of one company
type EnhancedForecast struct {
	CompanyID             string                `json:"company_id"`
	SKU                   string                `json:"sku"`
	ProductTitle          string                `json:"product_title"`
	ForecastDays          int                   `json:"forecast_days"`
	Predictions           Predictions           `json:"predictions"`
	SeasonalPatterns      []SeasonalPattern     `json:"seasonal_patterns"`
	ModelUsed             ForecastingModel      `json:"model_used"`
	InventoryOptimization InventoryOptimization `json:"inventory_optimization"`
	BusinessInsights      BusinessInsights      `json:"business_insights"`
	Confidence            float64               `json:"confidence"`
	LastUpdated           time.Time             `json:"last_updated"`
}

// ForecastHighlight is a single entry of the company summary risk/opportunity lists
type ForecastHighlight struct {
	SKU               string       `json:"sku"`
	ProductTitle      string       `json:"product_title"`
	StockoutRisk      StockoutRisk `json:"stockout_risk"`
	Trend             Trend        `json:"trend"`
	DaysUntilStockout int          `json:"days_until_stockout"`
	Messages          []string     `json:"messages"`
}

// CompanyForecastSummary aggregates per-SKU forecasts for a company
type CompanyForecastSummary struct {
	CompanyID        string              `json:"company_id"`
	TotalProducts    int                 `json:"total_products"`
	ForecastAccuracy float64             `json:"forecast_accuracy"`
	TopRisks         []ForecastHighlight `json:"top_risks"`
	TopOpportunities []ForecastHighlight `json:"top_opportunities"`
	OverallTrend     OverallTrend        `json:"overall_trend"`
	SeasonalInsights []string            `json:"seasonal_insights"`
	LastAnalyzed     time.Time           `json:"last_analyzed"`
}

// EmptyCompanyForecastSummary returns a structurally valid summary with no data
func EmptyCompanyForecastSummary(companyID string, analyzedAt time.Time) CompanyForecastSummary {
	return CompanyForecastSummary{
		CompanyID:        companyID,
		TopRisks:         make([]ForecastHighlight, 0),
		TopOpportunities: make([]ForecastHighlight, 0),
		OverallTrend:     OverallTrendStable,
		SeasonalInsights: make([]string, 0),
		LastAnalyzed:     analyzedAt,
	}
}
