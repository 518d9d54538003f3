package domain

// Algorithm identifies the forecasting technique behind a ForecastingModel
type Algorithm string

const (
	AlgorithmLinear      Algorithm = "linear"
	AlgorithmExponential Algorithm = "exponential"
	AlgorithmSeasonal    Algorithm = "seasonal"
	AlgorithmHybrid      Algorithm = "hybrid"
)

// StockoutRisk buckets the number of days until projected depletion
type StockoutRisk string

const (
	StockoutRiskLow    StockoutRisk = "low"
	StockoutRiskMedium StockoutRisk = "medium"
	StockoutRiskHigh   StockoutRisk = "high"
)

// Trend is the per-SKU demand direction
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Seasonality grades the spread of monthly seasonality factors
type Seasonality string

const (
	SeasonalityHigh   Seasonality = "high"
	SeasonalityMedium Seasonality = "medium"
	SeasonalityLow    Seasonality = "low"
	SeasonalityNone   Seasonality = "none"
)

// OverallTrend is the company-wide demand direction
type OverallTrend string

const (
	OverallTrendGrowth  OverallTrend = "growth"
	OverallTrendDecline OverallTrend = "decline"
	OverallTrendStable  OverallTrend = "stable"
)

var stockoutRiskSeverity = map[StockoutRisk]int{
	StockoutRiskLow:    1,
	StockoutRiskMedium: 2,
	StockoutRiskHigh:   3,
}

// Severity orders risks so that higher means more urgent. Unknown values rank lowest.
func (r StockoutRisk) Severity() int {
	return stockoutRiskSeverity[r]
}

var monthLabels = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthLabel returns the English name of a 1-based calendar month.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return "Unknown"
	}

	return monthLabels[month-1]
}
