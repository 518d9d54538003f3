package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// dailyRows returns one row per day starting Jan 1 2024
func dailyRows(quantities ...int) []domain.SalesRow {
	rows := make([]domain.SalesRow, len(quantities))
	for i, q := range quantities {
		rows[i] = domain.SalesRow{SaleDate: day(2024, 1, 1).AddDate(0, 0, i), TotalQuantity: q}
	}
	return rows
}

func repeat(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestBuildFlatHistory(t *testing.T) {
	result := NewEngine(7).Build(Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 1000, ProductTitle: "Mug"},
		History:      dailyRows(repeat(60, 10)...),
		ForecastDays: 30,
		Now:          engineNow,
	})

	require.NotNil(t, result)
	assert.Equal(t, "c1", result.CompanyID)
	assert.Equal(t, "SKU-1", result.SKU)
	assert.Equal(t, "Mug", result.ProductTitle)
	assert.Equal(t, 30, result.ForecastDays)
	assert.Equal(t, engineNow, result.LastUpdated)

	require.Len(t, result.Predictions.Daily, 30)
	assert.InDelta(t, 300, sum(result.Predictions.Daily), 1)
	assert.Len(t, result.Predictions.Weekly, 5)
	require.Len(t, result.Predictions.Monthly, 1)
	assert.InDelta(t, 300, result.Predictions.Monthly[0], 1)

	assert.Equal(t, domain.TrendStable, result.BusinessInsights.Trend)
	assert.Equal(t, domain.StockoutRiskLow, result.InventoryOptimization.StockoutRisk)
	assert.Nil(t, result.InventoryOptimization.ExpectedDepleteDate)
	assert.Equal(t, NoStockoutDays, result.InventoryOptimization.DaysUntilStockout)
	assert.Equal(t, domain.AlgorithmHybrid, result.ModelUsed.Algorithm)
	assert.InDelta(t, MaxConfidence, result.Confidence, 1e-9)

	// only January and February have history
	require.Len(t, result.SeasonalPatterns, 2)
	assert.Equal(t, 1, result.SeasonalPatterns[0].Month)
	assert.Equal(t, 2, result.SeasonalPatterns[1].Month)
}

func TestBuildIncreasingHistory(t *testing.T) {
	history := dailyRows(append(repeat(30, 10), repeat(30, 20)...)...)

	result := NewEngine(7).Build(Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 5000},
		History:      history,
		ForecastDays: 30,
		Now:          engineNow,
	})

	assert.Equal(t, domain.TrendIncreasing, result.BusinessInsights.Trend)
	assert.Contains(t, result.BusinessInsights.Opportunities,
		"Demand is growing: consider raising stock levels to capture additional sales")
}

func TestBuildImminentStockout(t *testing.T) {
	result := NewEngine(7).Build(Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 50},
		History:      dailyRows(repeat(60, 10)...),
		ForecastDays: 30,
		Now:          engineNow,
	})

	opt := result.InventoryOptimization
	require.NotNil(t, opt.ExpectedDepleteDate)
	assert.Equal(t, day(2024, 3, 6), *opt.ExpectedDepleteDate)
	assert.Equal(t, 5, opt.DaysUntilStockout)
	assert.Equal(t, domain.StockoutRiskHigh, opt.StockoutRisk)
	assert.NotEmpty(t, result.BusinessInsights.RiskFactors)
}

func TestBuildShortHistory(t *testing.T) {
	result := NewEngine(7).Build(Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 5},
		History:      dailyRows(3, 4, 5),
		ForecastDays: 30,
		Now:          engineNow,
	})

	assert.Equal(t, make([]float64, 30), result.Predictions.Daily)
	assert.Equal(t, MinConfidence, result.Confidence)
	assert.Equal(t, ModelNameInsufficientData, result.ModelUsed.Name)
	assert.Equal(t, domain.StockoutRiskLow, result.InventoryOptimization.StockoutRisk)
}

func TestBuildBoundsOnVolatileHistory(t *testing.T) {
	quantities := make([]int, 120)
	for i := range quantities {
		quantities[i] = (i * 37) % 23
	}

	result := NewEngine(7).Build(Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 100},
		History:      dailyRows(quantities...),
		ForecastDays: 90,
		Now:          engineNow,
	})

	require.Len(t, result.Predictions.Daily, 90)
	for _, p := range result.Predictions.Daily {
		assert.GreaterOrEqual(t, p, 0.0)
	}
	assert.Len(t, result.Predictions.Weekly, 13)
	assert.Len(t, result.Predictions.Monthly, 3)
	assert.GreaterOrEqual(t, result.Confidence, MinConfidence)
	assert.LessOrEqual(t, result.Confidence, MaxConfidence)
	for _, p := range result.SeasonalPatterns {
		assert.GreaterOrEqual(t, p.Confidence, MinConfidence)
		assert.LessOrEqual(t, p.Confidence, MaxConfidence)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	in := Input{
		CompanyID:    "c1",
		Item:         domain.InventoryItem{SKU: "SKU-1", InventoryQuantity: 300},
		History:      dailyRows(append(repeat(45, 7), repeat(45, 12)...)...),
		ForecastDays: 60,
		Now:          engineNow,
	}

	engine := NewEngine(7)
	first := engine.Build(in)
	second := engine.Build(in)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Build() not deterministic (-first +second):\n%s", diff)
	}
}
