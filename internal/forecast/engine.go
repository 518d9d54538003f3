package forecast

import (
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
)

const (
	weekDays  = 7
	monthDays = 30
)

// Input is everything a single-SKU forecast depends on
type Input struct {
	CompanyID    string
	Item         domain.InventoryItem
	History      []domain.SalesRow
	ForecastDays int
	Now          time.Time
}

// Engine assembles primitives, the hybrid forecaster, the optimizer and the
// insight analyzer into one forecast record. It holds no mutable state.
type Engine struct {
	forecaster *HybridForecaster
	optimizer  *InventoryOptimizer
	analyzer   *InsightAnalyzer
}

// NewEngine creates an engine with the default smoothing alpha. A non-positive
// lead time falls back to DefaultLeadTimeDays.
func NewEngine(leadTimeDays int) *Engine {
	return &Engine{
		forecaster: NewHybridForecaster(DefaultSmoothingAlpha),
		optimizer:  NewInventoryOptimizer(leadTimeDays),
		analyzer:   NewInsightAnalyzer(),
	}
}

// Build computes the forecast. The first forecast day is the day after in.Now.
func (e *Engine) Build(in Input) *domain.EnhancedForecast {
	observations := BuildDailySeries(in.History)
	series := Quantities(observations)
	patterns := DetectSeasonalPatterns(observations)

	start := truncateDay(in.Now).AddDate(0, 0, 1)
	hybrid := e.forecaster.Forecast(series, patterns, start, in.ForecastDays)

	optimization := e.optimizer.Optimize(hybrid.Predictions, in.Item.InventoryQuantity, hybrid.Confidence, start)

	insights := e.analyzer.Analyze(InsightInput{
		History:      series,
		Predictions:  hybrid.Predictions,
		Patterns:     patterns,
		Optimization: optimization,
		Confidence:   hybrid.Confidence,
	})

	return &domain.EnhancedForecast{
		CompanyID:    in.CompanyID,
		SKU:          in.Item.SKU,
		ProductTitle: in.Item.ProductTitle,
		ForecastDays: in.ForecastDays,
		Predictions: domain.Predictions{
			Daily:   hybrid.Predictions,
			Weekly:  bucketSums(hybrid.Predictions, weekDays),
			Monthly: bucketSums(hybrid.Predictions, monthDays),
		},
		SeasonalPatterns:      patterns,
		ModelUsed:             hybrid.Model,
		InventoryOptimization: optimization,
		BusinessInsights:      insights,
		Confidence:            hybrid.Confidence,
		LastUpdated:           in.Now,
	}
}
