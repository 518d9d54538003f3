package forecast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
)

const (
	trendWindowDays     = 30
	trendIncreaseRatio  = 1.1
	trendDecreaseRatio  = 0.9
	lowConfidenceCutoff = 0.5
	overstockCoverDays  = 60
)

// InsightInput carries the computed signals the rule engine classifies
type InsightInput struct {
	History      []float64
	Predictions  []float64
	Patterns     []domain.SeasonalPattern
	Optimization domain.InventoryOptimization
	Confidence   float64
}

type insightKind int

const (
	riskInsight insightKind = iota
	opportunityInsight
	recommendationInsight
)

// signals are derived once per analysis and read by every rule
type signals struct {
	InsightInput
	trend       domain.Trend
	seasonality domain.Seasonality
	peakMonths  []int
	demand60    float64
}

type insightRule struct {
	kind    insightKind
	when    func(s *signals) bool
	message func(s *signals) string
}

// insightRules is evaluated top to bottom; output order follows table order.
var insightRules = []insightRule{
	// risks
	{
		kind: riskInsight,
		when: func(s *signals) bool { return s.Optimization.StockoutRisk == domain.StockoutRiskHigh },
		message: func(s *signals) string {
			return fmt.Sprintf("High stockout risk: stock is projected to run out in %d days", s.Optimization.DaysUntilStockout)
		},
	},
	{
		kind: riskInsight,
		when: func(s *signals) bool { return s.Optimization.StockoutRisk == domain.StockoutRiskMedium },
		message: func(s *signals) string {
			return fmt.Sprintf("Moderate stockout risk: stock is projected to run out in %d days", s.Optimization.DaysUntilStockout)
		},
	},
	{
		kind:    riskInsight,
		when:    func(s *signals) bool { return s.Confidence < lowConfidenceCutoff },
		message: func(s *signals) string { return "Low forecast confidence: demand history is sparse or volatile" },
	},
	{
		kind:    riskInsight,
		when:    func(s *signals) bool { return s.trend == domain.TrendDecreasing },
		message: func(s *signals) string { return "Demand is declining compared to the previous 30 days" },
	},
	{
		kind: riskInsight,
		when: overstocked,
		message: func(s *signals) string {
			return fmt.Sprintf("Excess inventory: %d units on hand exceed 60 days of projected demand", s.Optimization.CurrentStock)
		},
	},
	// opportunities
	{
		kind:    opportunityInsight,
		when:    func(s *signals) bool { return s.trend == domain.TrendIncreasing },
		message: func(s *signals) string { return "Demand is growing: consider raising stock levels to capture additional sales" },
	},
	{
		kind: opportunityInsight,
		when: func(s *signals) bool { return s.seasonality == domain.SeasonalityHigh },
		message: func(s *signals) string {
			return fmt.Sprintf("Strong seasonal demand peaking in %s: stock up ahead of the peak", monthList(s.peakMonths))
		},
	},
	{
		kind:    opportunityInsight,
		when:    overstocked,
		message: func(s *signals) string { return "Run a promotion or bundle to convert excess stock into cash" },
	},
	// recommendations
	{
		kind: recommendationInsight,
		when: func(s *signals) bool { return s.Optimization.StockoutRisk == domain.StockoutRiskHigh },
		message: func(s *signals) string {
			return fmt.Sprintf("Reorder immediately: order %d units", s.Optimization.RecommendedReorderQuantity)
		},
	},
	{
		kind: recommendationInsight,
		when: func(s *signals) bool {
			return s.Optimization.StockoutRisk != domain.StockoutRiskHigh &&
				s.Optimization.RecommendedReorderPoint > 0 &&
				s.Optimization.CurrentStock <= s.Optimization.RecommendedReorderPoint
		},
		message: func(s *signals) string {
			return fmt.Sprintf("Stock is at or below the reorder point of %d units: place a reorder of %d units",
				s.Optimization.RecommendedReorderPoint, s.Optimization.RecommendedReorderQuantity)
		},
	},
	{
		kind: recommendationInsight,
		when: func(s *signals) bool { return s.Confidence < lowConfidenceCutoff },
		message: func(s *signals) string {
			return fmt.Sprintf("Review this forecast weekly and hold %d days of safety stock", s.Optimization.SafetyStockDays)
		},
	},
	{
		kind: recommendationInsight,
		when: func(s *signals) bool {
			return (s.seasonality == domain.SeasonalityHigh || s.seasonality == domain.SeasonalityMedium) && len(s.peakMonths) > 0
		},
		message: func(s *signals) string {
			return fmt.Sprintf("Increase reorder quantities before %s", monthList(s.peakMonths))
		},
	},
	{
		kind: recommendationInsight,
		when: overstocked,
		message: func(s *signals) string {
			return fmt.Sprintf("Pause reordering until stock falls below %d units", s.Optimization.RecommendedReorderPoint)
		},
	},
}

// InsightAnalyzer classifies trend and seasonality and runs the insight rule table
type InsightAnalyzer struct{}

// NewInsightAnalyzer creates a new analyzer
func NewInsightAnalyzer() *InsightAnalyzer {
	return &InsightAnalyzer{}
}

// Analyze evaluates every rule independently against the input signals
func (a *InsightAnalyzer) Analyze(in InsightInput) domain.BusinessInsights {
	s := &signals{
		InsightInput: in,
		trend:        ClassifyTrend(in.History, in.Predictions),
		seasonality:  ClassifySeasonality(in.Patterns),
		peakMonths:   peakMonths(in.Patterns),
		demand60:     in.Optimization.AverageDailyDemand * overstockCoverDays,
	}

	insights := domain.BusinessInsights{
		Trend:           s.trend,
		Seasonality:     s.seasonality,
		RiskFactors:     make([]string, 0),
		Opportunities:   make([]string, 0),
		Recommendations: make([]string, 0),
	}

	for _, rule := range insightRules {
		if !rule.when(s) {
			continue
		}
		msg := rule.message(s)
		switch rule.kind {
		case riskInsight:
			insights.RiskFactors = append(insights.RiskFactors, msg)
		case opportunityInsight:
			insights.Opportunities = append(insights.Opportunities, msg)
		case recommendationInsight:
			insights.Recommendations = append(insights.Recommendations, msg)
		}
	}

	if len(insights.Recommendations) == 0 {
		insights.Recommendations = append(insights.Recommendations, "Maintain the current inventory strategy")
	}

	return insights
}

// ClassifyTrend compares the later 30-day window of demand with the earlier one.
// When the forecast covers at least 60 days the first two forecast months are
// compared; otherwise the last 60 days of history are used.
func ClassifyTrend(history, predictions []float64) domain.Trend {
	var earlier, later []float64
	switch {
	case len(predictions) >= 2*trendWindowDays:
		earlier = window(predictions, 0, trendWindowDays)
		later = window(predictions, trendWindowDays, 2*trendWindowDays)
	case len(history) >= 2*trendWindowDays:
		n := len(history)
		earlier = window(history, n-2*trendWindowDays, n-trendWindowDays)
		later = window(history, n-trendWindowDays, n)
	default:
		return domain.TrendStable
	}

	return compareTrendWindows(sum(earlier), sum(later))
}

func compareTrendWindows(earlier, later float64) domain.Trend {
	switch {
	case later > earlier*trendIncreaseRatio:
		return domain.TrendIncreasing
	case later < earlier*trendDecreaseRatio:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// ClassifySeasonality grades the spread between the strongest and weakest month
func ClassifySeasonality(patterns []domain.SeasonalPattern) domain.Seasonality {
	if len(patterns) == 0 {
		return domain.SeasonalityNone
	}

	lo, hi := patterns[0].SeasonalityFactor, patterns[0].SeasonalityFactor
	for _, p := range patterns[1:] {
		if p.SeasonalityFactor < lo {
			lo = p.SeasonalityFactor
		}
		if p.SeasonalityFactor > hi {
			hi = p.SeasonalityFactor
		}
	}

	switch spread := hi - lo; {
	case spread > 0.5:
		return domain.SeasonalityHigh
	case spread > 0.3:
		return domain.SeasonalityMedium
	case spread > 0.1:
		return domain.SeasonalityLow
	default:
		return domain.SeasonalityNone
	}
}

func overstocked(s *signals) bool {
	return s.demand60 > 0 && float64(s.Optimization.CurrentStock) > s.demand60
}

// peakMonths returns the months with a factor above 1.2, strongest first (max 3)
func peakMonths(patterns []domain.SeasonalPattern) []int {
	peaks := make([]domain.SeasonalPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.SeasonalityFactor > 1.2 {
			peaks = append(peaks, p)
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].SeasonalityFactor > peaks[j].SeasonalityFactor
	})

	months := make([]int, 0, 3)
	for i := 0; i < len(peaks) && i < 3; i++ {
		months = append(months, peaks[i].Month)
	}
	return months
}

func monthList(months []int) string {
	if len(months) == 0 {
		return "peak months"
	}
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = domain.MonthLabel(m)
	}
	return strings.Join(labels, ", ")
}
