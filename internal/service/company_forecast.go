package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// rankedHighlightLimit bounds the ranked risk/opportunity candidates
	rankedHighlightLimit = 10
	// presentedHighlightLimit is how many of them a summary exposes
	presentedHighlightLimit = 5
	seasonalInsightLimit    = 5
)

// GenerateCompanyForecastSummary forecasts up to MaxProducts SKUs of the company,
// ranked by current stock, and reduces them to a summary. It always returns a
// well-formed summary: products that fail are left out, and a failure to list
// the company's inventory yields an empty summary.
func (s *ForecastService) GenerateCompanyForecastSummary(ctx context.Context, companyID string) domain.CompanyForecastSummary {
	started := time.Now()
	now := s.now()

	items, err := s.inventory.GetCurrentInventory(ctx, companyID)
	if err != nil {
		log.Warn().Err(err).Str("company_id", companyID).Msg("forecast: company summary degraded, inventory unavailable")
		return domain.EmptyCompanyForecastSummary(companyID, now)
	}

	selected := selectProducts(items, s.cfg.MaxProducts)
	forecasts := s.forecastProducts(ctx, companyID, selected, now)

	log.Info().
		Str("company_id", companyID).
		Int("selected", len(selected)).
		Int("forecasted", len(forecasts)).
		Dur("elapsed", time.Since(started)).
		Msg("forecast: company summary computed")

	return summarize(companyID, forecasts, now)
}

// selectProducts keeps the limit SKUs with the most stock on hand. Ties break on
// SKU so the selection does not depend on the order the store returned.
func selectProducts(items []domain.InventoryItem, limit int) []domain.InventoryItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.SKU == "" {
			continue
		}
		if _, ok := seen[item.SKU]; ok {
			continue
		}
		seen[item.SKU] = struct{}{}
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].InventoryQuantity != unique[j].InventoryQuantity {
			return unique[i].InventoryQuantity > unique[j].InventoryQuantity
		}
		return unique[i].SKU < unique[j].SKU
	})

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// forecastProducts runs the per-SKU forecast over a bounded worker pool. The
// result keeps the order of items and skips SKUs that could not be forecast.
func (s *ForecastService) forecastProducts(ctx context.Context, companyID string, items []domain.InventoryItem, now time.Time) []*domain.EnhancedForecast {
	results := make([]*domain.EnhancedForecast, len(items))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			f, err := s.safeForecastItem(ctx, companyID, item, now)
			if err != nil {
				logForecastError(err, companyID, item.SKU)
				return nil
			}
			results[i] = f
			return nil
		})
	}
	_ = g.Wait()

	forecasts := make([]*domain.EnhancedForecast, 0, len(results))
	for _, f := range results {
		if f != nil {
			forecasts = append(forecasts, f)
		}
	}
	return forecasts
}

// safeForecastItem turns a panic inside one SKU's forecast into an error
func (s *ForecastService) safeForecastItem(ctx context.Context, companyID string, item domain.InventoryItem, now time.Time) (f *domain.EnhancedForecast, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("forecast panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.forecastItem(ctx, companyID, item, s.cfg.DefaultDays, now)
}

func summarize(companyID string, forecasts []*domain.EnhancedForecast, now time.Time) domain.CompanyForecastSummary {
	summary := domain.EmptyCompanyForecastSummary(companyID, now)
	if len(forecasts) == 0 {
		return summary
	}

	summary.TotalProducts = len(forecasts)

	var confidence float64
	var increasing, decreasing int
	for _, f := range forecasts {
		confidence += f.Confidence
		switch f.BusinessInsights.Trend {
		case domain.TrendIncreasing:
			increasing++
		case domain.TrendDecreasing:
			decreasing++
		}
	}
	summary.ForecastAccuracy = confidence / float64(len(forecasts))

	switch {
	case increasing > decreasing:
		summary.OverallTrend = domain.OverallTrendGrowth
	case decreasing > increasing:
		summary.OverallTrend = domain.OverallTrendDecline
	default:
		summary.OverallTrend = domain.OverallTrendStable
	}

	summary.TopRisks = present(rankRisks(forecasts))
	summary.TopOpportunities = present(rankOpportunities(forecasts))
	summary.SeasonalInsights = seasonalInsights(forecasts)

	return summary
}

// rankRisks keeps forecasts with a high stockout risk or any risk factor,
// most urgent first.
func rankRisks(forecasts []*domain.EnhancedForecast) []domain.ForecastHighlight {
	candidates := make([]*domain.EnhancedForecast, 0, len(forecasts))
	for _, f := range forecasts {
		if f.InventoryOptimization.StockoutRisk == domain.StockoutRiskHigh || len(f.BusinessInsights.RiskFactors) > 0 {
			candidates = append(candidates, f)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if sa, sb := a.InventoryOptimization.StockoutRisk.Severity(), b.InventoryOptimization.StockoutRisk.Severity(); sa != sb {
			return sa > sb
		}
		if da, db := a.InventoryOptimization.DaysUntilStockout, b.InventoryOptimization.DaysUntilStockout; da != db {
			return da < db
		}
		if ra, rb := len(a.BusinessInsights.RiskFactors), len(b.BusinessInsights.RiskFactors); ra != rb {
			return ra > rb
		}
		return a.SKU < b.SKU
	})

	return highlights(candidates, func(f *domain.EnhancedForecast) []string { return f.BusinessInsights.RiskFactors })
}

// rankOpportunities keeps forecasts with any opportunity, growing and
// higher-demand SKUs first.
func rankOpportunities(forecasts []*domain.EnhancedForecast) []domain.ForecastHighlight {
	candidates := make([]*domain.EnhancedForecast, 0, len(forecasts))
	for _, f := range forecasts {
		if len(f.BusinessInsights.Opportunities) > 0 {
			candidates = append(candidates, f)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		ga, gb := a.BusinessInsights.Trend == domain.TrendIncreasing, b.BusinessInsights.Trend == domain.TrendIncreasing
		if ga != gb {
			return ga
		}
		if da, db := a.InventoryOptimization.AverageDailyDemand, b.InventoryOptimization.AverageDailyDemand; da != db {
			return da > db
		}
		if oa, ob := len(a.BusinessInsights.Opportunities), len(b.BusinessInsights.Opportunities); oa != ob {
			return oa > ob
		}
		return a.SKU < b.SKU
	})

	return highlights(candidates, func(f *domain.EnhancedForecast) []string { return f.BusinessInsights.Opportunities })
}

func highlights(ranked []*domain.EnhancedForecast, messages func(*domain.EnhancedForecast) []string) []domain.ForecastHighlight {
	if len(ranked) > rankedHighlightLimit {
		ranked = ranked[:rankedHighlightLimit]
	}

	out := make([]domain.ForecastHighlight, 0, len(ranked))
	for _, f := range ranked {
		out = append(out, domain.ForecastHighlight{
			SKU:               f.SKU,
			ProductTitle:      f.ProductTitle,
			StockoutRisk:      f.InventoryOptimization.StockoutRisk,
			Trend:             f.BusinessInsights.Trend,
			DaysUntilStockout: f.InventoryOptimization.DaysUntilStockout,
			Messages:          append([]string(nil), messages(f)...),
		})
	}
	return out
}

func present(ranked []domain.ForecastHighlight) []domain.ForecastHighlight {
	if len(ranked) > presentedHighlightLimit {
		return ranked[:presentedHighlightLimit]
	}
	return ranked
}

func seasonalInsights(forecasts []*domain.EnhancedForecast) []string {
	var high, medium int
	peakCounts := make(map[int]int)
	seasonal := make([]*domain.EnhancedForecast, 0)
	for _, f := range forecasts {
		switch f.BusinessInsights.Seasonality {
		case domain.SeasonalityHigh:
			high++
			seasonal = append(seasonal, f)
		case domain.SeasonalityMedium:
			medium++
			seasonal = append(seasonal, f)
		default:
			continue
		}
		if peak, ok := peakMonth(f.SeasonalPatterns); ok {
			peakCounts[peak]++
		}
	}

	insights := make([]string, 0, seasonalInsightLimit)
	if high+medium == 0 {
		return insights
	}

	insights = append(insights, fmt.Sprintf("%d of %d products show seasonal demand (%d high, %d medium)",
		high+medium, len(forecasts), high, medium))

	if month, count := busiestMonth(peakCounts); count > 0 {
		insights = append(insights, fmt.Sprintf("%s is the most common peak month (%d products)", domain.MonthLabel(month), count))
	}

	sort.SliceStable(seasonal, func(i, j int) bool { return seasonal[i].SKU < seasonal[j].SKU })
	for _, f := range seasonal {
		if len(insights) >= seasonalInsightLimit {
			break
		}
		peak, ok := peakMonth(f.SeasonalPatterns)
		if !ok {
			continue
		}
		name := f.SKU
		if title := strings.TrimSpace(f.ProductTitle); title != "" {
			name = fmt.Sprintf("%s (%s)", title, f.SKU)
		}
		insights = append(insights, fmt.Sprintf("%s demand peaks in %s", name, domain.MonthLabel(peak)))
	}

	return insights
}

func peakMonth(patterns []domain.SeasonalPattern) (int, bool) {
	if len(patterns) == 0 {
		return 0, false
	}
	best := patterns[0]
	for _, p := range patterns[1:] {
		if p.SeasonalityFactor > best.SeasonalityFactor {
			best = p
		}
	}
	return best.Month, true
}

func busiestMonth(counts map[int]int) (int, int) {
	month, count := 0, 0
	for m := 1; m <= 12; m++ {
		if counts[m] > count {
			month, count = m, counts[m]
		}
	}
	return month, count
}
