package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/montanaflynn/stats"
)

const (
	// DefaultSmoothingAlpha weights the newest observation in exponential smoothing
	DefaultSmoothingAlpha = 0.3

	// MinConfidence and MaxConfidence bound every confidence and accuracy score
	MinConfidence = 0.1
	MaxConfidence = 0.95
)

// LinearFit is an ordinary least squares line over (index, value) pairs
type LinearFit struct {
	Slope     float64
	Intercept float64
}

// At evaluates the fitted line at index x
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// ExponentialSmoothing returns the smoothed series with smoothed[0] = series[0].
// Alpha outside (0, 1] falls back to DefaultSmoothingAlpha.
func ExponentialSmoothing(series []float64, alpha float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}

	smoothed := make([]float64, len(series))
	smoothed[0] = series[0]
	for i := 1; i < len(series); i++ {
		smoothed[i] = alpha*series[i] + (1-alpha)*smoothed[i-1]
	}

	return smoothed
}

// LinearRegressionFit fits value = intercept + slope*index by OLS.
// A single point (or an empty series) yields a flat line through its mean.
func LinearRegressionFit(values []float64) LinearFit {
	if len(values) == 0 {
		return LinearFit{}
	}

	xs := make(stats.Float64Data, len(values))
	for i := range values {
		xs[i] = float64(i)
	}
	ys := stats.Float64Data(values)

	meanX, _ := stats.Mean(xs)
	meanY, _ := stats.Mean(ys)

	varX, err := stats.PopulationVariance(xs)
	if err != nil || varX == 0 {
		return LinearFit{Intercept: meanY}
	}

	cov, err := stats.CovariancePopulation(xs, ys)
	if err != nil {
		return LinearFit{Intercept: meanY}
	}

	slope := cov / varX
	return LinearFit{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
	}
}

// DetectSeasonalPatterns groups observations by calendar month across every year
// present and compares each month's average daily demand to the global average.
// Months without observations, or whose observations sum to zero, are omitted.
func DetectSeasonalPatterns(observations []domain.SalesObservation) []domain.SeasonalPattern {
	if len(observations) == 0 {
		return []domain.SeasonalPattern{}
	}

	var byMonth [12]stats.Float64Data
	all := make(stats.Float64Data, 0, len(observations))
	for _, obs := range observations {
		m := int(obs.Date.Month()) - 1
		byMonth[m] = append(byMonth[m], obs.Quantity)
		all = append(all, obs.Quantity)
	}

	globalAvg, err := stats.Mean(all)
	if err != nil || globalAvg <= 0 {
		return []domain.SeasonalPattern{}
	}

	patterns := make([]domain.SeasonalPattern, 0, 12)
	for m, samples := range byMonth {
		if len(samples) == 0 {
			continue
		}

		total, _ := stats.Sum(samples)
		if total <= 0 {
			continue
		}

		avg, _ := stats.Mean(samples)
		stddev, _ := stats.StandardDeviationPopulation(samples)

		patterns = append(patterns, domain.SeasonalPattern{
			Month:             m + 1,
			SeasonalityFactor: avg / globalAvg,
			HistoricalAverage: avg,
			Confidence:        clamp(1-stddev/avg, MinConfidence, MaxConfidence),
		})
	}

	return patterns
}

// CalculateModelAccuracy returns 1 - MAPE clamped to [MinConfidence, MaxConfidence].
// Only the overlapping tail of both slices is compared. Points whose actual value
// is zero carry no percentage error and are skipped.
func CalculateModelAccuracy(actual, predicted []float64) float64 {
	n := len(actual)
	if len(predicted) < n {
		n = len(predicted)
	}
	if n == 0 {
		return MinConfidence
	}

	actual = actual[len(actual)-n:]
	predicted = predicted[len(predicted)-n:]

	total, _ := stats.Sum(actual)
	if total == 0 {
		return MinConfidence
	}

	var sumErr float64
	var count int
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		sumErr += math.Abs((actual[i] - predicted[i]) / actual[i])
		count++
	}
	if count == 0 {
		return MinConfidence
	}

	return clamp(1-sumErr/float64(count), MinConfidence, MaxConfidence)
}

// BuildDailySeries turns raw sales rows into one observation per calendar day.
// Rows are sorted by date, same-day rows are summed and days without a sale
// between the first and last sale are filled with zero demand.
func BuildDailySeries(rows []domain.SalesRow) []domain.SalesObservation {
	if len(rows) == 0 {
		return []domain.SalesObservation{}
	}

	daily := make(map[time.Time]float64, len(rows))
	for _, row := range rows {
		day := truncateDay(row.SaleDate)
		if _, ok := daily[day]; !ok {
			daily[day] = 0
		}
		// negative quantities are returns, not demand
		if row.TotalQuantity > 0 {
			daily[day] += float64(row.TotalQuantity)
		}
	}

	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	first, last := days[0], days[len(days)-1]
	observations := make([]domain.SalesObservation, 0, len(days))
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		observations = append(observations, domain.SalesObservation{Date: day, Quantity: daily[day]})
	}

	return observations
}

// Quantities extracts the demand values of a series in order
func Quantities(observations []domain.SalesObservation) []float64 {
	values := make([]float64, len(observations))
	for i, obs := range observations {
		values[i] = obs.Quantity
	}
	return values
}
