package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestExponentialSmoothing(t *testing.T) {
	assert.Empty(t, ExponentialSmoothing(nil, 0.3))

	got := ExponentialSmoothing([]float64{10, 20, 20}, 0.5)
	assert.InDeltaSlice(t, []float64{10, 15, 17.5}, got, 1e-9)

	// out of range alpha falls back to the default
	assert.Equal(t, ExponentialSmoothing([]float64{1, 2, 3}, DefaultSmoothingAlpha), ExponentialSmoothing([]float64{1, 2, 3}, 7))
}

func TestLinearRegressionFit(t *testing.T) {
	fit := LinearRegressionFit([]float64{1, 3, 5, 7})
	assert.InDelta(t, 2, fit.Slope, 1e-9)
	assert.InDelta(t, 1, fit.Intercept, 1e-9)
	assert.InDelta(t, 9, fit.At(4), 1e-9)

	single := LinearRegressionFit([]float64{4})
	assert.Equal(t, LinearFit{Intercept: 4}, single)

	assert.Equal(t, LinearFit{}, LinearRegressionFit(nil))
}

func TestCalculateModelAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		want      float64
	}{
		{name: "perfect fit is capped", actual: []float64{10, 20}, predicted: []float64{10, 20}, want: MaxConfidence},
		{name: "half error", actual: []float64{10, 10}, predicted: []float64{5, 15}, want: 0.5},
		{name: "all zero actuals", actual: []float64{0, 0}, predicted: []float64{1, 1}, want: MinConfidence},
		{name: "zero actual points skipped", actual: []float64{0, 10}, predicted: []float64{50, 5}, want: 0.5},
		{name: "huge error is floored", actual: []float64{1}, predicted: []float64{100}, want: MinConfidence},
		{name: "only tail overlap compared", actual: []float64{100, 10}, predicted: []float64{10}, want: MaxConfidence},
		{name: "empty", actual: nil, predicted: nil, want: MinConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateModelAccuracy(tt.actual, tt.predicted), 1e-9)
		})
	}
}

func TestBuildDailySeries(t *testing.T) {
	rows := []domain.SalesRow{
		{SaleDate: day(2024, 1, 4), TotalQuantity: 4},
		{SaleDate: day(2024, 1, 1), TotalQuantity: 5},
		{SaleDate: day(2024, 1, 1).Add(15 * time.Hour), TotalQuantity: 3},
		{SaleDate: day(2024, 1, 3), TotalQuantity: -2},
	}

	got := BuildDailySeries(rows)

	require.Len(t, got, 4)
	assert.Equal(t, []float64{8, 0, 0, 4}, Quantities(got))
	assert.Equal(t, day(2024, 1, 1), got[0].Date)
	assert.Equal(t, day(2024, 1, 4), got[3].Date)

	assert.Empty(t, BuildDailySeries(nil))
}

func TestDetectSeasonalPatterns(t *testing.T) {
	var observations []domain.SalesObservation
	for d := day(2024, 1, 1); d.Before(day(2024, 3, 1)); d = d.AddDate(0, 0, 1) {
		qty := 10.0
		if d.Month() == time.February {
			qty = 20
		}
		observations = append(observations, domain.SalesObservation{Date: d, Quantity: qty})
	}

	patterns := DetectSeasonalPatterns(observations)

	require.Len(t, patterns, 2)
	global := (31*10.0 + 29*20.0) / 60
	assert.Equal(t, 1, patterns[0].Month)
	assert.InDelta(t, 10/global, patterns[0].SeasonalityFactor, 1e-9)
	assert.InDelta(t, 10, patterns[0].HistoricalAverage, 1e-9)
	assert.InDelta(t, MaxConfidence, patterns[0].Confidence, 1e-9)
	assert.Equal(t, 2, patterns[1].Month)
	assert.InDelta(t, 20/global, patterns[1].SeasonalityFactor, 1e-9)
}

func TestDetectSeasonalPatternsSkipsZeroMonths(t *testing.T) {
	var observations []domain.SalesObservation
	for d := day(2024, 1, 1); d.Before(day(2024, 3, 1)); d = d.AddDate(0, 0, 1) {
		qty := 10.0
		if d.Month() == time.February {
			qty = 0
		}
		observations = append(observations, domain.SalesObservation{Date: d, Quantity: qty})
	}

	patterns := DetectSeasonalPatterns(observations)

	require.Len(t, patterns, 1)
	assert.Equal(t, 1, patterns[0].Month)
	assert.InDelta(t, 10/(310.0/60), patterns[0].SeasonalityFactor, 1e-9)

	assert.Empty(t, DetectSeasonalPatterns([]domain.SalesObservation{{Date: day(2024, 1, 1)}}))
}

func TestBucketSums(t *testing.T) {
	assert.Equal(t, []float64{3, 7, 5}, bucketSums([]float64{1, 2, 3, 4, 5}, 2))
	assert.Empty(t, bucketSums(nil, 7))
}
