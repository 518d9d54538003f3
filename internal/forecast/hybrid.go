package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
)

const (
	// MinObservations is the shortest daily series the hybrid model extrapolates from
	MinObservations = 7

	// TrendDamping scales the trailing weekly trend per future step
	TrendDamping = 0.1

	// AccuracyWindow is the number of trailing points used to score each model
	AccuracyWindow = 30

	// SeasonalConfidenceThreshold is the minimum pattern confidence for a seasonal adjustment
	SeasonalConfidenceThreshold = 0.3

	trendLookback = 7
	blendEpsilon  = 1e-9
)

const (
	ModelNameHybrid           = "Hybrid (Linear + Exponential Smoothing)"
	ModelNameHybridSeasonal   = "Hybrid (Linear + Exponential Smoothing + Seasonal)"
	ModelNameInsufficientData = "Insufficient Data"
)

// HybridResult is the output of a single hybrid forecast run
type HybridResult struct {
	Predictions         []float64
	Confidence          float64
	Model               domain.ForecastingModel
	LinearAccuracy      float64
	ExponentialAccuracy float64
	LinearWeight        float64
}

// HybridForecaster blends a linear trend and a damped exponential smoother,
// weighted by each model's recent in-sample accuracy, then applies monthly
// seasonality factors.
type HybridForecaster struct {
	alpha float64
}

// NewHybridForecaster creates a forecaster using the given smoothing alpha
func NewHybridForecaster(alpha float64) *HybridForecaster {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}
	return &HybridForecaster{alpha: alpha}
}

// Forecast predicts horizonDays of daily demand. Day i of the result falls on
// start + i days. Series shorter than MinObservations produce an all-zero
// forecast with minimum confidence.
func (f *HybridForecaster) Forecast(series []float64, patterns []domain.SeasonalPattern, start time.Time, horizonDays int) HybridResult {
	if horizonDays < 0 {
		horizonDays = 0
	}

	if len(series) < MinObservations {
		return HybridResult{
			Predictions: make([]float64, horizonDays),
			Confidence:  MinConfidence,
			Model: domain.ForecastingModel{
				Name:       ModelNameInsufficientData,
				Algorithm:  domain.AlgorithmLinear,
				Accuracy:   MinConfidence,
				Confidence: MinConfidence,
			},
			LinearAccuracy:      MinConfidence,
			ExponentialAccuracy: MinConfidence,
		}
	}

	n := len(series)

	// 1. Linear trend
	fit := LinearRegressionFit(series)
	linear := make([]float64, horizonDays)
	for i := range linear {
		linear[i] = math.Max(0, fit.At(float64(n+i)))
	}

	// 2. Damped exponential smoothing
	smoothed := ExponentialSmoothing(series, f.alpha)
	last := smoothed[n-1]
	trend := last - smoothed[maxInt(0, n-1-trendLookback)]
	exponential := make([]float64, horizonDays)
	for i := range exponential {
		exponential[i] = math.Max(0, last+trend*TrendDamping*float64(i+1))
	}

	// 3. In-sample accuracy over the trailing window
	w := minInt(AccuracyWindow, n)
	actual := series[n-w:]
	linearFitted := make([]float64, w)
	for i := range linearFitted {
		linearFitted[i] = fit.At(float64(n - w + i))
	}
	linearAcc := CalculateModelAccuracy(actual, linearFitted)
	expAcc := CalculateModelAccuracy(actual, smoothed[n-w:])

	// 4. Accuracy-weighted blend
	linearWeight := linearAcc / (linearAcc + expAcc + blendEpsilon)
	expWeight := 1 - linearWeight

	// 5. Seasonal adjustment
	factors := seasonalFactors(patterns)
	seasonal := false
	predictions := make([]float64, horizonDays)
	for i := range predictions {
		value := linear[i]*linearWeight + exponential[i]*expWeight
		month := start.AddDate(0, 0, i).Month()
		if factor, ok := factors[month]; ok {
			value *= factor
			seasonal = true
		}
		predictions[i] = roundFloat(math.Max(0, value), 2)
	}

	// 6. Confidence
	confidence := clamp((linearAcc+expAcc)/2, MinConfidence, MaxConfidence)

	name := ModelNameHybrid
	if seasonal {
		name = ModelNameHybridSeasonal
	}

	return HybridResult{
		Predictions: predictions,
		Confidence:  confidence,
		Model: domain.ForecastingModel{
			Name:       name,
			Algorithm:  domain.AlgorithmHybrid,
			Accuracy:   roundFloat(confidence, 4),
			Confidence: confidence,
		},
		LinearAccuracy:      linearAcc,
		ExponentialAccuracy: expAcc,
		LinearWeight:        linearWeight,
	}
}

// seasonalFactors keeps the factors of patterns confident enough to apply
func seasonalFactors(patterns []domain.SeasonalPattern) map[time.Month]float64 {
	factors := make(map[time.Month]float64, len(patterns))
	for _, p := range patterns {
		if p.Confidence > SeasonalConfidenceThreshold {
			factors[time.Month(p.Month)] = p.SeasonalityFactor
		}
	}
	return factors
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
