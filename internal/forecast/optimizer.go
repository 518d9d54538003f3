package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
)

const (
	// DefaultLeadTimeDays is the assumed constant replenishment lead time
	DefaultLeadTimeDays = 7

	// ReorderCoverDays is the demand horizon a single reorder should cover
	ReorderCoverDays = 60

	// DemandWindowDays is the forecast window averaged into daily demand
	DemandWindowDays = 30

	// NoStockoutDays stands in for "never runs out within the horizon"
	NoStockoutDays = 999

	highRiskDays   = 14
	mediumRiskDays = 30
)

// InventoryOptimizer turns a daily demand forecast into reorder parameters
type InventoryOptimizer struct {
	leadTimeDays int
}

// NewInventoryOptimizer creates a new optimizer. A non-positive lead time falls
// back to DefaultLeadTimeDays.
func NewInventoryOptimizer(leadTimeDays int) *InventoryOptimizer {
	if leadTimeDays <= 0 {
		leadTimeDays = DefaultLeadTimeDays
	}
	return &InventoryOptimizer{leadTimeDays: leadTimeDays}
}

// SafetyStockDays returns the buffer in days for a forecast confidence.
// Lower confidence holds a larger buffer.
func SafetyStockDays(confidence float64) int {
	switch {
	case confidence < 0.5:
		return 14
	case confidence < 0.7:
		return 10
	default:
		return 7
	}
}

// ClassifyStockoutRisk buckets days until stockout into a risk level
func ClassifyStockoutRisk(daysUntilStockout int) domain.StockoutRisk {
	switch {
	case daysUntilStockout < highRiskDays:
		return domain.StockoutRiskHigh
	case daysUntilStockout < mediumRiskDays:
		return domain.StockoutRiskMedium
	default:
		return domain.StockoutRiskLow
	}
}

// Optimize computes reorder parameters for the given forecast. predictions[i]
// is the demand expected on start + i days.
func (o *InventoryOptimizer) Optimize(predictions []float64, currentStock int, confidence float64, start time.Time) domain.InventoryOptimization {
	result := domain.InventoryOptimization{CurrentStock: currentStock}

	// 1. Average daily demand over the first month of the horizon
	avgDailyDemand := mean(window(predictions, 0, DemandWindowDays))
	result.AverageDailyDemand = roundFloat(avgDailyDemand, 2)

	// 2. Safety stock days from forecast confidence
	result.SafetyStockDays = SafetyStockDays(confidence)

	// 3. Reorder point = daily demand × (lead time + safety stock days)
	reorderPoint := avgDailyDemand * float64(o.leadTimeDays+result.SafetyStockDays)
	result.RecommendedReorderPoint = int(math.Ceil(math.Max(0, reorderPoint)))

	// 4. Reorder quantity covers two months of demand
	reorderQty := avgDailyDemand * ReorderCoverDays
	result.RecommendedReorderQuantity = int(math.Ceil(math.Max(0, reorderQty)))

	// 5. Simulate depletion day by day
	result.DaysUntilStockout = NoStockoutDays
	runningStock := float64(currentStock)
	for i, demand := range predictions {
		runningStock -= demand
		if runningStock <= 0 {
			depleted := start.AddDate(0, 0, i)
			result.ExpectedDepleteDate = &depleted
			result.DaysUntilStockout = i + 1
			break
		}
	}

	// 6. Stockout risk
	result.StockoutRisk = ClassifyStockoutRisk(result.DaysUntilStockout)

	return result
}
