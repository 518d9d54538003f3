package forecast

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// truncateDay keeps the calendar date of t (in its own location) as midnight UTC.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// window returns values[from:to] with both bounds clipped to the slice.
func window(values []float64, from, to int) []float64 {
	if from < 0 {
		from = 0
	}
	if to > len(values) {
		to = len(values)
	}
	if from >= to {
		return nil
	}
	return values[from:to]
}

func sum(values []float64) float64 {
	total, _ := stats.Sum(values)
	return total
}

// mean returns 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, _ := stats.Mean(values)
	return m
}

// bucketSums sums consecutive chunks of size days; the trailing chunk may be shorter.
func bucketSums(values []float64, size int) []float64 {
	if size <= 0 {
		return []float64{}
	}

	buckets := make([]float64, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		buckets = append(buckets, roundFloat(sum(window(values, start, start+size)), 2))
	}
	return buckets
}
