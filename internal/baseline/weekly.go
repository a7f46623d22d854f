// Package baseline computes weekly spending-shape statistics for a category:
// is its weekly cost near-constant (stable), concentrated in a handful of
// weeks (sporadic), or somewhere in between. Quest and budget logic downstream
// uses the flags to pick sensible savings targets.
package baseline

import (
	"math"
	"sort"

	"github.com/finbeat/finbeat/internal/model"
)

// Classification thresholds.
const (
	// stableSpreadMax is the largest median-relative spread a stable
	// category may show.
	stableSpreadMax = 0.25
	// stableSpendShare is the fraction of weeks that must carry spend for a
	// category to be stable.
	stableSpendShare = 0.75
	// sporadicSpendShare is the largest fraction of spend weeks a sporadic
	// category may have.
	sporadicSpendShare = 0.25
	// dominantWeekShare marks a series sporadic when a single week carries
	// this share of the total and spend reaches at most half the weeks.
	dominantWeekShare = 0.5
)

// Compute summarizes an ordered series of per-week totals, zero for weeks
// without spend, oldest first. Every numeric edge case (empty series, zero
// median, zero mean) resolves to 0, never NaN or Inf, because consumers do
// further arithmetic on these values without re-validating.
func Compute(weeklyTotals []float64) model.WeeklyBaselineStats {
	stats := model.WeeklyBaselineStats{}
	weeks := len(weeklyTotals)
	if weeks == 0 {
		return stats
	}

	var total, largest float64
	for _, w := range weeklyTotals {
		total += w
		if w > largest {
			largest = w
		}
		if w != 0 {
			stats.WeeksWithSpend++
		}
	}

	stats.Mean = total / float64(weeks)
	stats.StdDev = stdDev(weeklyTotals, stats.Mean)
	stats.BaselineWeeklyMedian = median(weeklyTotals)
	if stats.BaselineWeeklyMedian > 0 {
		stats.MedianRelativeSpread = stats.StdDev / stats.BaselineWeeklyMedian
	}

	spendShare := float64(stats.WeeksWithSpend) / float64(weeks)
	stats.IsStable = stats.WeeksWithSpend > 0 &&
		spendShare >= stableSpendShare &&
		stats.MedianRelativeSpread <= stableSpreadMax

	dominated := total > 0 && largest/total >= dominantWeekShare && spendShare <= 0.5
	stats.IsSporadic = stats.WeeksWithSpend > 0 &&
		(spendShare <= sporadicSpendShare || dominated)

	return stats
}

// stdDev is the population standard deviation around a precomputed mean.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
