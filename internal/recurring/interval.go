package recurring

import (
	"math"
	"sort"
	"time"

	"github.com/finbeat/finbeat/internal/model"
)

// frequencyBucket maps a day-gap range onto a named cadence. The ranges allow
// for normal billing jitter (weekends, month lengths, bank processing lag).
type frequencyBucket struct {
	freq model.Frequency
	min  float64
	max  float64
}

var frequencyBuckets = []frequencyBucket{
	{model.FrequencyWeekly, 5, 9},
	{model.FrequencyBiweekly, 12, 16},
	{model.FrequencyMonthly, 27, 34},
	{model.FrequencyBimonthly, 55, 67},
	{model.FrequencyQuarterly, 85, 95},
	{model.FrequencyYearly, 355, 375},
}

// AnalyzeIntervals classifies the cadence of a set of charge dates and scores
// how regular the gaps between them are. The score is in [0,1]: perfectly
// uniform gaps score 1, and it decays monotonically as gap dispersion grows.
// Fewer than two dates means there are no gaps: cadence is undecidable
// (variable) and consistency is neutral/maximal.
func AnalyzeIntervals(dates []time.Time) (model.Frequency, float64) {
	if len(dates) < 2 {
		return model.FrequencyVariable, 1.0
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Sub(sorted[i-1]).Hours()/24)
	}

	return classifyGap(medianOf(gaps)), consistencyScore(gaps)
}

// classifyGap matches a representative gap against the named buckets.
// Anything not close to a bucket is variable.
func classifyGap(gap float64) model.Frequency {
	for _, b := range frequencyBuckets {
		if gap >= b.min && gap <= b.max {
			return b.freq
		}
	}
	return model.FrequencyVariable
}

// consistencyScore is 1 minus the coefficient of variation of the gaps,
// clamped to [0,1]. All-equal gaps give exactly 1; one short gap next to a
// multi-month gap drives the CV past 0.7 and the score well under 0.3.
func consistencyScore(gaps []float64) float64 {
	mean := meanOf(gaps)
	if mean == 0 {
		// All gaps zero: degenerate but perfectly uniform.
		return 1
	}
	score := 1 - stdDevOf(gaps)/mean
	return math.Max(0, math.Min(1, score))
}
