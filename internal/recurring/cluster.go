package recurring

import (
	"math"
	"sort"
	"time"

	"github.com/finbeat/finbeat/internal/model"
)

// Default cluster tolerances: two amounts belong to the same cluster when
// they differ by at most 15% of the cluster's reference amount, with a ₪5
// floor so small charges still absorb rounding noise.
const (
	DefaultTolerancePct = 0.15
	DefaultMinTolerance = 5.0
)

// ClusterOptions control how close two amounts must be to share a cluster.
type ClusterOptions struct {
	TolerancePct float64
	MinTolerance float64
}

// Cluster is a mutually amount-consistent subset of one charge group: the
// candidate "true" recurring charge, separated from outliers under the same
// merchant name. Total is the sum of absolute amounts of its members.
type Cluster struct {
	Charges                []model.Candidate
	Mean                   float64
	Total                  float64
	CoefficientOfVariation float64
}

type amountBucket struct {
	charges []model.Candidate
	ref     float64
}

// SelectDominantCluster partitions a group's charges into amount clusters
// with a single greedy pass and returns the dominant one. Every charge lands
// in exactly one cluster. Dominance: most members, then latest member date,
// then highest total. Charges are sorted by amount then date first, so
// identical input produces the same dominant cluster regardless of its
// original ordering. Returns nil for empty input.
func SelectDominantCluster(charges []model.Candidate, opts ClusterOptions) *Cluster {
	if len(charges) == 0 {
		return nil
	}
	if opts.TolerancePct <= 0 {
		opts.TolerancePct = DefaultTolerancePct
	}
	if opts.MinTolerance <= 0 {
		opts.MinTolerance = DefaultMinTolerance
	}

	sorted := make([]model.Candidate, len(charges))
	copy(sorted, charges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Amount != sorted[j].Amount {
			return sorted[i].Amount < sorted[j].Amount
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var buckets []*amountBucket
	for _, c := range sorted {
		placed := false
		for _, b := range buckets {
			tolerance := math.Max(opts.MinTolerance, opts.TolerancePct*math.Abs(b.ref))
			if math.Abs(c.Amount-b.ref) <= tolerance {
				b.charges = append(b.charges, c)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, &amountBucket{
				charges: []model.Candidate{c},
				ref:     c.Amount,
			})
		}
	}

	dominant := buckets[0]
	for _, b := range buckets[1:] {
		if bucketBeats(b, dominant) {
			dominant = b
		}
	}

	return newCluster(dominant.charges)
}

// bucketBeats reports whether a should displace b as the dominant cluster.
func bucketBeats(a, b *amountBucket) bool {
	if len(a.charges) != len(b.charges) {
		return len(a.charges) > len(b.charges)
	}
	aLatest, bLatest := latestDate(a.charges), latestDate(b.charges)
	if !aLatest.Equal(bLatest) {
		return aLatest.After(bLatest)
	}
	return absTotal(a.charges) > absTotal(b.charges)
}

func newCluster(charges []model.Candidate) *Cluster {
	amounts := candidateAmounts(charges)
	mean := meanOf(amounts)

	// CoefficientOfVariation must stay a defined number: 0 when the mean is
	// 0, |mean| in the denominator so expense-sign conventions cannot flip
	// its sign.
	cv := 0.0
	if mean != 0 {
		cv = stdDevOf(amounts) / math.Abs(mean)
	}

	return &Cluster{
		Charges:                charges,
		Mean:                   mean,
		Total:                  absTotal(charges),
		CoefficientOfVariation: cv,
	}
}

func candidateAmounts(charges []model.Candidate) []float64 {
	amounts := make([]float64, len(charges))
	for i, c := range charges {
		amounts[i] = c.Amount
	}
	return amounts
}

func absTotal(charges []model.Candidate) float64 {
	var total float64
	for _, c := range charges {
		total += math.Abs(c.Amount)
	}
	return total
}

func latestDate(charges []model.Candidate) time.Time {
	var latest time.Time
	for _, c := range charges {
		if c.Date.After(latest) {
			latest = c.Date
		}
	}
	return latest
}
