package recurring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/finbeat/finbeat/internal/model"
	"github.com/finbeat/finbeat/internal/service"
)

// fixedAmountCV is the coefficient-of-variation ceiling under which a
// pattern's amount counts as fixed.
const fixedAmountCV = 0.05

// Options configure detection. Zero-valued threshold fields fall back to
// DefaultOptions, so callers can override selectively.
type Options struct {
	// IsExcluded, when set, drops charges flagged by the external
	// account-pairing reconciler before grouping. Only meaningful on the
	// pre-fetched path; the store path filters in the query instead.
	IsExcluded func(model.RawCharge) bool

	// Cluster tolerances (see ClusterOptions).
	TolerancePct float64
	MinTolerance float64

	// MinOccurrences is the fewest occurrences a pattern needs. It also
	// decides when the dominant cluster is too small to trust, triggering
	// the whole-group stats fallback. 1 is valid: a single occurrence then
	// passes with neutral consistency and zero stddev.
	MinOccurrences int
	// MinConsistency is the lowest acceptable consistency score.
	MinConsistency float64
	// MinAmount applies to fixed-amount patterns.
	MinAmount float64
	// MinVariableAmount applies to variable-amount patterns.
	MinVariableAmount float64

	// SeparateSameDay disables the default same-day aggregation.
	SeparateSameDay bool
	// ExcludeCreditCardRepayments drops repayment-tagged charges on the
	// pre-fetched path.
	ExcludeCreditCardRepayments bool
}

// DefaultOptions returns the thresholds used when Options fields are zero.
func DefaultOptions() Options {
	return Options{
		TolerancePct:      DefaultTolerancePct,
		MinTolerance:      DefaultMinTolerance,
		MinOccurrences:    3,
		MinConsistency:    0.4,
		MinAmount:         5,
		MinVariableAmount: 100,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.TolerancePct <= 0 {
		o.TolerancePct = defaults.TolerancePct
	}
	if o.MinTolerance <= 0 {
		o.MinTolerance = defaults.MinTolerance
	}
	if o.MinOccurrences <= 0 {
		o.MinOccurrences = defaults.MinOccurrences
	}
	if o.MinConsistency <= 0 {
		o.MinConsistency = defaults.MinConsistency
	}
	if o.MinAmount <= 0 {
		o.MinAmount = defaults.MinAmount
	}
	if o.MinVariableAmount <= 0 {
		o.MinVariableAmount = defaults.MinVariableAmount
	}
	return o
}

// Meta counts candidates dropped by each filter, so exclusions stay
// observable instead of vanishing silently.
type Meta struct {
	ExcludedOccurrences int `json:"excluded_occurrences"`
	ExcludedConsistency int `json:"excluded_consistency"`
	ExcludedAmount      int `json:"excluded_amount"`
}

// Result is the output of one detection run.
type Result struct {
	Patterns []model.RecurringPattern `json:"patterns"`
	Meta     Meta                     `json:"meta"`
}

// FetchOptions describe the charge fetch performed by DetectFromStore.
type FetchOptions struct {
	MonthsBack                  int
	ExcludePairingExclusions    bool
	ExcludeCreditCardRepayments bool
}

// Detect runs recurring-pattern detection over a pre-fetched charge
// snapshot. Empty input yields an empty pattern list, never an error. The
// result is sorted by total spent descending (pattern key breaks ties so
// output order is reproducible).
func Detect(charges []model.RawCharge, opts Options) Result {
	opts = opts.withDefaults()

	groups := Group(charges, GroupOptions{
		IsExcluded:                  opts.IsExcluded,
		ExcludeCreditCardRepayments: opts.ExcludeCreditCardRepayments,
		SeparateSameDay:             opts.SeparateSameDay,
	})

	result := Result{Patterns: []model.RecurringPattern{}}
	for _, group := range groups {
		if pattern, ok := assemble(group, opts, &result.Meta); ok {
			result.Patterns = append(result.Patterns, pattern)
		}
	}

	sort.Slice(result.Patterns, func(i, j int) bool {
		a, b := result.Patterns[i], result.Patterns[j]
		if a.TotalSpent != b.TotalSpent {
			return a.TotalSpent > b.TotalSpent
		}
		return a.PatternKey < b.PatternKey
	})

	return result
}

// DetectFromStore fetches a charge snapshot through the injected store and
// runs detection over it. Store failures propagate to the caller; only
// malformed-record handling is local and silent.
func DetectFromStore(ctx context.Context, store service.ChargeStore, fetch FetchOptions, opts Options) (Result, error) {
	charges, err := store.ListCharges(ctx, service.ChargeFilter{
		MonthsBack:                  fetch.MonthsBack,
		ExcludePairingExclusions:    fetch.ExcludePairingExclusions,
		ExcludeCreditCardRepayments: fetch.ExcludeCreditCardRepayments,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to list charges: %w", err)
	}
	return Detect(charges, opts), nil
}

// assemble builds one group's pattern and applies the filters, incrementing
// exactly one meta counter when the group is excluded.
func assemble(group ChargeGroup, opts Options, meta *Meta) (model.RecurringPattern, bool) {
	cluster := SelectDominantCluster(group.Charges, ClusterOptions{
		TolerancePct: opts.TolerancePct,
		MinTolerance: opts.MinTolerance,
	})
	if cluster == nil {
		return model.RecurringPattern{}, false
	}

	contributing := cluster.Charges
	mean := cluster.Mean
	total := cluster.Total
	cv := cluster.CoefficientOfVariation
	if len(contributing) < opts.MinOccurrences {
		// The dominant cluster is too thin to trust; score the whole group.
		contributing = group.Charges
		mean = meanOf(candidateAmounts(contributing))
		total = absTotal(contributing)
		cv = 0
		if mean != 0 {
			cv = stdDevOf(candidateAmounts(contributing)) / math.Abs(mean)
		}
	}

	frequency, consistency := AnalyzeIntervals(candidateDates(contributing))

	pattern := model.RecurringPattern{
		PatternKey:        group.Key,
		DisplayName:       majorityName(contributing),
		DetectedFrequency: frequency,
		DetectedAmount:    round2(math.Abs(mean)),
		AmountIsFixed:     cv < fixedAmountCV,
		ConsistencyScore:  consistency,
		OccurrenceCount:   len(contributing),
		TotalSpent:        round2(total),
		AmountStdDev:      round2(stdDevOf(candidateAmounts(contributing))),
	}
	pattern.CategoryDefinitionID, pattern.CategoryName = majorityCategory(contributing)

	switch {
	case pattern.OccurrenceCount < opts.MinOccurrences:
		meta.ExcludedOccurrences++
	case pattern.ConsistencyScore < opts.MinConsistency:
		meta.ExcludedConsistency++
	case pattern.DetectedAmount < amountFloor(pattern, opts):
		meta.ExcludedAmount++
	default:
		return pattern, true
	}
	return model.RecurringPattern{}, false
}

func amountFloor(pattern model.RecurringPattern, opts Options) float64 {
	if pattern.AmountIsFixed {
		return opts.MinAmount
	}
	return opts.MinVariableAmount
}

func candidateDates(charges []model.Candidate) []time.Time {
	dates := make([]time.Time, len(charges))
	for i, c := range charges {
		dates[i] = c.Date
	}
	return dates
}

// majorityName picks the display name by majority vote over literal charge
// names; ties go to the first-seen name.
func majorityName(charges []model.Candidate) string {
	counts := make(map[string]int, len(charges))
	var order []string
	for _, c := range charges {
		if counts[c.DisplayName] == 0 {
			order = append(order, c.DisplayName)
		}
		counts[c.DisplayName]++
	}

	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}

// majorityCategory picks the category by majority vote over charges that
// carry one; ties go to the first-seen category. Returns nil and "" when no
// charge has category info.
func majorityCategory(charges []model.Candidate) (*int64, string) {
	type vote struct {
		id    *int64
		name  string
		count int
	}

	votes := make(map[string]*vote)
	var order []string
	for _, c := range charges {
		if c.CategoryID == nil && c.CategoryName == "" {
			continue
		}
		key := c.CategoryName
		if c.CategoryID != nil {
			key = fmt.Sprintf("%d|%s", *c.CategoryID, c.CategoryName)
		}
		if votes[key] == nil {
			votes[key] = &vote{id: c.CategoryID, name: c.CategoryName}
			order = append(order, key)
		}
		votes[key].count++
	}

	var best *vote
	for _, key := range order {
		if best == nil || votes[key].count > best.count {
			best = votes[key]
		}
	}
	if best == nil {
		return nil, ""
	}
	return best.id, best.name
}
