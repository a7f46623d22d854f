package recurring

import (
	"sort"
	"time"

	"github.com/finbeat/finbeat/internal/model"
)

// GroupOptions control candidate validation and bucketing.
type GroupOptions struct {
	// IsExcluded, when set, drops charges flagged by an external mechanism
	// (the account-pairing reconciler) before any grouping happens.
	IsExcluded func(model.RawCharge) bool
	// ExcludeCreditCardRepayments drops charges whose category type marks
	// them as credit card repayments.
	ExcludeCreditCardRepayments bool
	// SeparateSameDay treats every charge as a distinct occurrence. By
	// default, same-key charges on the same calendar date are summed into a
	// single occurrence so split payments do not inflate frequency.
	SeparateSameDay bool
}

// ChargeGroup holds all candidates sharing one pattern key.
type ChargeGroup struct {
	Key     string
	Charges []model.Candidate
}

// chargeDateLayouts are the date formats the store is known to emit.
var chargeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseChargeDate(s string) (time.Time, bool) {
	for _, layout := range chargeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// chargeAmount resolves the amount|price precedence.
func chargeAmount(raw model.RawCharge) (float64, bool) {
	if raw.Amount != nil {
		return *raw.Amount, true
	}
	if raw.Price != nil {
		return *raw.Price, true
	}
	return 0, false
}

// Group validates raw charges and buckets them by normalized pattern key.
// Malformed charges (empty normalized key, unparseable date, no numeric
// amount) are skipped, never fatal. Groups come back sorted by key and each
// group's charges sorted by date, so identical input always yields identical
// structure regardless of input order.
func Group(charges []model.RawCharge, opts GroupOptions) []ChargeGroup {
	byKey := make(map[string][]model.Candidate)

	for _, raw := range charges {
		if opts.IsExcluded != nil && opts.IsExcluded(raw) {
			continue
		}
		if opts.ExcludeCreditCardRepayments && raw.CategoryType == model.CategoryTypeCreditCardRepayment {
			continue
		}

		name := raw.Name
		if name == "" {
			name = raw.Vendor
		}
		key := NormalizePatternKey(name)
		if key == "" {
			continue
		}
		date, ok := parseChargeDate(raw.Date)
		if !ok {
			continue
		}
		amount, ok := chargeAmount(raw)
		if !ok {
			continue
		}

		byKey[key] = append(byKey[key], model.Candidate{
			PatternKey:   key,
			DisplayName:  name,
			Date:         date,
			Amount:       amount,
			CategoryID:   raw.CategoryDefinitionID,
			CategoryName: raw.CategoryName,
		})
	}

	groups := make([]ChargeGroup, 0, len(byKey))
	for key, candidates := range byKey {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Date.Before(candidates[j].Date)
		})
		if !opts.SeparateSameDay {
			candidates = aggregateSameDay(candidates)
		}
		groups = append(groups, ChargeGroup{Key: key, Charges: candidates})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})

	return groups
}

// aggregateSameDay merges candidates sharing a calendar date into one
// occurrence, summing their amounts. Candidates must already be sorted by
// date. The first charge of the day keeps its name and category.
func aggregateSameDay(candidates []model.Candidate) []model.Candidate {
	if len(candidates) < 2 {
		return candidates
	}

	merged := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(merged) > 0 && sameCalendarDay(merged[len(merged)-1].Date, c.Date) {
			merged[len(merged)-1].Amount += c.Amount
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
