package recurring

import (
	"testing"

	"github.com/finbeat/finbeat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestGroup_FieldPrecedence(t *testing.T) {
	charges := []model.RawCharge{
		{Name: "Netflix", Vendor: "ignored vendor", Date: "2026-01-01", Amount: floatPtr(50)},
		{Vendor: "Spotify", Date: "2026-01-02", Price: floatPtr(20)},
		{Name: "Gym", Date: "2026-01-03", Amount: floatPtr(100), Price: floatPtr(999)},
	}

	groups := Group(charges, GroupOptions{})
	require.Len(t, groups, 3)

	// Groups come back sorted by key.
	assert.Equal(t, "gym", groups[0].Key)
	assert.Equal(t, "netflix", groups[1].Key)
	assert.Equal(t, "spotify", groups[2].Key)

	assert.Equal(t, 100.0, groups[0].Charges[0].Amount, "amount wins over price")
	assert.Equal(t, "Netflix", groups[1].Charges[0].DisplayName, "name wins over vendor")
	assert.Equal(t, 20.0, groups[2].Charges[0].Amount, "price is the fallback")
	assert.Equal(t, "Spotify", groups[2].Charges[0].DisplayName, "vendor is the name fallback")
}

func TestGroup_SkipsMalformedCharges(t *testing.T) {
	charges := []model.RawCharge{
		{Name: "Valid", Date: "2026-01-01", Amount: floatPtr(10)},
		{Name: "", Vendor: "", Date: "2026-01-01", Amount: floatPtr(10)},
		{Name: "***", Date: "2026-01-01", Amount: floatPtr(10)},
		{Name: "Bad date", Date: "not-a-date", Amount: floatPtr(10)},
		{Name: "Missing date", Amount: floatPtr(10)},
		{Name: "No amount", Date: "2026-01-01"},
	}

	groups := Group(charges, GroupOptions{})
	require.Len(t, groups, 1)
	assert.Equal(t, "valid", groups[0].Key)
}

func TestGroup_SameDayAggregation(t *testing.T) {
	charges := []model.RawCharge{
		{Name: "Super-Pharm", Date: "2026-01-10", Amount: floatPtr(60)},
		{Name: "Super-Pharm", Date: "2026-01-10", Amount: floatPtr(40)},
		{Name: "Super-Pharm", Date: "2026-02-10", Amount: floatPtr(100)},
	}

	t.Run("default sums split payments into one occurrence", func(t *testing.T) {
		groups := Group(charges, GroupOptions{})
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Charges, 2)
		assert.Equal(t, 100.0, groups[0].Charges[0].Amount)
		assert.Equal(t, 100.0, groups[0].Charges[1].Amount)
	})

	t.Run("separate mode keeps distinct occurrences", func(t *testing.T) {
		groups := Group(charges, GroupOptions{SeparateSameDay: true})
		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Charges, 3)
	})
}

func TestGroup_Exclusions(t *testing.T) {
	charges := []model.RawCharge{
		{ID: 1, Name: "Rent", Date: "2026-01-01", Amount: floatPtr(4000)},
		{ID: 2, Name: "ויזה כאל", Date: "2026-01-02", Amount: floatPtr(2500), CategoryType: model.CategoryTypeCreditCardRepayment},
		{ID: 3, Name: "Paired repayment", Date: "2026-01-03", Amount: floatPtr(1200)},
	}

	t.Run("credit card repayments dropped when asked", func(t *testing.T) {
		groups := Group(charges, GroupOptions{ExcludeCreditCardRepayments: true})
		require.Len(t, groups, 2)
		for _, g := range groups {
			assert.NotEqual(t, "ויזה_כאל", g.Key)
		}
	})

	t.Run("pairing exclusion hook applies before grouping", func(t *testing.T) {
		groups := Group(charges, GroupOptions{
			IsExcluded: func(c model.RawCharge) bool { return c.ID == 3 },
		})
		require.Len(t, groups, 2)
		for _, g := range groups {
			assert.NotEqual(t, "paired_repayment", g.Key)
		}
	})

	t.Run("no exclusions by default", func(t *testing.T) {
		groups := Group(charges, GroupOptions{})
		assert.Len(t, groups, 3)
	})
}

func TestGroup_ChargesSortedByDate(t *testing.T) {
	charges := []model.RawCharge{
		{Name: "Gym", Date: "2026-03-01", Amount: floatPtr(100)},
		{Name: "Gym", Date: "2026-01-01", Amount: floatPtr(100)},
		{Name: "Gym", Date: "2026-02-01", Amount: floatPtr(100)},
	}

	groups := Group(charges, GroupOptions{})
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Charges, 3)
	for i := 1; i < len(groups[0].Charges); i++ {
		assert.True(t, groups[0].Charges[i-1].Date.Before(groups[0].Charges[i].Date))
	}
}
