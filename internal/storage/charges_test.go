package storage

import (
	"context"
	"testing"
	"time"

	"github.com/finbeat/finbeat/internal/model"
	"github.com/finbeat/finbeat/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int64) *int64       { return &i }

func TestSaveAndListCharges(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	charges := []model.RawCharge{
		{
			ID:                   1,
			Name:                 "Netflix",
			Date:                 "2026-01-15",
			Amount:               floatPtr(-50),
			Status:               "completed",
			CategoryDefinitionID: intPtr(7),
			CategoryName:         "Streaming",
		},
		{
			ID:     2,
			Vendor: "Spotify",
			Date:   "2026-01-20",
			Price:  floatPtr(20),
			Status: "pending",
		},
	}
	require.NoError(t, store.SaveCharges(ctx, charges))

	got, err := store.ListCharges(ctx, service.ChargeFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by date.
	assert.Equal(t, "Netflix", got[0].Name)
	require.NotNil(t, got[0].Amount)
	assert.Equal(t, -50.0, *got[0].Amount)
	assert.Nil(t, got[0].Price)
	require.NotNil(t, got[0].CategoryDefinitionID)
	assert.Equal(t, int64(7), *got[0].CategoryDefinitionID)

	assert.Equal(t, "Spotify", got[1].Vendor)
	assert.Nil(t, got[1].Amount)
	require.NotNil(t, got[1].Price)
	assert.Equal(t, 20.0, *got[1].Price)
	assert.Nil(t, got[1].CategoryDefinitionID)
}

func TestSaveCharges_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Old name", Date: "2026-01-01", Amount: floatPtr(10), Status: "completed"},
	}))
	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "New name", Date: "2026-01-02", Amount: floatPtr(25), Status: "completed"},
	}))

	got, err := store.ListCharges(ctx, service.ChargeFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New name", got[0].Name)
	require.NotNil(t, got[0].Amount)
	assert.Equal(t, 25.0, *got[0].Amount)
}

func TestListCharges_StatusFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Kept completed", Date: "2026-01-01", Amount: floatPtr(10), Status: "completed"},
		{ID: 2, Name: "Kept pending", Date: "2026-01-02", Amount: floatPtr(10), Status: "pending"},
		{ID: 3, Name: "Dropped failed", Date: "2026-01-03", Amount: floatPtr(10), Status: "failed"},
		{ID: 4, Name: "Dropped canceled", Date: "2026-01-04", Amount: floatPtr(10), Status: "canceled"},
	}))

	got, err := store.ListCharges(ctx, service.ChargeFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Kept completed", got[0].Name)
	assert.Equal(t, "Kept pending", got[1].Name)
}

func TestListCharges_PairingExclusions(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Rent", Date: "2026-01-01", Amount: floatPtr(4000), Status: "completed"},
		{ID: 2, Name: "CC repayment row", Date: "2026-01-02", Amount: floatPtr(2500), Status: "completed"},
	}))
	require.NoError(t, store.MarkPairingExcluded(ctx, 3, []int64{2}))

	all, err := store.ListCharges(ctx, service.ChargeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := store.ListCharges(ctx, service.ChargeFilter{ExcludePairingExclusions: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Rent", filtered[0].Name)
}

func TestListCharges_CreditCardRepaymentFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Groceries", Date: "2026-01-01", Amount: floatPtr(300), Status: "completed"},
		{ID: 2, Name: "Visa repayment", Date: "2026-01-02", Amount: floatPtr(2500), Status: "completed", CategoryType: model.CategoryTypeCreditCardRepayment},
	}))

	filtered, err := store.ListCharges(ctx, service.ChargeFilter{ExcludeCreditCardRepayments: true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Groceries", filtered[0].Name)
}

func TestListCharges_MonthsBackWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	recent := time.Now().AddDate(0, -1, 0).Format("2006-01-02")
	old := time.Now().AddDate(0, -10, 0).Format("2006-01-02")

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Recent", Date: recent, Amount: floatPtr(10), Status: "completed"},
		{ID: 2, Name: "Old", Date: old, Amount: floatPtr(10), Status: "completed"},
	}))

	got, err := store.ListCharges(ctx, service.ChargeFilter{MonthsBack: 6})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Recent", got[0].Name)
}

func TestWeeklyTotals(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	thisWeek := time.Now().Format("2006-01-02")
	twoWeeksAgo := time.Now().AddDate(0, 0, -14).Format("2006-01-02")

	require.NoError(t, store.SaveCharges(ctx, []model.RawCharge{
		{ID: 1, Name: "Shuk", Date: thisWeek, Amount: floatPtr(-120), Status: "completed", CategoryDefinitionID: intPtr(5)},
		{ID: 2, Name: "Shuk", Date: thisWeek, Amount: floatPtr(-80), Status: "completed", CategoryDefinitionID: intPtr(5)},
		{ID: 3, Name: "Shuk", Date: twoWeeksAgo, Amount: floatPtr(-50), Status: "completed", CategoryDefinitionID: intPtr(5)},
		{ID: 4, Name: "Other category", Date: thisWeek, Amount: floatPtr(-999), Status: "completed", CategoryDefinitionID: intPtr(6)},
	}))

	totals, err := store.WeeklyTotals(ctx, 5, 4)
	require.NoError(t, err)
	require.Len(t, totals, 4)

	// Oldest first, zero-filled, absolute amounts.
	assert.Equal(t, 0.0, totals[0])
	assert.Equal(t, 50.0, totals[1])
	assert.Equal(t, 0.0, totals[2])
	assert.Equal(t, 200.0, totals[3])
}

func TestWeeklyTotals_NoWeeks(t *testing.T) {
	store := newTestStorage(t)

	totals, err := store.WeeklyTotals(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	// Running again must be a no-op, not an error.
	require.NoError(t, store.Migrate(ctx))
}
