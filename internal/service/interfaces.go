// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/finbeat/finbeat/internal/model"
)

// ChargeFilter defines filtering options for charge queries.
type ChargeFilter struct {
	// MonthsBack limits the query window to the last N calendar months.
	// Zero means no window.
	MonthsBack int
	// ExcludePairingExclusions drops charges matched by the external
	// credit-card/bank account-pairing reconciler.
	ExcludePairingExclusions bool
	// ExcludeCreditCardRepayments drops charges whose category type marks
	// them as credit card repayments.
	ExcludeCreditCardRepayments bool
}

// ChargeStore defines the contract for the charge persistence layer. The
// detection engine receives an implementation by injection and performs a
// single fetch per invocation; it never holds ambient connection state.
type ChargeStore interface {
	// SaveCharges persists raw charges. Rows carrying an explicit ID
	// replace any existing row with that ID.
	SaveCharges(ctx context.Context, charges []model.RawCharge) error
	// ListCharges returns charges matching the filter. Status filtering
	// (completed/pending only, no income or investment rows) happens here,
	// not in the engine.
	ListCharges(ctx context.Context, filter ChargeFilter) ([]model.RawCharge, error)
	// WeeklyTotals returns per-week spend totals for a category over the
	// last weeks calendar weeks, oldest first, with zero-filled gaps.
	WeeklyTotals(ctx context.Context, categoryID int64, weeks int) ([]float64, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
