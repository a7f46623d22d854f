package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/finbeat/finbeat/internal/model"
	"github.com/finbeat/finbeat/internal/service"
)

// chargeDateLayouts are the formats charge dates are stored in.
var chargeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SaveCharges persists raw charges inside a single transaction. Rows with an
// explicit ID replace any existing row with that ID.
func (s *SQLiteStorage) SaveCharges(ctx context.Context, charges []model.RawCharge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO charges
		(id, name, vendor, date, amount, price, status, category_definition_id, category_name, category_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range charges {
		var id any
		if c.ID != 0 {
			id = c.ID
		}
		if _, err := stmt.ExecContext(ctx,
			id, c.Name, c.Vendor, c.Date,
			nullableFloat(c.Amount), nullableFloat(c.Price),
			c.Status, nullableInt(c.CategoryDefinitionID),
			c.CategoryName, c.CategoryType,
		); err != nil {
			return fmt.Errorf("failed to insert charge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit charges: %w", err)
	}
	return nil
}

// ListCharges returns charges matching the filter, oldest first. Status
// filtering (completed/pending only) happens here so the engine never sees
// income or investment rows it would have to re-validate.
func (s *SQLiteStorage) ListCharges(ctx context.Context, filter service.ChargeFilter) ([]model.RawCharge, error) {
	query := `SELECT id, name, vendor, date, amount, price, status,
		category_definition_id, category_name, category_type
		FROM charges
		WHERE status IN ('completed', 'pending')`
	var args []any

	if filter.MonthsBack > 0 {
		cutoff := time.Now().AddDate(0, -filter.MonthsBack, 0).Format("2006-01-02")
		query += ` AND date >= ?`
		args = append(args, cutoff)
	}
	if filter.ExcludePairingExclusions {
		query += ` AND id NOT IN (SELECT charge_id FROM pairing_exclusions)`
	}
	if filter.ExcludeCreditCardRepayments {
		query += ` AND category_type != ?`
		args = append(args, model.CategoryTypeCreditCardRepayment)
	}
	query += ` ORDER BY date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query charges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var charges []model.RawCharge
	for rows.Next() {
		var (
			c          model.RawCharge
			amount     sql.NullFloat64
			price      sql.NullFloat64
			categoryID sql.NullInt64
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Vendor, &c.Date, &amount, &price,
			&c.Status, &categoryID, &c.CategoryName, &c.CategoryType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}
		if amount.Valid {
			c.Amount = &amount.Float64
		}
		if price.Valid {
			c.Price = &price.Float64
		}
		if categoryID.Valid {
			c.CategoryDefinitionID = &categoryID.Int64
		}
		charges = append(charges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate charges: %w", err)
	}

	return charges, nil
}

// MarkPairingExcluded records charges matched by the account-pairing
// reconciler so detection queries can skip them. The reconciler writes
// through the concrete store; the detection engine only ever reads this
// table, so the method stays off the engine-facing ChargeStore interface.
func (s *SQLiteStorage) MarkPairingExcluded(ctx context.Context, pairingID int64, chargeIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range chargeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO pairing_exclusions (charge_id, pairing_id) VALUES (?, ?)`,
			id, pairingID,
		); err != nil {
			return fmt.Errorf("failed to mark charge %d excluded: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exclusions: %w", err)
	}
	return nil
}

// WeeklyTotals returns absolute spend totals per calendar week (Monday start)
// for a category over the last weeks weeks, oldest first, with zeros for
// weeks without spend.
func (s *SQLiteStorage) WeeklyTotals(ctx context.Context, categoryID int64, weeks int) ([]float64, error) {
	if weeks <= 0 {
		return []float64{}, nil
	}

	start := startOfWeek(time.Now()).AddDate(0, 0, -7*(weeks-1))
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, COALESCE(amount, price, 0) FROM charges
		WHERE status IN ('completed', 'pending')
		AND category_definition_id = ?
		AND date >= ?`,
		categoryID, start.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make([]float64, weeks)
	for rows.Next() {
		var (
			dateStr string
			amount  float64
		)
		if err := rows.Scan(&dateStr, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan weekly total: %w", err)
		}
		date, ok := parseChargeDate(dateStr)
		if !ok {
			continue
		}
		week := int(date.Sub(start).Hours() / 24 / 7)
		if week >= 0 && week < weeks {
			totals[week] += math.Abs(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly totals: %w", err)
	}

	return totals, nil
}

func parseChargeDate(s string) (time.Time, bool) {
	for _, layout := range chargeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	monday := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -monday)
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
