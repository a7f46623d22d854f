package storage

import (
	"context"
	"fmt"
)

// migrations run in order; an entry's index+1 is its schema version.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS charges (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		vendor TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		amount REAL,
		price REAL,
		status TEXT NOT NULL DEFAULT 'completed',
		category_definition_id INTEGER,
		category_name TEXT NOT NULL DEFAULT '',
		category_type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charges_date ON charges(date)`,
	`CREATE INDEX IF NOT EXISTS idx_charges_category ON charges(category_definition_id)`,
	// Charges matched by the credit-card/bank account-pairing reconciler;
	// they double-count the card's own expense rows and can be excluded
	// from detection queries.
	`CREATE TABLE IF NOT EXISTS pairing_exclusions (
		charge_id INTEGER PRIMARY KEY,
		pairing_id INTEGER,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
}

// Migrate applies pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}
