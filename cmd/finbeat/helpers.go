package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/finbeat/finbeat/internal/common"
	"github.com/finbeat/finbeat/internal/storage"
	"github.com/spf13/viper"
)

// openStore opens the configured SQLite database and applies migrations.
func openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "finbeat", "finbeat.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open the charge database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("could not migrate the charge database", err)
	}

	return store, nil
}
