package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/finbeat/finbeat/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func init() {
	importCmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import charges from a CSV export",
		Long: `Import charges from a CSV export into the local database.

The file must carry a header row; recognized columns are id, name, vendor,
date, amount, price, status, category_definition_id, category_name and
category_type. Rows with a malformed amount are skipped with a warning,
matching how the detection engine treats malformed records.

Examples:
  finbeat import ~/Downloads/charges.csv
  finbeat import --dry-run charges.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	importCmd.Flags().BoolP("dry-run", "d", false, "parse without saving")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return fmt.Errorf("no data rows in %s", args[0])
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	if _, ok := columns["date"]; !ok {
		return fmt.Errorf("missing required column: date")
	}

	bar := progressbar.Default(int64(len(records)-1), "importing charges")

	var charges []model.RawCharge
	skipped := 0
	for _, row := range records[1:] {
		_ = bar.Add(1)
		charge, ok := parseChargeRow(columns, row)
		if !ok {
			skipped++
			continue
		}
		charges = append(charges, charge)
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed rows", "count", skipped)
	}

	if dryRun {
		slog.Info("Dry run complete", "charges", len(charges), "skipped", skipped)
		return nil
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveCharges(ctx, charges); err != nil {
		return fmt.Errorf("failed to save charges: %w", err)
	}

	slog.Info("Import complete", "charges", len(charges), "skipped", skipped)
	return nil
}

func parseChargeRow(columns map[string]int, row []string) (model.RawCharge, bool) {
	field := func(name string) string {
		if i, ok := columns[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	charge := model.RawCharge{
		Name:         field("name"),
		Vendor:       field("vendor"),
		Date:         field("date"),
		Status:       field("status"),
		CategoryName: field("category_name"),
		CategoryType: field("category_type"),
	}
	if charge.Date == "" {
		return model.RawCharge{}, false
	}
	if charge.Status == "" {
		charge.Status = "completed"
	}

	if raw := field("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.RawCharge{}, false
		}
		charge.ID = id
	}
	if raw := field("category_definition_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			charge.CategoryDefinitionID = &id
		}
	}

	amountSet := false
	if raw := field("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.RawCharge{}, false
		}
		charge.Amount = &amount
		amountSet = true
	}
	if raw := field("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.RawCharge{}, false
		}
		charge.Price = &price
		amountSet = true
	}
	if !amountSet {
		return model.RawCharge{}, false
	}

	return charge, true
}
