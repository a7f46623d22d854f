package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finbeat/finbeat/internal/baseline"
	"github.com/finbeat/finbeat/internal/cli"
	"github.com/spf13/cobra"
)

func init() {
	baselineCmd := &cobra.Command{
		Use:   "baseline",
		Short: "Weekly baseline statistics for a category",
		Long: `Compute the weekly spending baseline for one category: median weekly
spend, dispersion, and whether the category is stable, sporadic, or
somewhere in between.

Examples:
  finbeat baseline --category 42
  finbeat baseline --category 42 --weeks 26 --json`,
		RunE: runBaseline,
	}

	baselineCmd.Flags().Int64("category", 0, "category definition ID (required)")
	baselineCmd.Flags().Int("weeks", 12, "observation window in weeks")
	baselineCmd.Flags().Bool("json", false, "print JSON instead of a report")
	_ = baselineCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	categoryID, _ := cmd.Flags().GetInt64("category")
	weeks, _ := cmd.Flags().GetInt("weeks")
	jsonOut, _ := cmd.Flags().GetBool("json")

	totals, err := store.WeeklyTotals(ctx, categoryID, weeks)
	if err != nil {
		return err
	}
	stats := baseline.Compute(totals)

	if jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Weekly baseline for category %d", categoryID)))
	fmt.Printf("  Median weekly spend:  %.2f\n", stats.BaselineWeeklyMedian)
	fmt.Printf("  Mean / stddev:        %.2f / %.2f\n", stats.Mean, stats.StdDev)
	fmt.Printf("  Weeks with spend:     %d of %d\n", stats.WeeksWithSpend, len(totals))
	fmt.Printf("  Relative spread:      %.2f\n", stats.MedianRelativeSpread)

	switch {
	case stats.IsStable:
		fmt.Println(cli.FormatSuccess("Stable: near-constant weekly cost"))
	case stats.IsSporadic:
		fmt.Println(cli.FormatWarning("Sporadic: a few weeks dominate the spend"))
	default:
		fmt.Println(cli.SubtleStyle.Render("Variable: neither stable nor sporadic"))
	}

	return nil
}
