package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/finbeat/finbeat/internal/cli"
	"github.com/finbeat/finbeat/internal/recurring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring charge patterns",
		Long: `Scan stored charges for recurring payment patterns.

Examples:
  # Detect over the last 6 months
  finbeat detect

  # Wider window, looser thresholds
  finbeat detect --months 12 --min-occurrences 2

  # Machine-readable output for downstream services
  finbeat detect --json`,
		RunE: runDetect,
	}

	detectCmd.Flags().Int("months", 6, "how many months of charges to analyze")
	detectCmd.Flags().Int("min-occurrences", 0, "minimum occurrences for a pattern")
	detectCmd.Flags().Float64("min-consistency", 0, "minimum consistency score [0,1]")
	detectCmd.Flags().Float64("min-amount", 0, "minimum amount for fixed patterns")
	detectCmd.Flags().Float64("min-variable-amount", 0, "minimum amount for variable patterns")
	detectCmd.Flags().Bool("include-pairing-excluded", false, "keep charges matched by account pairing")
	detectCmd.Flags().Bool("include-cc-repayments", false, "keep credit card repayment charges")
	detectCmd.Flags().Bool("separate-same-day", false, "count same-day charges as distinct occurrences")
	detectCmd.Flags().Bool("json", false, "print JSON instead of a table")

	_ = viper.BindPFlag("detection.min_occurrences", detectCmd.Flags().Lookup("min-occurrences"))
	_ = viper.BindPFlag("detection.min_consistency", detectCmd.Flags().Lookup("min-consistency"))
	_ = viper.BindPFlag("detection.min_amount", detectCmd.Flags().Lookup("min-amount"))
	_ = viper.BindPFlag("detection.min_variable_amount", detectCmd.Flags().Lookup("min-variable-amount"))

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	months, _ := cmd.Flags().GetInt("months")
	includePairing, _ := cmd.Flags().GetBool("include-pairing-excluded")
	includeRepayments, _ := cmd.Flags().GetBool("include-cc-repayments")
	separateSameDay, _ := cmd.Flags().GetBool("separate-same-day")
	jsonOut, _ := cmd.Flags().GetBool("json")

	opts := recurring.Options{
		MinOccurrences:    viper.GetInt("detection.min_occurrences"),
		MinConsistency:    viper.GetFloat64("detection.min_consistency"),
		MinAmount:         viper.GetFloat64("detection.min_amount"),
		MinVariableAmount: viper.GetFloat64("detection.min_variable_amount"),
		SeparateSameDay:   separateSameDay,
	}
	fetch := recurring.FetchOptions{
		MonthsBack:                  months,
		ExcludePairingExclusions:    !includePairing,
		ExcludeCreditCardRepayments: !includeRepayments,
	}

	result, err := recurring.DetectFromStore(ctx, store, fetch, opts)
	if err != nil {
		return err
	}

	slog.Debug("detection complete",
		"patterns", len(result.Patterns),
		"excluded_occurrences", result.Meta.ExcludedOccurrences,
		"excluded_consistency", result.Meta.ExcludedConsistency,
		"excluded_amount", result.Meta.ExcludedAmount)

	if jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	renderPatterns(result)
	return nil
}

func renderPatterns(result recurring.Result) {
	fmt.Println(cli.FormatTitle("Recurring patterns"))

	if len(result.Patterns) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No recurring patterns detected."))
	} else {
		header := fmt.Sprintf("%-28s %-11s %10s %6s %12s %6s %6s",
			"NAME", "FREQUENCY", "AMOUNT", "COUNT", "TOTAL", "SCORE", "FIXED")
		fmt.Println(cli.TableHeaderStyle.Render(header))

		for _, p := range result.Patterns {
			fixed := "no"
			if p.AmountIsFixed {
				fixed = "yes"
			}
			row := fmt.Sprintf("%-28.28s %-11s %10.2f %6d %12.2f %6.2f %6s",
				p.DisplayName, p.DetectedFrequency, p.DetectedAmount,
				p.OccurrenceCount, p.TotalSpent, p.ConsistencyScore, fixed)
			fmt.Println(cli.TableCellStyle.Render(row))
		}
	}

	excluded := result.Meta.ExcludedOccurrences + result.Meta.ExcludedConsistency + result.Meta.ExcludedAmount
	if excluded > 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
			"%d candidate group(s) excluded: %d too few occurrences, %d inconsistent, %d below amount threshold",
			excluded,
			result.Meta.ExcludedOccurrences,
			result.Meta.ExcludedConsistency,
			result.Meta.ExcludedAmount)))
	}
}
