package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"finfeed/cmd/finfeed/config"
	"finfeed/internal/models"
	"finfeed/internal/parsers"
	"finfeed/internal/report"
	"finfeed/internal/store"
	"finfeed/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the consolidate command
var (
	consolidateInputs []string
	consolidateJSON   string
	consolidateCSV    string
)

// consolidateCmd represents the consolidate command
var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Consolidate credit-card exports into the trailing 12-month expense set",
	Long: `Consolidate merges one or more credit-card export CSVs into a single
deduplicated expense dataset covering the trailing 12 months from the most
recent transaction found.

Rules:
- Only expenses (amount > 0) are kept; payments and credits are ignored.
- Exact duplicates by (date, title, amount) collapse to one entry.
- The window is 365 days back from the latest observed date.

Examples:
  finfeed consolidate --input "assets/Nubank_*.csv"
  finfeed consolidate --input jan.csv --input feb.csv --output-json out.json`,

	PreRunE: validateConsolidateFlags,
	RunE:    runConsolidate,
}

func init() {
	rootCmd.AddCommand(consolidateCmd)

	consolidateCmd.Flags().StringSliceVarP(&consolidateInputs, "input", "i", []string{}, "card export CSV files or glob patterns (required)")
	consolidateCmd.Flags().StringVar(&consolidateJSON, "output-json", "assets/consolidated_12m.json", "consolidated JSON output path")
	consolidateCmd.Flags().StringVar(&consolidateCSV, "output-csv", "assets/consolidated_12m_expenses.csv", "expense CSV output path")

	consolidateCmd.MarkFlagRequired("input")

	viper.BindPFlag("consolidate.output-json", consolidateCmd.Flags().Lookup("output-json"))
	viper.BindPFlag("consolidate.output-csv", consolidateCmd.Flags().Lookup("output-csv"))
}

func validateConsolidateFlags(cmd *cobra.Command, args []string) error {
	if len(consolidateInputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	for _, out := range []string{consolidateJSON, consolidateCSV} {
		dir := filepath.Dir(out)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	files, err := config.ExpandInputs(consolidateInputs)
	if err != nil {
		return err
	}

	parser, err := parsers.NewCardParser(config.CreateCardParserConfig())
	if err != nil {
		return err
	}

	// Parse every input before failing so one bad export does not mask
	// problems in the others
	var batches [][]models.Record
	var failures []*errors.PipelineError
	for _, file := range files {
		records, stats, err := parser.ParseFile(file)
		if err != nil {
			if perr, ok := errors.AsPipelineError(err); ok {
				failures = append(failures, perr)
				continue
			}
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "%s: %s\n", file, stats)
		}
		batches = append(batches, records)
	}
	switch len(failures) {
	case 0:
	case 1:
		return failures[0]
	default:
		return errors.NewErrorSummary(failures)
	}

	// Dedupe across all batches first, then keep expenses only
	deduped := store.Dedupe(store.Merge(batches...))

	var expenses []models.Record
	for _, r := range deduped {
		if r.Amount.IsPositive() {
			expenses = append(expenses, r)
		}
	}

	if len(expenses) == 0 {
		return errors.ValidationError(
			errors.CodeEmptyDataset,
			"card_expenses",
			fmt.Sprintf("%d input files", len(files)),
			nil,
		)
	}

	latest := store.LatestDate(expenses)
	window := store.TrailingWindow(latest)
	consolidated := store.Consolidate([][]models.Record{expenses}, window)

	total := decimal.Zero
	entities := make(map[string]struct{})
	for _, r := range consolidated {
		total = total.Add(r.Amount)
		entities[r.Title] = struct{}{}
	}
	totalFloat, _ := models.RoundMoney(total).Float64()

	payload := &report.ConsolidatedCardPayload{
		Meta: report.ConsolidationMeta{
			PeriodMonths:     12,
			CutoffDate:       latest.AddDate(0, 0, -365).Format(models.ISODate),
			MaxDate:          latest.Format(models.ISODate),
			TotalExpenses:    totalFloat,
			TransactionCount: len(consolidated),
			UniqueEntities:   len(entities),
		},
		Expenses: consolidated,
	}

	if err := report.WriteJSONFile(consolidateJSON, payload); err != nil {
		return err
	}
	if err := report.WriteExpensesCSV(consolidateCSV, consolidated); err != nil {
		return err
	}

	fmt.Printf("Consolidation complete: trailing 12 months\n")
	fmt.Printf("  Window: %s to %s\n", payload.Meta.CutoffDate, payload.Meta.MaxDate)
	fmt.Printf("  Total expenses: R$ %.2f\n", payload.Meta.TotalExpenses)
	fmt.Printf("  Transactions: %d\n", payload.Meta.TransactionCount)
	fmt.Printf("  Entities: %d\n", payload.Meta.UniqueEntities)
	fmt.Printf("  Output: %s, %s\n", consolidateJSON, consolidateCSV)

	return nil
}
