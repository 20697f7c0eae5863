package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"finfeed/cmd/finfeed/config"
	"finfeed/internal/classify"
	"finfeed/internal/models"
	"finfeed/internal/parsers"
	"finfeed/internal/report"
	"finfeed/internal/store"
	"finfeed/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the checking command
var (
	checkingInputs       []string
	checkingOutput       string
	checkingYear         int
	checkingCardCSV      string
	checkingConsolidated string
)

// checkingCmd represents the checking command
var checkingCmd = &cobra.Command{
	Use:   "checking",
	Short: "Consolidate checking-account exports into a categorized yearly dataset",
	Long: `Checking merges one or more checking-account export CSVs into a single
dataset for the configured calendar year. Each transaction gets a
counterparty entity extracted from its description and a category assigned
by the sign-aware keyword rules: inflows and outflows are classified
against separate rule sets.

With --card-csv, the consolidated card expenses are joined (as outflows)
with the checking stream into an additional combined flow payload.

Examples:
  finfeed checking --input "assets/NU_*.csv" --year 2025
  finfeed checking --input extrato.csv --card-csv assets/consolidated_12m_expenses.csv`,

	PreRunE: validateCheckingFlags,
	RunE:    runChecking,
}

func init() {
	rootCmd.AddCommand(checkingCmd)

	checkingCmd.Flags().StringSliceVarP(&checkingInputs, "input", "i", []string{}, "checking export CSV files or glob patterns (required)")
	checkingCmd.Flags().StringVarP(&checkingOutput, "output", "o", "assets/consolidated_conta_corrente.json", "checking payload output path")
	checkingCmd.Flags().IntVar(&checkingYear, "year", 0, "calendar year to consolidate (default from config)")
	checkingCmd.Flags().StringVar(&checkingCardCSV, "card-csv", "", "consolidated card expense CSV to join into a combined flow payload")
	checkingCmd.Flags().StringVar(&checkingConsolidated, "consolidated-output", "assets/consolidated_flows.json", "combined flow payload output path (with --card-csv)")

	checkingCmd.MarkFlagRequired("input")

	viper.BindPFlag("checking.output", checkingCmd.Flags().Lookup("output"))
}

func validateCheckingFlags(cmd *cobra.Command, args []string) error {
	if len(checkingInputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	dir := filepath.Dir(checkingOutput)
	if dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
	}

	return nil
}

func runChecking(cmd *cobra.Command, args []string) error {
	files, err := config.ExpandInputs(checkingInputs)
	if err != nil {
		return err
	}

	year := checkingYear
	if year == 0 {
		year = config.Year()
	}

	engine, err := config.CreateEngine()
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "engine", nil, err)
	}

	parser, err := parsers.NewCheckingParser(config.CreateCheckingParserConfig())
	if err != nil {
		return err
	}

	var batches [][]models.Record
	for _, file := range files {
		records, stats, err := parser.ParseFile(file)
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "%s: %s\n", file, stats)
		}
		batches = append(batches, records)
	}

	blacklist := config.CreateBlacklist()
	rules := classify.CheckingRules()

	var kept []models.Record
	for _, batch := range batches {
		for _, r := range batch {
			if blacklist.Match(r.Description) {
				continue
			}
			r.Title = classify.ExtractEntity(r.Description)
			r.Category = rules.Categorize(r.Description, r.Amount)
			kept = append(kept, r)
		}
	}

	transactions := store.Consolidate([][]models.Record{kept}, store.CalendarYear(year))
	if len(transactions) == 0 {
		return errors.ValidationError(
			errors.CodeEmptyDataset,
			"checking_transactions",
			fmt.Sprintf("year %d", year),
			nil,
		)
	}

	payload := report.BuildCheckingPayload(engine, transactions, year)
	if err := report.WriteJSONFile(checkingOutput, payload); err != nil {
		return err
	}

	fmt.Printf("Checking account %d consolidated: %s\n", year, checkingOutput)
	fmt.Printf("  Transactions: %d\n", payload.Meta.TransactionCount)
	fmt.Printf("  Entradas: R$ %.2f | Saídas: R$ %.2f | Saldo: R$ %.2f\n",
		payload.Meta.EntradasTotal, payload.Meta.SaidasTotal, payload.Meta.Saldo)

	if checkingCardCSV != "" {
		if _, err := os.Stat(checkingCardCSV); os.IsNotExist(err) {
			return errors.MissingPrerequisiteError(checkingCardCSV, "finfeed consolidate")
		}

		cardParser, err := parsers.NewCardParser(config.CreateCardParserConfig())
		if err != nil {
			return err
		}
		cardExpenses, _, err := cardParser.ParseFile(checkingCardCSV)
		if err != nil {
			return err
		}
		cardExpenses = store.Filter(cardExpenses, store.CalendarYear(year))

		combined := report.BuildConsolidatedPayload(engine, cardExpenses, transactions, year)
		if err := report.WriteJSONFile(checkingConsolidated, combined); err != nil {
			return err
		}
		fmt.Printf("  Combined flows: %s (%d records, saldo R$ %.2f)\n",
			checkingConsolidated, combined.Count, combined.Saldo)
	}

	return nil
}
