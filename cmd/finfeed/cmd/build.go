package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"finfeed/cmd/finfeed/config"
	"finfeed/internal/aggregate"
	"finfeed/internal/classify"
	"finfeed/internal/models"
	"finfeed/internal/parsers"
	"finfeed/internal/report"
	"finfeed/internal/store"
	"finfeed/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the build command
var (
	buildInput     string
	buildOutput    string
	buildTitle     string
	buildYear      int
	buildOverrides string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static spending dashboard from the consolidated expense CSV",
	Long: `Build reads the consolidated expense CSV produced by 'finfeed consolidate',
filters it to the configured calendar year, drops blacklisted noise entries,
categorizes each expense, computes all aggregates and renders the static
dashboard page.

The page embeds the full dataset: category reassignments and inclusion
toggles happen in the browser and persist in localStorage, without
regenerating the page.

Examples:
  finfeed build
  finfeed build --input assets/consolidated_12m_expenses.csv --output index.html
  finfeed build --year 2025 --title "Gastos no Cartão"`,

	PreRunE: validateBuildFlags,
	RunE:    runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildInput, "input", "i", "assets/consolidated_12m_expenses.csv", "consolidated expense CSV path")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "index.html", "dashboard HTML output path")
	buildCmd.Flags().StringVar(&buildTitle, "title", "Gastos no Cartão de Crédito", "dashboard page title")
	buildCmd.Flags().IntVar(&buildYear, "year", 0, "calendar year to report (default from config)")
	buildCmd.Flags().StringVar(&buildOverrides, "overrides", "", "JSON override file exported from the dashboard, applied before aggregation")

	viper.BindPFlag("build.input", buildCmd.Flags().Lookup("input"))
	viper.BindPFlag("build.output", buildCmd.Flags().Lookup("output"))
}

func validateBuildFlags(cmd *cobra.Command, args []string) error {
	dir := filepath.Dir(buildOutput)
	if dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(buildInput); os.IsNotExist(err) {
		return errors.MissingPrerequisiteError(buildInput, "finfeed consolidate")
	}

	year := buildYear
	if year == 0 {
		year = config.Year()
	}

	engine, err := config.CreateEngine()
	if err != nil {
		return errors.ConfigurationError(errors.CodeInvalidConfig, "engine", nil, err)
	}

	parser, err := parsers.NewCardParser(config.CreateCardParserConfig())
	if err != nil {
		return err
	}

	records, stats, err := parser.ParseFile(buildInput)
	if err != nil {
		return err
	}
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "%s: %s\n", buildInput, stats)
	}

	// Blacklisted noise entries are excluded before categorization and
	// before index assignment: they never occupy an override slot
	blacklist := config.CreateBlacklist()
	var kept []models.Record
	for _, r := range records {
		if blacklist.Match(r.Title) {
			continue
		}
		kept = append(kept, r)
	}

	rules := classify.CardRules()
	for i := range kept {
		kept[i].Category = rules.Categorize(kept[i].Title, kept[i].Amount)
	}

	expenses := store.Consolidate([][]models.Record{kept}, store.CalendarYear(year))

	// Persisted overrides (exported from the dashboard) can be folded into
	// the baseline so the rendered snapshot matches the corrected view
	if buildOverrides != "" {
		data, err := os.ReadFile(buildOverrides)
		if err != nil {
			return errors.FileError(errors.CodeFileNotFound, buildOverrides, err)
		}
		overrides, err := aggregate.ParseOverrides(data)
		if err != nil {
			return err
		}
		if err := overrides.Validate(len(expenses)); err != nil {
			return err
		}
		expenses = aggregate.Resolve(expenses, overrides)
	}

	if len(expenses) == 0 {
		return errors.ValidationError(
			errors.CodeEmptyDataset,
			"expenses",
			fmt.Sprintf("year %d", year),
			nil,
		)
	}

	payload := report.BuildCardPayload(engine, expenses, year, presentCategories(expenses))

	if err := report.WriteDashboardFile(buildOutput, payload, buildTitle); err != nil {
		return err
	}

	fmt.Printf("Dashboard generated: %s\n", buildOutput)
	fmt.Printf("  Expenses %d: %d | Total: R$ %.2f\n", year, payload.Count, payload.Total)

	return nil
}

// presentCategories returns the sorted set of categories present in the
// expense set, always including the catch-all so every dropdown can fall
// back to it
func presentCategories(records []models.Record) []string {
	seen := map[string]struct{}{classify.CategoryOthers: {}}
	for _, r := range records {
		if r.Category != "" {
			seen[r.Category] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
