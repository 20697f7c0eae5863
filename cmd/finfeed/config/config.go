// Package config builds the runtime configurations the CLI commands hand
// to the pipeline packages, layering viper-provided settings over the
// defaults.
package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"finfeed/internal/aggregate"
	"finfeed/internal/classify"
	"finfeed/internal/parsers"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Configuration keys and their defaults. Every tunable of the aggregation
// engine is configuration, overridable via config file or FINFEED_* env.
const (
	KeyBudgetMonthly = "budget_monthly"
	KeyABCCutA       = "abc_cut_a"
	KeyABCCutB       = "abc_cut_b"
	KeyWeeksPerYear  = "weeks_per_year"
	KeyYear          = "year"
	KeyBlacklist     = "blacklist"

	DefaultBudgetMonthly = 3125.0
	DefaultYear          = 2025
)

func init() {
	viper.SetDefault(KeyBudgetMonthly, DefaultBudgetMonthly)
	viper.SetDefault(KeyABCCutA, 80)
	viper.SetDefault(KeyABCCutB, 95)
	viper.SetDefault(KeyWeeksPerYear, 52)
	viper.SetDefault(KeyYear, DefaultYear)
}

// CreateEngine builds the aggregation engine from the active configuration
func CreateEngine() (*aggregate.Engine, error) {
	engine := aggregate.DefaultEngine()

	budget := viper.GetFloat64(KeyBudgetMonthly)
	if budget < 0 {
		return nil, fmt.Errorf("budget_monthly cannot be negative, got %v", budget)
	}
	engine.Budget = decimal.NewFromFloat(budget)

	cutA := viper.GetInt64(KeyABCCutA)
	cutB := viper.GetInt64(KeyABCCutB)
	if cutA <= 0 || cutB <= cutA || cutB > 100 {
		return nil, fmt.Errorf("ABC cuts must satisfy 0 < a < b <= 100, got %d/%d", cutA, cutB)
	}
	engine.ABCCutA = decimal.NewFromInt(cutA)
	engine.ABCCutB = decimal.NewFromInt(cutB)

	weeks := viper.GetInt64(KeyWeeksPerYear)
	if weeks <= 0 {
		return nil, fmt.Errorf("weeks_per_year must be positive, got %d", weeks)
	}
	engine.WeeksPerYear = weeks

	return engine, nil
}

// Year returns the configured dashboard calendar year
func Year() int {
	return viper.GetInt(KeyYear)
}

// CreateCardParserConfig creates the card parser configuration
func CreateCardParserConfig() *parsers.CardParserConfig {
	return parsers.DefaultCardParserConfig()
}

// CreateCheckingParserConfig creates the checking parser configuration
func CreateCheckingParserConfig() *parsers.CheckingParserConfig {
	return parsers.DefaultCheckingParserConfig()
}

// CreateBlacklist returns the configured noise blacklist, falling back to
// the built-in marker list
func CreateBlacklist() classify.Blacklist {
	if custom := viper.GetStringSlice(KeyBlacklist); len(custom) > 0 {
		return classify.Blacklist(custom)
	}
	return classify.DefaultBlacklist()
}

// ExpandInputs resolves each argument as a glob pattern (or literal path)
// and returns the matching files in deterministic sorted order
func ExpandInputs(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Literal paths pass through so missing files surface as
			// file-not-found errors downstream
			files = append(files, pattern)
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}
