package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		viper.Reset()
		viper.SetDefault(KeyBudgetMonthly, DefaultBudgetMonthly)
		viper.SetDefault(KeyABCCutA, 80)
		viper.SetDefault(KeyABCCutB, 95)
		viper.SetDefault(KeyWeeksPerYear, 52)
		viper.SetDefault(KeyYear, DefaultYear)
	})
}

func TestCreateEngine_Defaults(t *testing.T) {
	resetViper(t)

	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine failed: %v", err)
	}

	if engine.Budget.String() != "3125" {
		t.Errorf("Budget = %s, want 3125", engine.Budget.String())
	}
	if engine.ABCCutA.String() != "80" || engine.ABCCutB.String() != "95" {
		t.Errorf("ABC cuts = %s/%s, want 80/95", engine.ABCCutA.String(), engine.ABCCutB.String())
	}
	if engine.WeeksPerYear != 52 {
		t.Errorf("WeeksPerYear = %d, want 52", engine.WeeksPerYear)
	}
}

func TestCreateEngine_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{
			name:  "Negative budget",
			key:   KeyBudgetMonthly,
			value: -1.0,
		},
		{
			name:  "Cut A above cut B",
			key:   KeyABCCutA,
			value: 96,
		},
		{
			name:  "Cut B above 100",
			key:   KeyABCCutB,
			value: 150,
		},
		{
			name:  "Zero weeks",
			key:   KeyWeeksPerYear,
			value: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)

			if _, err := CreateEngine(); err == nil {
				t.Errorf("Expected validation error for %s=%v", tt.key, tt.value)
			}
		})
	}
}

func TestCreateEngine_CustomBudget(t *testing.T) {
	resetViper(t)
	viper.Set(KeyBudgetMonthly, 4000.0)

	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine failed: %v", err)
	}
	if engine.Budget.String() != "4000" {
		t.Errorf("Budget = %s, want 4000", engine.Budget.String())
	}
}

func TestYear(t *testing.T) {
	resetViper(t)

	if got := Year(); got != DefaultYear {
		t.Errorf("Year() = %d, want %d", got, DefaultYear)
	}

	viper.Set(KeyYear, 2026)
	if got := Year(); got != 2026 {
		t.Errorf("Year() = %d, want 2026", got)
	}
}

func TestCreateBlacklist(t *testing.T) {
	resetViper(t)

	// Default falls back to the built-in markers
	bl := CreateBlacklist()
	if !bl.Match("Juros de rotativo") {
		t.Error("Expected the built-in blacklist")
	}

	viper.Set(KeyBlacklist, []string{"custom marker"})
	bl = CreateBlacklist()
	if !bl.Match("CUSTOM MARKER presente") {
		t.Error("Expected the configured blacklist")
	}
	if bl.Match("Juros de rotativo") {
		t.Error("Configured blacklist must replace, not extend, the default")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	t.Run("Glob expansion sorted", func(t *testing.T) {
		files, err := ExpandInputs([]string{filepath.Join(dir, "*.csv")})
		if err != nil {
			t.Fatalf("ExpandInputs failed: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("Expected 2 matches, got %d", len(files))
		}
		if filepath.Base(files[0]) != "a.csv" || filepath.Base(files[1]) != "b.csv" {
			t.Errorf("Expected sorted order, got %v", files)
		}
	})

	t.Run("Unmatched literal passes through", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.csv")
		files, err := ExpandInputs([]string{missing})
		if err != nil {
			t.Fatalf("ExpandInputs failed: %v", err)
		}
		if len(files) != 1 || files[0] != missing {
			t.Errorf("Expected literal pass-through, got %v", files)
		}
	})

	t.Run("Invalid pattern", func(t *testing.T) {
		if _, err := ExpandInputs([]string{"["}); err == nil {
			t.Error("Expected an error for a malformed pattern")
		}
	})
}
