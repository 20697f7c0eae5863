package aggregate

import (
	"encoding/json"
	"testing"
	"time"

	"finfeed/internal/classify"
	"finfeed/internal/models"
	"finfeed/internal/store"

	"github.com/shopspring/decimal"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func expense(y, m, d int, title, category string, amount float64) models.Record {
	r := models.NewCardRecord(date(y, m, d), title, decimal.NewFromFloat(amount))
	r.Category = category
	return r
}

func flow(y, m, d int, entity string, amount float64) models.Record {
	return models.NewCheckingRecord(date(y, m, d), entity, entity, decimal.NewFromFloat(amount))
}

func TestEngine_TotalByMonth(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		expense(2025, 3, 10, "A", "Outros", 100.50),
		expense(2025, 3, 20, "B", "Outros", 49.50),
		expense(2025, 1, 5, "C", "Outros", 10),
	}

	got := e.TotalByMonth(records)

	if len(got) != 2 {
		t.Fatalf("Expected 2 months, got %d", len(got))
	}
	if got[0].Month != "2025-01" || got[0].Total.String() != "10" {
		t.Errorf("got[0] = %s %s", got[0].Month, got[0].Total.String())
	}
	if got[1].Month != "2025-03" || got[1].Total.String() != "150" {
		t.Errorf("got[1] = %s %s", got[1].Month, got[1].Total.String())
	}
}

func TestEngine_TotalByMonth_NoiseFilteredBeforeAggregation(t *testing.T) {
	e := DefaultEngine()

	// A revolving-interest noise row is dropped before consolidation, so it
	// contributes to no monthly total and never occupies an index slot
	raw := []models.Record{
		expense(2025, 3, 5, "Supermercado Zaffari", "", 100),
		expense(2025, 3, 10, "Juros de Rotativo", "", 50),
		expense(2025, 3, 20, "Posto Ipiranga", "", 80),
	}

	blacklist := classify.DefaultBlacklist()
	var kept []models.Record
	for _, r := range raw {
		if blacklist.Match(r.Title) {
			continue
		}
		kept = append(kept, r)
	}

	expenses := store.Consolidate([][]models.Record{kept}, store.CalendarYear(2025))

	if len(expenses) != 2 {
		t.Fatalf("Expected 2 records after filtering, got %d", len(expenses))
	}
	for i, r := range expenses {
		if r.Index != i {
			t.Errorf("expenses[%d].Index = %d, want %d (no gap for the filtered row)", i, r.Index, i)
		}
		if r.Title == "Juros de Rotativo" {
			t.Error("Filtered row survived consolidation")
		}
	}

	byMonth := e.TotalByMonth(expenses)
	if len(byMonth) != 1 || byMonth[0].Month != "2025-03" {
		t.Fatalf("Expected a single 2025-03 total, got %v", byMonth)
	}
	if byMonth[0].Total.String() != "180" {
		t.Errorf("2025-03 total = %s, want 180 (the 50.00 noise row excluded)", byMonth[0].Total.String())
	}
}

func TestEngine_FlowByMonth(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		flow(2025, 4, 1, "Salário", 1000),
		flow(2025, 4, 10, "Mercado", -200),
		flow(2025, 4, 20, "Posto", -50),
	}

	got := e.FlowByMonth(records)

	if len(got) != 1 {
		t.Fatalf("Expected 1 month, got %d", len(got))
	}
	m := got[0]
	if m.Entradas.String() != "1000" {
		t.Errorf("Entradas = %s, want 1000", m.Entradas.String())
	}
	if m.Saidas.String() != "250" {
		t.Errorf("Saidas = %s, want 250 (absolute)", m.Saidas.String())
	}
	if m.Saldo.String() != "750" {
		t.Errorf("Saldo = %s, want 750", m.Saldo.String())
	}
}

func TestEngine_TotalByCategory(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		expense(2025, 1, 1, "A", "Combustível", 100),
		expense(2025, 1, 2, "B", "Mercado", 300),
		expense(2025, 1, 3, "C", "Combustível", 50),
	}

	got := e.TotalByCategory(records)

	if len(got) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "Mercado" || got[0].Total.String() != "300" {
		t.Errorf("got[0] = %s %s, want Mercado 300", got[0].Category, got[0].Total.String())
	}
	if got[1].Category != "Combustível" || got[1].Total.String() != "150" {
		t.Errorf("got[1] = %s %s, want Combustível 150", got[1].Category, got[1].Total.String())
	}
}

func TestEngine_TotalByCategory_AbsoluteAmounts(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		flow(2025, 1, 1, "Mercado", -200),
		flow(2025, 1, 2, "Mercado", -100),
	}
	records[0].Category = "Mercado"
	records[1].Category = "Mercado"

	got := e.TotalByCategory(records)
	if len(got) != 1 || got[0].Total.String() != "300" {
		t.Fatalf("Expected absolute sum 300, got %v", got)
	}
}

func TestEngine_TotalByEntity(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		expense(2025, 1, 1, "Posto", "Combustível", 100),
		expense(2025, 1, 2, "Posto", "Combustível", 50),
		expense(2025, 1, 3, "Mercado", "Mercado", 300),
	}

	got := e.TotalByEntity(records)

	if len(got) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(got))
	}
	if got[0].Title != "Mercado" || got[0].Count != 1 {
		t.Errorf("got[0] = %s count %d", got[0].Title, got[0].Count)
	}
	if got[1].Title != "Posto" || got[1].Total.String() != "150" || got[1].Count != 2 {
		t.Errorf("got[1] = %s %s count %d", got[1].Title, got[1].Total.String(), got[1].Count)
	}
}

func TestEngine_ApplyABC(t *testing.T) {
	e := DefaultEngine()

	entities := []EntityTotal{
		{Title: "Big", Total: decimal.NewFromInt(800)},
		{Title: "Mid", Total: decimal.NewFromInt(150)},
		{Title: "Small", Total: decimal.NewFromInt(50)},
	}

	got := e.ApplyABC(entities, decimal.NewFromInt(1000))

	want := []struct {
		abc    string
		cumPct float64
	}{
		{ABCClassA, 80},
		{ABCClassB, 95},
		{ABCClassC, 100},
	}

	for i, w := range want {
		if got[i].ABC != w.abc {
			t.Errorf("got[%d].ABC = %s, want %s", i, got[i].ABC, w.abc)
		}
		if got[i].CumPct != w.cumPct {
			t.Errorf("got[%d].CumPct = %v, want %v", i, got[i].CumPct, w.cumPct)
		}
	}
}

func TestEngine_ApplyABC_SkippedOnNonPositiveTotal(t *testing.T) {
	e := DefaultEngine()

	entities := []EntityTotal{{Title: "A", Total: decimal.Zero}}

	got := e.ApplyABC(entities, decimal.Zero)

	if got[0].ABC != "" {
		t.Errorf("Expected classification skipped, got ABC %q", got[0].ABC)
	}

	// The skipped shape omits cum_pct and abc in JSON
	data, err := json.Marshal(got[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := m["abc"]; ok {
		t.Error("Expected abc omitted when classification was skipped")
	}
	if _, ok := m["cum_pct"]; ok {
		t.Error("Expected cum_pct omitted when classification was skipped")
	}
}

func TestEngine_OverBudget(t *testing.T) {
	e := DefaultEngine()

	monthly := []MonthlyTotal{
		{Month: "2025-01", Total: decimal.NewFromFloat(3500)},
		{Month: "2025-02", Total: decimal.NewFromFloat(3125)}, // exactly at the ceiling
		{Month: "2025-03", Total: decimal.NewFromFloat(1000)},
	}

	got := e.OverBudget(monthly)

	if len(got) != 1 {
		t.Fatalf("Expected 1 overage (threshold is strict), got %d", len(got))
	}
	if got[0].Month != "2025-01" {
		t.Errorf("Overage month = %s", got[0].Month)
	}
	if got[0].Over.String() != "375" {
		t.Errorf("Over = %s, want 375", got[0].Over.String())
	}
}

func TestEngine_Averages(t *testing.T) {
	e := DefaultEngine()

	total := decimal.NewFromInt(1200)

	if got := e.AverageMonthly(total, 12); got.String() != "100" {
		t.Errorf("AverageMonthly = %s, want 100", got.String())
	}
	if got := e.AverageMonthly(total, 0); got.String() != "1200" {
		t.Errorf("Expected zero months to fall back to divisor 1, got %s", got.String())
	}
	if got := e.AverageWeekly(decimal.NewFromInt(5200)); got.String() != "100" {
		t.Errorf("AverageWeekly = %s, want 100", got.String())
	}
}

func TestEngine_GrandTotal(t *testing.T) {
	e := DefaultEngine()

	records := []models.Record{
		expense(2025, 1, 1, "A", "Outros", 10.004),
		expense(2025, 1, 2, "B", "Outros", 10.004),
	}

	// Rounding happens at the boundary, not per record: 20.008 -> 20.01
	if got := e.GrandTotal(records); got.String() != "20.01" {
		t.Errorf("GrandTotal = %s, want 20.01", got.String())
	}

	if got := e.GrandTotal(nil); !got.IsZero() {
		t.Errorf("GrandTotal(nil) = %s, want 0", got.String())
	}
}

func TestMonthlyTotal_MarshalJSON(t *testing.T) {
	m := MonthlyTotal{Month: "2025-03", Total: decimal.NewFromFloat(150.005)}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"month":"2025-03","total":150.01}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestBudgetOverage_MarshalJSON(t *testing.T) {
	b := BudgetOverage{
		Month: "2025-01",
		Total: decimal.NewFromFloat(3500),
		Over:  decimal.NewFromFloat(375),
	}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if m["over_amount"] != 375.0 {
		t.Errorf("Expected over_amount 375, got %v", m["over_amount"])
	}
}
