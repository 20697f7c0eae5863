package store

import (
	"testing"
	"time"

	"finfeed/internal/models"

	"github.com/shopspring/decimal"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func card(y, m, d int, title string, amount float64) models.Record {
	return models.NewCardRecord(date(y, m, d), title, decimal.NewFromFloat(amount))
}

func TestDedupe(t *testing.T) {
	a := card(2025, 3, 15, "Supermercado", 100)
	b := card(2025, 3, 15, "Supermercado", 100)
	c := card(2025, 3, 15, "Supermercado", 200)

	got := Dedupe([]models.Record{a, b, c})

	if len(got) != 2 {
		t.Fatalf("Expected 2 records after dedupe, got %d", len(got))
	}
	if !got[0].Amount.Equal(a.Amount) || !got[1].Amount.Equal(c.Amount) {
		t.Error("Expected first occurrence to win and order to be preserved")
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	records := []models.Record{
		card(2025, 1, 1, "A", 10),
		card(2025, 1, 1, "A", 10),
		card(2025, 1, 2, "B", 20),
	}

	once := Dedupe(records)
	twice := Dedupe(once)

	if len(once) != len(twice) {
		t.Errorf("Dedupe not idempotent: %d then %d records", len(once), len(twice))
	}
}

func TestDedupe_CrossBatch(t *testing.T) {
	// The same statement row exported in two overlapping files collapses
	batch1 := []models.Record{card(2025, 2, 10, "Posto", 150)}
	batch2 := []models.Record{card(2025, 2, 10, "Posto", 150), card(2025, 2, 11, "Posto", 80)}

	got := Dedupe(Merge(batch1, batch2))

	if len(got) != 2 {
		t.Errorf("Expected cross-batch duplicate to collapse, got %d records", len(got))
	}
}

func TestWindows(t *testing.T) {
	latest := date(2025, 6, 30)

	tests := []struct {
		name   string
		window WindowFunc
		date   time.Time
		want   bool
	}{
		{
			name:   "Trailing window includes latest date",
			window: TrailingWindow(latest),
			date:   latest,
			want:   true,
		},
		{
			name:   "Trailing window includes cutoff boundary",
			window: TrailingWindow(latest),
			date:   latest.AddDate(0, 0, -365),
			want:   true,
		},
		{
			name:   "Trailing window excludes day before cutoff",
			window: TrailingWindow(latest),
			date:   latest.AddDate(0, 0, -366),
			want:   false,
		},
		{
			name:   "Calendar year includes January 1st",
			window: CalendarYear(2025),
			date:   date(2025, 1, 1),
			want:   true,
		},
		{
			name:   "Calendar year excludes previous December",
			window: CalendarYear(2025),
			date:   date(2024, 12, 31),
			want:   false,
		},
		{
			name:   "AllDates accepts anything",
			window: AllDates(),
			date:   date(1999, 1, 1),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window(tt.date); got != tt.want {
				t.Errorf("window(%s) = %v, want %v", tt.date.Format(models.ISODate), got, tt.want)
			}
		})
	}
}

func TestLatestDate(t *testing.T) {
	records := []models.Record{
		card(2025, 1, 5, "A", 10),
		card(2025, 6, 30, "B", 20),
		card(2025, 3, 15, "C", 30),
	}

	got := LatestDate(records)
	if !got.Equal(date(2025, 6, 30)) {
		t.Errorf("LatestDate = %s, want 2025-06-30", got.Format(models.ISODate))
	}

	if !LatestDate(nil).IsZero() {
		t.Error("Expected zero time for empty set")
	}
}

func TestSort_Canonical(t *testing.T) {
	records := []models.Record{
		card(2025, 3, 15, "Zebra", 10),
		card(2025, 3, 15, "Alpha", 50),
		card(2025, 1, 1, "Zebra", 99),
		card(2025, 3, 15, "Alpha", 20),
	}

	Sort(records)

	want := []struct {
		date   string
		title  string
		amount string
	}{
		{"2025-01-01", "Zebra", "99"},
		{"2025-03-15", "Alpha", "20"},
		{"2025-03-15", "Alpha", "50"},
		{"2025-03-15", "Zebra", "10"},
	}

	for i, w := range want {
		r := records[i]
		if r.ISO() != w.date || r.Title != w.title || r.Amount.String() != w.amount {
			t.Errorf("records[%d] = (%s, %s, %s), want (%s, %s, %s)",
				i, r.ISO(), r.Title, r.Amount.String(), w.date, w.title, w.amount)
		}
	}
}

func TestConsolidate(t *testing.T) {
	batch1 := []models.Record{
		card(2025, 3, 15, "B", 20),
		card(2024, 1, 1, "Old", 5), // outside the window
	}
	batch2 := []models.Record{
		card(2025, 3, 15, "B", 20), // duplicate of batch1
		card(2025, 2, 1, "A", 10),
	}

	got := Consolidate([][]models.Record{batch1, batch2}, CalendarYear(2025))

	if len(got) != 2 {
		t.Fatalf("Expected 2 consolidated records, got %d", len(got))
	}

	// Sorted ascending by date, indices assigned in final order
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Errorf("Unexpected order: %s, %s", got[0].Title, got[1].Title)
	}
	for i, r := range got {
		if r.Index != i {
			t.Errorf("records[%d].Index = %d, want %d", i, r.Index, i)
		}
	}
}

func TestConsolidate_Deterministic(t *testing.T) {
	batches := [][]models.Record{{
		card(2025, 5, 1, "Same", 10),
		card(2025, 5, 1, "Same", 30),
		card(2025, 5, 1, "Other", 30),
	}}

	first := Consolidate(batches, AllDates())
	second := Consolidate(batches, AllDates())

	if len(first) != len(second) {
		t.Fatalf("Runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Title != second[i].Title || !first[i].Amount.Equal(second[i].Amount) {
			t.Errorf("Runs disagree at %d: %s vs %s", i, first[i].String(), second[i].String())
		}
	}
}

func TestFilter(t *testing.T) {
	records := []models.Record{
		card(2025, 1, 1, "A", 10),
		card(2024, 12, 31, "B", 20),
	}

	got := Filter(records, CalendarYear(2025))
	if len(got) != 1 || got[0].Title != "A" {
		t.Errorf("Expected only the 2025 record, got %d records", len(got))
	}
}
