// Package aggregate implements the pure reduction functions computed over
// the effective record set: monthly, category and entity totals, ABC
// classification, budget-overage detection, and averages.
//
// The dashboard page re-runs the same reductions in embedded JavaScript
// whenever the user edits an override, so the functions here are kept free
// of I/O and ambient state and must stay value-equivalent with that second
// call site for any effective record set.
package aggregate

import (
	"encoding/json"
	"sort"

	"finfeed/internal/models"

	"github.com/shopspring/decimal"
)

// ABC classification buckets over a ranked entity list
const (
	ABCClassA = "A"
	ABCClassB = "B"
	ABCClassC = "C"
)

// Engine holds the tunable constants the reductions depend on. All of them
// are configuration, never hard-coded in the reduction logic.
type Engine struct {
	// Budget is the monthly spending ceiling used to flag months
	Budget decimal.Decimal
	// ABCCutA and ABCCutB are the cumulative-percentage thresholds for
	// classes A and B (class C is the remainder)
	ABCCutA decimal.Decimal
	ABCCutB decimal.Decimal
	// WeeksPerYear is the fixed denominator for the weekly average
	WeeksPerYear int64
}

// DefaultEngine returns an engine with the reference constants: a monthly
// budget of 3125.00 and Pareto cuts at 80/95.
func DefaultEngine() *Engine {
	return &Engine{
		Budget:       decimal.NewFromFloat(3125.0),
		ABCCutA:      decimal.NewFromInt(80),
		ABCCutB:      decimal.NewFromInt(95),
		WeeksPerYear: 52,
	}
}

// MonthlyTotal is the per-month expense total for the credit-card view
type MonthlyTotal struct {
	Month string
	Total decimal.Decimal
}

// MarshalJSON emits the amount as a plain number rounded to two decimals
func (m MonthlyTotal) MarshalJSON() ([]byte, error) {
	total, _ := m.Total.Round(2).Float64()
	return json.Marshal(struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}{m.Month, total})
}

// FlowTotal is the per-month inflow/outflow split for checking-account and
// consolidated views. Saidas holds the absolute outflow value.
type FlowTotal struct {
	Month    string
	Entradas decimal.Decimal
	Saidas   decimal.Decimal
	Saldo    decimal.Decimal
}

// MarshalJSON emits amounts as plain numbers rounded to two decimals
func (f FlowTotal) MarshalJSON() ([]byte, error) {
	entradas, _ := f.Entradas.Round(2).Float64()
	saidas, _ := f.Saidas.Round(2).Float64()
	saldo, _ := f.Saldo.Round(2).Float64()
	return json.Marshal(struct {
		Month    string  `json:"month"`
		Entradas float64 `json:"entradas"`
		Saidas   float64 `json:"saidas"`
		Saldo    float64 `json:"saldo"`
	}{f.Month, entradas, saidas, saldo})
}

// CategoryTotal is the absolute total per category
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MarshalJSON emits the amount as a plain number rounded to two decimals
func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	total, _ := c.Total.Round(2).Float64()
	return json.Marshal(struct {
		Category string  `json:"category"`
		Total    float64 `json:"total"`
	}{c.Category, total})
}

// EntityTotal is the absolute total and record count per counterparty, with
// ABC class and cumulative percentage filled in by ApplyABC. CumPct and ABC
// stay empty when classification was skipped (non-positive grand total).
type EntityTotal struct {
	Title  string
	Total  decimal.Decimal
	Count  int
	CumPct float64
	ABC    string
}

// MarshalJSON emits the amount as a plain number rounded to two decimals,
// omitting cum_pct/abc when classification was skipped
func (e EntityTotal) MarshalJSON() ([]byte, error) {
	total, _ := e.Total.Round(2).Float64()

	if e.ABC == "" {
		return json.Marshal(struct {
			Title string  `json:"title"`
			Total float64 `json:"total"`
			Count int     `json:"count"`
		}{e.Title, total, e.Count})
	}

	return json.Marshal(struct {
		Title  string  `json:"title"`
		Total  float64 `json:"total"`
		Count  int     `json:"count"`
		CumPct float64 `json:"cum_pct"`
		ABC    string  `json:"abc"`
	}{e.Title, total, e.Count, e.CumPct, e.ABC})
}

// BudgetOverage flags a month whose total exceeded the budget threshold
type BudgetOverage struct {
	Month string
	Total decimal.Decimal
	Over  decimal.Decimal
}

// MarshalJSON emits amounts as plain numbers rounded to two decimals
func (b BudgetOverage) MarshalJSON() ([]byte, error) {
	total, _ := b.Total.Round(2).Float64()
	over, _ := b.Over.Round(2).Float64()
	return json.Marshal(struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
		Over  float64 `json:"over_amount"`
	}{b.Month, total, over})
}

// TotalByMonth groups records by YYYY-MM, sums amounts, and rounds each
// month total to two decimals. Result is sorted ascending by month key.
func (e *Engine) TotalByMonth(records []models.Record) []MonthlyTotal {
	byMonth := make(map[string]decimal.Decimal)
	for _, r := range records {
		m := r.MonthKey()
		byMonth[m] = byMonth[m].Add(r.Amount)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthlyTotal, 0, len(months))
	for _, m := range months {
		out = append(out, MonthlyTotal{Month: m, Total: models.RoundMoney(byMonth[m])})
	}
	return out
}

// FlowByMonth splits signed records into inflows and outflows per month.
// Saidas is stored as an absolute value; Saldo = Entradas - Saidas.
func (e *Engine) FlowByMonth(records []models.Record) []FlowTotal {
	type flows struct {
		in, out decimal.Decimal
	}
	byMonth := make(map[string]*flows)
	for _, r := range records {
		m := r.MonthKey()
		f, ok := byMonth[m]
		if !ok {
			f = &flows{}
			byMonth[m] = f
		}
		if r.Amount.IsPositive() {
			f.in = f.in.Add(r.Amount)
		} else if r.Amount.IsNegative() {
			f.out = f.out.Add(r.Amount.Abs())
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]FlowTotal, 0, len(months))
	for _, m := range months {
		f := byMonth[m]
		out = append(out, FlowTotal{
			Month:    m,
			Entradas: models.RoundMoney(f.in),
			Saidas:   models.RoundMoney(f.out),
			Saldo:    models.RoundMoney(f.in.Sub(f.out)),
		})
	}
	return out
}

// TotalByCategory sums absolute amounts per category, sorted descending by
// total. The sort is stable: ties keep first-encountered order.
func (e *Engine) TotalByCategory(records []models.Record) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, r := range records {
		if _, ok := totals[r.Category]; !ok {
			order = append(order, r.Category)
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount.Abs())
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryTotal{Category: c, Total: models.RoundMoney(totals[c])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// TotalByEntity sums absolute amounts per counterparty title, sorted
// descending by total with stable first-encountered tie order. ABC fields
// are left empty; call ApplyABC to fill them.
func (e *Engine) TotalByEntity(records []models.Record) []EntityTotal {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if _, ok := totals[r.Title]; !ok {
			order = append(order, r.Title)
		}
		totals[r.Title] = totals[r.Title].Add(r.Amount.Abs())
		counts[r.Title]++
	}

	out := make([]EntityTotal, 0, len(order))
	for _, t := range order {
		out = append(out, EntityTotal{Title: t, Total: models.RoundMoney(totals[t]), Count: counts[t]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// ApplyABC walks the descending-sorted entity list accumulating a running
// sum and buckets each entity by the cumulative percentage of the grand
// total reached after including it: A up to the first cut, B up to the
// second, C for the rest. With a non-positive grand total classification is
// skipped and the entities are returned unchanged.
func (e *Engine) ApplyABC(entities []EntityTotal, grandTotal decimal.Decimal) []EntityTotal {
	if !grandTotal.IsPositive() {
		return entities
	}

	hundred := decimal.NewFromInt(100)
	cum := decimal.Zero
	out := make([]EntityTotal, 0, len(entities))

	for _, ent := range entities {
		cum = cum.Add(ent.Total)
		pct := cum.Div(grandTotal).Mul(hundred)

		switch {
		case pct.LessThanOrEqual(e.ABCCutA):
			ent.ABC = ABCClassA
		case pct.LessThanOrEqual(e.ABCCutB):
			ent.ABC = ABCClassB
		default:
			ent.ABC = ABCClassC
		}

		ent.CumPct, _ = pct.Round(1).Float64()
		out = append(out, ent)
	}

	return out
}

// OverBudget returns the months whose total exceeds the budget threshold,
// with the exact overage amount. Months at or below the threshold are
// absent, not zeroed.
func (e *Engine) OverBudget(monthly []MonthlyTotal) []BudgetOverage {
	var out []BudgetOverage
	for _, m := range monthly {
		if m.Total.GreaterThan(e.Budget) {
			out = append(out, BudgetOverage{
				Month: m.Month,
				Total: m.Total,
				Over:  models.RoundMoney(m.Total.Sub(e.Budget)),
			})
		}
	}
	return out
}

// GrandTotal sums all record amounts, rounded to two decimals
func (e *Engine) GrandTotal(records []models.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return models.RoundMoney(sum)
}

// AverageMonthly divides the total by the number of distinct months with
// data, guarding against an empty dataset
func (e *Engine) AverageMonthly(total decimal.Decimal, monthsWithData int) decimal.Decimal {
	if monthsWithData < 1 {
		monthsWithData = 1
	}
	return models.RoundMoney(total.Div(decimal.NewFromInt(int64(monthsWithData))))
}

// AverageWeekly divides the total by a fixed 52-week denominator. This is a
// deliberate approximation, not a calendar-accurate elapsed-weeks average;
// the dashboard copy depends on it.
func (e *Engine) AverageWeekly(total decimal.Decimal) decimal.Decimal {
	return models.RoundMoney(total.Div(decimal.NewFromInt(e.WeeksPerYear)))
}
