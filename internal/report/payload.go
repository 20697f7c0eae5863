// Package report assembles the JSON payloads and the static dashboard page
// produced at the end of the pipeline. The payload shapes are a contract
// with the embedded page script: each one carries the full effective record
// list (with stable positional indices) plus every aggregate table, so the
// override/filter/recompute cycle runs entirely in the browser without
// re-contacting this code.
package report

import (
	"encoding/json"
	"io"
	"os"

	"finfeed/internal/aggregate"
	"finfeed/internal/classify"
	"finfeed/internal/models"
	"finfeed/pkg/errors"
	"finfeed/pkg/logger"

	"github.com/shopspring/decimal"
)

// jsonNumber converts a decimal to the plain two-decimal number the
// payloads emit
func jsonNumber(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// CardPayload is the credit-card dashboard dataset
type CardPayload struct {
	Year            int                       `json:"year"`
	BudgetMonthly   float64                   `json:"budget_monthly"`
	OverBudget      []aggregate.BudgetOverage `json:"over_budget_months"`
	Recommendations []string                  `json:"recommendations"`
	Total           float64                   `json:"total"`
	Count           int                       `json:"count"`
	AvgMonthly      float64                   `json:"avg_monthly"`
	AvgWeekly       float64                   `json:"avg_weekly"`
	Expenses        []models.Record           `json:"expenses"`
	ByTitle         []aggregate.EntityTotal   `json:"by_title"`
	ByMonth         []aggregate.MonthlyTotal  `json:"by_month"`
	ByCategory      []aggregate.CategoryTotal `json:"by_category"`
	AllCategories   []string                  `json:"all_categories"`
	MonthsCount     int                       `json:"months_count"`
}

// BuildCardPayload computes every aggregate over the effective card
// expense set and assembles the dashboard dataset
func BuildCardPayload(engine *aggregate.Engine, expenses []models.Record, year int, allCategories []string) *CardPayload {
	log := logger.GetGlobalLogger().WithComponent("report")

	byMonth := engine.TotalByMonth(expenses)
	byCategory := engine.TotalByCategory(expenses)
	total := engine.GrandTotal(expenses)
	byTitle := engine.ApplyABC(engine.TotalByEntity(expenses), total)
	overBudget := engine.OverBudget(byMonth)
	recommendations := engine.Recommendations(byCategory, byMonth, overBudget, total)

	monthsCount := len(byMonth)
	if monthsCount < 1 {
		monthsCount = 1
	}

	budget, _ := engine.Budget.Round(2).Float64()

	log.WithFields(logger.Fields{
		"year":              year,
		"expenses":          len(expenses),
		"months_with_data":  len(byMonth),
		"over_budget_count": len(overBudget),
	}).Info("Built card payload")

	return &CardPayload{
		Year:            year,
		BudgetMonthly:   budget,
		OverBudget:      overBudget,
		Recommendations: recommendations,
		Total:           jsonNumber(total),
		Count:           len(expenses),
		AvgMonthly:      jsonNumber(engine.AverageMonthly(total, len(byMonth))),
		AvgWeekly:       jsonNumber(engine.AverageWeekly(total)),
		Expenses:        expenses,
		ByTitle:         byTitle,
		ByMonth:         byMonth,
		ByCategory:      byCategory,
		AllCategories:   allCategories,
		MonthsCount:     monthsCount,
	}
}

// ConsolidationMeta summarizes a consolidation run: the window applied and
// the record population that survived it
type ConsolidationMeta struct {
	PeriodMonths     int     `json:"period_months"`
	CutoffDate       string  `json:"cutoff_date"`
	MaxDate          string  `json:"max_date"`
	TotalExpenses    float64 `json:"total_expenses"`
	TransactionCount int     `json:"transaction_count"`
	UniqueEntities   int     `json:"unique_entities"`
}

// ConsolidatedCardPayload is the intermediate card dataset written by the
// consolidate step and consumed by the dashboard build
type ConsolidatedCardPayload struct {
	Meta     ConsolidationMeta `json:"meta"`
	Expenses []models.Record   `json:"expenses"`
}

// CheckingMeta summarizes a checking-account consolidation
type CheckingMeta struct {
	Year             int     `json:"year"`
	TransactionCount int     `json:"transaction_count"`
	EntradasTotal    float64 `json:"entradas_total"`
	SaidasTotal      float64 `json:"saidas_total"`
	Saldo            float64 `json:"saldo"`
}

// CheckingPayload is the checking-account dataset: the signed transaction
// list plus the flow, category and entity tables
type CheckingPayload struct {
	Meta          CheckingMeta              `json:"meta"`
	Transactions  []models.Record           `json:"transactions"`
	ByMonth       []aggregate.FlowTotal     `json:"by_month"`
	ByCategory    []aggregate.CategoryTotal `json:"by_category"`
	ByEntity      []aggregate.EntityTotal   `json:"by_entity"`
	AllCategories []string                  `json:"all_categories"`
}

// BuildCheckingPayload computes the flow aggregates over the signed
// checking record set
func BuildCheckingPayload(engine *aggregate.Engine, transactions []models.Record, year int) *CheckingPayload {
	log := logger.GetGlobalLogger().WithComponent("report")

	byMonth := engine.FlowByMonth(transactions)

	entradas := decimal.Zero
	saidas := decimal.Zero
	for _, t := range transactions {
		if t.Amount.IsPositive() {
			entradas = entradas.Add(t.Amount)
		} else if t.Amount.IsNegative() {
			saidas = saidas.Add(t.Amount.Abs())
		}
	}

	var outflows []models.Record
	for _, t := range transactions {
		if t.Amount.IsNegative() {
			outflows = append(outflows, t)
		}
	}
	byCategory := engine.TotalByCategory(outflows)
	byEntity := engine.ApplyABC(engine.TotalByEntity(outflows), models.RoundMoney(saidas))

	log.WithFields(logger.Fields{
		"year":         year,
		"transactions": len(transactions),
		"entradas":     entradas.StringFixed(2),
		"saidas":       saidas.StringFixed(2),
	}).Info("Built checking payload")

	return &CheckingPayload{
		Meta: CheckingMeta{
			Year:             year,
			TransactionCount: len(transactions),
			EntradasTotal:    jsonNumber(entradas),
			SaidasTotal:      jsonNumber(saidas),
			Saldo:            jsonNumber(entradas.Sub(saidas)),
		},
		Transactions:  transactions,
		ByMonth:       byMonth,
		ByCategory:    byCategory,
		ByEntity:      byEntity,
		AllCategories: classify.AllCategories(),
	}
}

// ConsolidatedPayload merges the card and checking domains into one signed
// flow view. Card rows are expense-only with positive amounts, so they are
// negated before joining the signed checking stream.
type ConsolidatedPayload struct {
	Year       int                       `json:"year"`
	Count      int                       `json:"count"`
	ByMonth    []aggregate.FlowTotal     `json:"by_month"`
	ByCategory []aggregate.CategoryTotal `json:"by_category"`
	Saldo      float64                   `json:"saldo"`
}

// BuildConsolidatedPayload joins card expenses (negated into outflows) with
// the signed checking transactions and computes the combined flow tables
func BuildConsolidatedPayload(engine *aggregate.Engine, cardExpenses, checking []models.Record, year int) *ConsolidatedPayload {
	combined := make([]models.Record, 0, len(cardExpenses)+len(checking))
	for _, r := range cardExpenses {
		r.Amount = r.Amount.Neg()
		combined = append(combined, r)
	}
	combined = append(combined, checking...)

	byMonth := engine.FlowByMonth(combined)

	saldo := decimal.Zero
	for _, m := range byMonth {
		saldo = saldo.Add(m.Saldo)
	}

	var outflows []models.Record
	for _, r := range combined {
		if r.Amount.IsNegative() {
			outflows = append(outflows, r)
		}
	}

	return &ConsolidatedPayload{
		Year:       year,
		Count:      len(combined),
		ByMonth:    byMonth,
		ByCategory: engine.TotalByCategory(outflows),
		Saldo:      jsonNumber(saldo),
	}
}

// WriteJSON writes a payload as indented UTF-8 JSON
func WriteJSON(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return errors.InternalError("encode_payload", err)
	}
	return nil
}

// WriteJSONFile writes a payload to the given path
func WriteJSONFile(path string, payload interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.FileError(errors.CodeFileWrite, path, err)
	}
	defer f.Close()

	if err := WriteJSON(f, payload); err != nil {
		return err
	}
	return nil
}
