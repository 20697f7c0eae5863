package aggregate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// monthNames maps the MM part of a month key to its Portuguese name, used
// in the narrative lines. Unknown keys fall back to the raw month key.
var monthNames = map[string]string{
	"01": "janeiro", "02": "fevereiro", "03": "março", "04": "abril",
	"05": "maio", "06": "junho", "07": "julho", "08": "agosto",
	"09": "setembro", "10": "outubro", "11": "novembro", "12": "dezembro",
}

func monthLabel(monthKey string) string {
	if len(monthKey) < 2 {
		return monthKey
	}
	if name, ok := monthNames[monthKey[len(monthKey)-2:]]; ok {
		return name
	}
	return monthKey
}

// FormatBRL renders an amount in Brazilian currency style: thousands
// separated by dots, decimals by a comma, e.g. "R$ 3.125,00".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, strings.Join(groups, "."), fracPart)
}

// Recommendations derives the narrative insight lines shown on the
// dashboard. Pure and deterministic: the same aggregates always yield the
// same text, in the same order. The worst overage month is the one with the
// maximum over amount; ties keep the earliest month because OverBudget
// emits months in ascending order and the comparison is strict.
func (e *Engine) Recommendations(byCategory []CategoryTotal, byMonth []MonthlyTotal, overBudget []BudgetOverage, total decimal.Decimal) []string {
	var lines []string

	if len(overBudget) > 0 {
		worst := overBudget[0]
		for _, o := range overBudget[1:] {
			if o.Over.GreaterThan(worst.Over) {
				worst = o
			}
		}
		lines = append(lines, fmt.Sprintf(
			"Em %d dos 12 meses o gasto no cartão ultrapassou o teto de %s. O pior foi em %s, com R$ %s acima do teto. Vale definir alertas ou revisar compras na segunda quinzena quando estiver se aproximando do limite.",
			len(overBudget), FormatBRL(e.Budget), monthLabel(worst.Month), worst.Over.StringFixed(2)))
	}

	if len(byCategory) > 0 {
		top := byCategory
		if len(top) > 3 {
			top = top[:3]
		}
		names := make([]string, 0, len(top))
		for _, c := range top {
			names = append(names, c.Category)
		}
		lines = append(lines, fmt.Sprintf(
			"As categorias que mais pesaram no cartão em 2025 foram: %s. Concentrar cortes ou limites nessas áreas tende a dar o maior efeito no total.",
			strings.Join(names, ", ")))
	}

	lines = append(lines,
		"Considerar um limite semanal (ex.: R$ 750) para despesas do cartão, além do teto mensal, ajuda a evitar picos no fim do mês.",
		"Manter este dashboard atualizado em 2026 e conferir semanalmente os totais por categoria e por mês ajuda a corrigir o curso antes de estourar o orçamento.")

	return lines
}
