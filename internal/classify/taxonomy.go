// Package classify maps free-text transaction descriptions to a closed
// category taxonomy, extracts counterparty entities, and filters known noise
// entries. All functions here are pure: they can be re-run identically
// whenever the rule tables change without re-ingesting source files.
package classify

// CategoryOthers is the catch-all expense category
const CategoryOthers = "Outros"

// CategoryOtherIncome is the catch-all income category
const CategoryOtherIncome = "Outras entradas"

// EntityUnknown is the sentinel entity for empty descriptions
const EntityUnknown = "Desconhecido"

// ExpenseCategories is the master list of outflow categories, shared by the
// card and checking domains and surfaced in the dashboard dropdowns.
var ExpenseCategories = []string{
	"Transporte",
	"Lazer",
	"Financiamento e consórcio",
	"Educação",
	"Saneamento básico",
	"Outro centro de custo (trabalho)",
	"Manutenção",
	"Impostos e taxas",
	"Comunicação",
	"Despesas esporádicas",
	"Esporte",
	"Assinaturas",
	"Desenvolvimento pessoal",
	"Eventos",
	"Presentes",
	"Higiene",
	"Saúde",
	"Academia",
	"Pedágio",
	"Lanche padaria e outros alimentos",
	"Manutenção veicular",
	"Restaurante",
	"Combustível",
	"Mercado",
	"Açougue",
	"Fruteira",
	"Loja e Bazar",
	"Vestuário e higiene pessoal",
	"Manutenção residencial",
	"Educação e Desenvolvimento pessoal",
	"Vestuário",
	"Pagamento cartão",
	"Investimentos",
	"Boletos e outros",
	"Pagamento de Fornecedores",
	CategoryOthers,
}

// IncomeCategories is the master list of inflow categories
var IncomeCategories = []string{
	"Salário / Transferência",
	"Recebimento de Clientes",
	"Investimentos (resgate)",
	CategoryOtherIncome,
}

// AllCategories returns the income and expense lists merged in order,
// without duplicates. Used to populate the dashboard category dropdowns.
func AllCategories() []string {
	seen := make(map[string]bool, len(IncomeCategories)+len(ExpenseCategories))
	out := make([]string, 0, len(IncomeCategories)+len(ExpenseCategories))

	for _, lists := range [][]string{IncomeCategories, ExpenseCategories} {
		for _, c := range lists {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}

	return out
}
