package classify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rule assigns a category when the lower-cased text satisfies every keyword
// group: a group matches when at least one of its keywords is a substring.
// Keywords must be lower case.
type Rule struct {
	Category string
	Match    [][]string
}

// Matches reports whether the rule applies to the given lower-cased text
func (r Rule) Matches(text string) bool {
	for _, group := range r.Match {
		if !containsAny(text, group) {
			return false
		}
	}
	return len(r.Match) > 0
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// Ruleset is an ordered rule table evaluated first-match-wins. Ordering is a
// deliberate tie-break policy: descriptions can match several keyword sets
// (a restaurant name containing a supermarket keyword), and the earlier rule
// decides. Income and expense rules are disjoint subsets selected by the
// sign of the amount; a transaction is never eligible for both.
type Ruleset struct {
	Income          []Rule
	Expense         []Rule
	IncomeFallback  string
	ExpenseFallback string
}

// Categorize returns exactly one category for the given description and
// signed amount. Positive amounts are matched against the income rules,
// everything else against the expense rules. Total: every input maps to a
// category, falling back to the catch-all of its subset.
func (rs *Ruleset) Categorize(description string, amount decimal.Decimal) string {
	text := strings.ToLower(description)

	rules := rs.Expense
	fallback := rs.ExpenseFallback
	if amount.IsPositive() && len(rs.Income) > 0 {
		rules = rs.Income
		fallback = rs.IncomeFallback
	}

	for _, rule := range rules {
		if rule.Matches(text) {
			return rule.Category
		}
	}
	return fallback
}

// anyOf builds a single-group match: one of the keywords must appear
func anyOf(keywords ...string) [][]string {
	return [][]string{keywords}
}

// CardRules returns the rule table for credit-card titles. Card rows are
// positive-only and always expenses, so the income subset is empty and the
// sign is ignored.
func CardRules() *Ruleset {
	return &Ruleset{
		Expense: []Rule{
			{Category: "Alimentação / Supermercado", Match: anyOf("supermerc", "mercado", "hortifruti", "mercearia", "atacad", "fruteira", "carrefour")},
			{Category: "Combustível", Match: anyOf("posto", "gasbom", "gasolina", "abastece")},
			{Category: "Transporte", Match: anyOf("uber", "via sul", "concessionaria", "concessionária", "pedágio")},
			{Category: "Saúde / Academia", Match: anyOf("academia", "prime fit")},
			{Category: "Saúde / Farmácia", Match: anyOf("farmacia", "farmácia", "panvel", "sao joao", "são joão")},
			{Category: "Alimentação / Restaurante", Match: anyOf("ricky", "xis", "lanches", "restaurante", "pizzaria", "buffon", "padaria", "lanchonete", "hamburguer", "minhocaburger", "rancho", "a lenha", "cia do sabor", "cremolatto", "delivery")},
			{Category: "Assinaturas / Serviços", Match: anyOf("google", "youtube", "netflix", "assinatura", "juliocesar", "gemeascel", "conta vivo", "contavivo")},
			{Category: "Beleza / Cuidados", Match: anyOf("barbeiro", "xbeleza", "beleza", "barbearia")},
			{Category: "Estacionamento / Pedágio", Match: anyOf("rede farroupilha", "estacionamento", "estacionamentos")},
			{Category: "Compras / Variedades", Match: anyOf("bazar", "havan", "lojas americanas", "leroy", "amazon")},
		},
		ExpenseFallback: CategoryOthers,
	}
}

// CheckingRules returns the rule table for checking-account descriptions.
// Inflows and outflows are classified against disjoint subsets. The debit
// purchase and PIX transfer rules are narrowed by secondary keyword groups
// before their generic fallbacks.
func CheckingRules() *Ruleset {
	debit := []string{"compra no débito", "compra no debito"}
	pixOut := []string{"transferência enviada pelo pix"}

	return &Ruleset{
		Income: []Rule{
			{Category: "Salário / Transferência", Match: [][]string{{"transferência recebida"}, {"rodrigo ribas", "nu pagamentos"}}},
			{Category: "Transferências recebidas", Match: anyOf("transferência recebida")},
			{Category: "Investimentos (resgate)", Match: anyOf("resgate rdb")},
		},
		IncomeFallback: CategoryOtherIncome,
		Expense: []Rule{
			{Category: "Pagamento cartão", Match: anyOf("pagamento de fatura")},
			{Category: "Impostos", Match: anyOf("receita federal", "ipva", "sefaz")},
			{Category: "Serviços (telefone)", Match: anyOf("telefonica", "tel3")},
			{Category: "Serviços (luz/água)", Match: anyOf("cia estadual de distribui", "cia riograndense de saneamento")},
			{Category: "Investimentos", Match: anyOf("aplicação rdb", "aplicacao rdb")},
			{Category: "Boletos / outros", Match: anyOf("pagamento de boleto")},
			{Category: "Combustível", Match: [][]string{debit, {"posto", "gasolina"}}},
			{Category: "Alimentação / Supermercado", Match: [][]string{debit, {"supermerc", "mercado", "hortifruti"}}},
			{Category: "Alimentação / Restaurante", Match: [][]string{debit, {"restaurante", "lanch", "padaria"}}},
			{Category: "Compras débito", Match: [][]string{debit}},
			{Category: "Transferências PIX (pessoal)", Match: [][]string{pixOut, {"•••"}}},
			{Category: "Compras / Pagamentos online", Match: [][]string{pixOut, {"mercado", "mercadopago", "pagseguro"}}},
			{Category: "Consórcio", Match: [][]string{pixOut, {"consorcio", "consórcio"}}},
			{Category: "Transferências PIX (pessoal)", Match: [][]string{pixOut, {"nubank"}, {"conta"}}},
			{Category: "Transferências PIX / Serviços", Match: [][]string{pixOut}},
		},
		ExpenseFallback: CategoryOthers,
	}
}
