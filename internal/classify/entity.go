package classify

import (
	"regexp"
	"strings"
)

// maxEntityLen bounds fallback entity names so downstream rendering stays sane
const maxEntityLen = 80

// Entity prefix rules, evaluated in order. Capture rules pull the
// counterparty name out of the description; label rules map well-known
// transaction types to a fixed entity.
var (
	reTransferReceived = regexp.MustCompile(`(?i)^Transferência Recebida\s*-\s*(.+?)\s*-\s*`)
	rePixTransfer      = regexp.MustCompile(`(?i)^Transferência (?:enviada|recebida) pelo Pix\s*-\s*(.+?)\s*-\s*`)
	reBoletoPayment    = regexp.MustCompile(`(?i)^Pagamento de boleto efetuado\s*-\s*(.+)`)
	reDebitPurchase    = regexp.MustCompile(`(?i)^Compra no débito\s*-\s*(.+)`)

	reInvoicePayment = regexp.MustCompile(`(?i)Pagamento de fatura`)
	reFundRedemption = regexp.MustCompile(`(?i)Resgate RDB`)
	reFundDeposit    = regexp.MustCompile(`(?i)Aplicação RDB`)
)

// ExtractEntity derives a human-readable counterparty name from a checking
// account description. The first matching rule wins; with no match the
// description itself is used, truncated to 80 characters. Empty input yields
// the Desconhecido sentinel.
func ExtractEntity(description string) string {
	d := strings.TrimSpace(description)
	if d == "" {
		return EntityUnknown
	}

	for _, re := range []*regexp.Regexp{reTransferReceived, rePixTransfer, reBoletoPayment} {
		if m := re.FindStringSubmatch(d); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	switch {
	case reInvoicePayment.MatchString(d):
		return "Pagamento de fatura"
	case reFundRedemption.MatchString(d):
		return "Resgate RDB"
	case reFundDeposit.MatchString(d):
		return "Aplicação RDB"
	}

	if m := reDebitPurchase.FindStringSubmatch(d); m != nil {
		return strings.TrimSpace(m[1])
	}

	if r := []rune(d); len(r) > maxEntityLen {
		return string(r[:maxEntityLen])
	}
	return d
}
