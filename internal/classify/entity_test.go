package classify

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractEntity(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{
			name:        "Received transfer",
			description: "Transferência Recebida - Nu Pagamentos SA - 00.000.000/0001-00",
			want:        "Nu Pagamentos SA",
		},
		{
			name:        "PIX sent",
			description: "Transferência enviada pelo Pix - FULANO DE TAL - •••.123.456-•• - BANCO",
			want:        "FULANO DE TAL",
		},
		{
			name:        "PIX received",
			description: "Transferência recebida pelo Pix - Ciclano - 123 - BANCO",
			want:        "Ciclano",
		},
		{
			name:        "Boleto payment keeps full remainder",
			description: "Pagamento de boleto efetuado - RECEITA FEDERAL",
			want:        "RECEITA FEDERAL",
		},
		{
			name:        "Debit purchase",
			description: "Compra no débito - Supermercado Nacional",
			want:        "Supermercado Nacional",
		},
		{
			name:        "Invoice payment maps to fixed label",
			description: "Pagamento de fatura - cartão Nubank",
			want:        "Pagamento de fatura",
		},
		{
			name:        "Fund redemption maps to fixed label",
			description: "Resgate RDB - RDB",
			want:        "Resgate RDB",
		},
		{
			name:        "Fund deposit maps to fixed label",
			description: "Aplicação RDB - RDB",
			want:        "Aplicação RDB",
		},
		{
			name:        "No rule keeps description",
			description: "Tarifa de manutenção",
			want:        "Tarifa de manutenção",
		},
		{
			name:        "Empty yields sentinel",
			description: "",
			want:        EntityUnknown,
		},
		{
			name:        "Whitespace only yields sentinel",
			description: "   ",
			want:        EntityUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEntity(tt.description)
			if got != tt.want {
				t.Errorf("ExtractEntity(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestExtractEntity_TruncatesLongFallback(t *testing.T) {
	long := strings.Repeat("á", 120)

	got := ExtractEntity(long)

	if n := utf8.RuneCountInString(got); n != maxEntityLen {
		t.Errorf("Expected fallback truncated to %d runes, got %d", maxEntityLen, n)
	}
	if !utf8.ValidString(got) {
		t.Error("Truncation must not split a multi-byte rune")
	}
}
