package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Plain decimal",
			input: "123.45",
			want:  "123.45",
		},
		{
			name:  "Decimal comma",
			input: "123,45",
			want:  "123.45",
		},
		{
			name:  "Surrounding whitespace",
			input: "  99.90  ",
			want:  "99.9",
		},
		{
			name:  "Negative amount",
			input: "-250.00",
			want:  "-250",
		},
		{
			name:  "Integer",
			input: "42",
			want:  "42",
		},
		{
			name:  "Malformed yields zero",
			input: "abc",
			want:  "0",
		},
		{
			name:  "Empty yields zero",
			input: "",
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if got.String() != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   string
	}{
		{
			name:   "Valid ISO date",
			input:  "2025-03-15",
			wantOK: true,
			want:   "2025-03-15",
		},
		{
			name:   "Trimmed whitespace",
			input:  " 2025-01-01 ",
			wantOK: true,
			want:   "2025-01-01",
		},
		{
			name:   "Brazilian format rejected",
			input:  "15/03/2025",
			wantOK: false,
		},
		{
			name:   "Empty string",
			input:  "",
			wantOK: false,
		},
		{
			name:   "Garbage",
			input:  "not-a-date",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseISODate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseISODate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Format(ISODate) != tt.want {
				t.Errorf("ParseISODate(%q) = %s, want %s", tt.input, got.Format(ISODate), tt.want)
			}
		})
	}
}

func TestParseBRDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   string
	}{
		{
			name:   "Valid Brazilian date",
			input:  "15/03/2025",
			wantOK: true,
			want:   "2025-03-15",
		},
		{
			name:   "Single-digit day and month",
			input:  "5/3/2025",
			wantOK: true,
			want:   "2025-03-05",
		},
		{
			name:   "ISO format rejected",
			input:  "2025-03-15",
			wantOK: false,
		},
		{
			name:   "Two parts only",
			input:  "15/03",
			wantOK: false,
		},
		{
			name:   "Empty string",
			input:  "",
			wantOK: false,
		},
		{
			name:   "Out of range day",
			input:  "32/01/2025",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBRDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseBRDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Format(ISODate) != tt.want {
				t.Errorf("ParseBRDate(%q) = %s, want %s", tt.input, got.Format(ISODate), tt.want)
			}
		})
	}
}

func TestRecord_DedupKey(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	a := NewCardRecord(date, "Supermercado Zaffari", decimal.NewFromFloat(123.45))
	b := NewCardRecord(date, "Supermercado Zaffari", decimal.NewFromFloat(123.45))
	c := NewCardRecord(date, "Supermercado Zaffari", decimal.NewFromFloat(123.46))

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("Expected identical records to share a dedup key: %q vs %q", a.DedupKey(), b.DedupKey())
	}
	if a.DedupKey() == c.DedupKey() {
		t.Errorf("Expected differing amounts to produce distinct dedup keys")
	}
}

func TestRecord_DedupKeyUsesDescriptionForChecking(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	a := NewCheckingRecord(date, "Fulano", "Transferência enviada pelo Pix - Fulano - chave", decimal.NewFromFloat(-50))
	b := NewCheckingRecord(date, "Outro", "Transferência enviada pelo Pix - Fulano - chave", decimal.NewFromFloat(-50))

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("Expected checking dedup identity to come from the description, got %q vs %q", a.DedupKey(), b.DedupKey())
	}
}

func TestRecord_Flow(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	in := NewCheckingRecord(date, "Empresa", "Transferência recebida", decimal.NewFromFloat(1000))
	out := NewCheckingRecord(date, "Posto", "Compra no débito - Posto", decimal.NewFromFloat(-80))

	if in.Flow() != FlowIn {
		t.Errorf("Expected positive amount to be %s, got %s", FlowIn, in.Flow())
	}
	if out.Flow() != FlowOut {
		t.Errorf("Expected negative amount to be %s, got %s", FlowOut, out.Flow())
	}
	if !in.IsInflow() || in.IsOutflow() {
		t.Error("Expected inflow predicates to agree with the sign")
	}
}

func TestRecord_MarshalJSON_Card(t *testing.T) {
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	r := NewCardRecord(date, "Posto Ipiranga", decimal.NewFromFloat(150.005))
	r.Category = "Combustível"
	r.Index = 7

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got["date"] != "2025-06-10" {
		t.Errorf("Expected date 2025-06-10, got %v", got["date"])
	}
	if got["title"] != "Posto Ipiranga" {
		t.Errorf("Expected title to survive, got %v", got["title"])
	}
	if got["amount"] != 150.01 {
		t.Errorf("Expected amount rounded to 150.01, got %v", got["amount"])
	}
	if got["category"] != "Combustível" {
		t.Errorf("Expected category, got %v", got["category"])
	}
	if got["index"] != 7.0 {
		t.Errorf("Expected stable index 7, got %v", got["index"])
	}
	if _, ok := got["entity"]; ok {
		t.Error("Card records must not expose an entity field")
	}
}

func TestRecord_MarshalJSON_Checking(t *testing.T) {
	date := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	r := NewCheckingRecord(date, "Mercado Pago", "Transferência enviada pelo Pix - Mercado Pago", decimal.NewFromFloat(-75.5))
	r.Category = "Compras / Pagamentos online"

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got["entity"] != "Mercado Pago" {
		t.Errorf("Expected entity, got %v", got["entity"])
	}
	if got["type"] != "saida" {
		t.Errorf("Expected type saida, got %v", got["type"])
	}
	if got["amount"] != -75.5 {
		t.Errorf("Expected signed amount -75.5, got %v", got["amount"])
	}
	if _, ok := got["index"]; !ok {
		t.Error("Expected the stable index in the checking shape")
	}
}

func TestRoundMoney(t *testing.T) {
	got := RoundMoney(decimal.NewFromFloat(10.005))
	if got.String() != "10.01" {
		t.Errorf("Expected 10.01, got %s", got.String())
	}
}

func TestSource_IsValid(t *testing.T) {
	if !SourceCard.IsValid() || !SourceChecking.IsValid() {
		t.Error("Expected both known sources to be valid")
	}
	if Source("other").IsValid() {
		t.Error("Expected unknown source to be invalid")
	}
}
