package parsers

import (
	"fmt"
	"strings"
)

// CardParserConfig holds configuration for parsing credit-card export CSVs
type CardParserConfig struct {
	DateColumn   string `json:"date_column" mapstructure:"date_column"`
	TitleColumn  string `json:"title_column" mapstructure:"title_column"`
	AmountColumn string `json:"amount_column" mapstructure:"amount_column"`
	HasHeader    bool   `json:"has_header" mapstructure:"has_header"`
	Delimiter    rune   `json:"delimiter" mapstructure:"delimiter"`
}

// Validate checks if the card parser configuration is valid
func (c *CardParserConfig) Validate() error {
	if strings.TrimSpace(c.DateColumn) == "" {
		return fmt.Errorf("date column cannot be empty")
	}
	if strings.TrimSpace(c.TitleColumn) == "" {
		return fmt.Errorf("title column cannot be empty")
	}
	if strings.TrimSpace(c.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}
	return nil
}

// DefaultCardParserConfig matches the stock card export layout:
// date (YYYY-MM-DD), title, amount
func DefaultCardParserConfig() *CardParserConfig {
	return &CardParserConfig{
		DateColumn:   "date",
		TitleColumn:  "title",
		AmountColumn: "amount",
		HasHeader:    true,
		Delimiter:    ',',
	}
}

// CheckingParserConfig holds configuration for parsing checking-account
// export CSVs. DescriptionColumns lists accepted header spellings in
// preference order, since exports alternate between the accented and plain
// forms of the same header.
type CheckingParserConfig struct {
	DateColumn         string   `json:"date_column" mapstructure:"date_column"`
	AmountColumn       string   `json:"amount_column" mapstructure:"amount_column"`
	IdentifierColumn   string   `json:"identifier_column" mapstructure:"identifier_column"`
	DescriptionColumns []string `json:"description_columns" mapstructure:"description_columns"`
	HasHeader          bool     `json:"has_header" mapstructure:"has_header"`
	Delimiter          rune     `json:"delimiter" mapstructure:"delimiter"`
}

// Validate checks if the checking parser configuration is valid
func (c *CheckingParserConfig) Validate() error {
	if strings.TrimSpace(c.DateColumn) == "" {
		return fmt.Errorf("date column cannot be empty")
	}
	if strings.TrimSpace(c.AmountColumn) == "" {
		return fmt.Errorf("amount column cannot be empty")
	}
	if len(c.DescriptionColumns) == 0 {
		return fmt.Errorf("at least one description column is required")
	}
	return nil
}

// DefaultCheckingParserConfig matches the stock checking-account export
// layout: Data (DD/MM/YYYY), Valor (signed), Identificador, Descrição
func DefaultCheckingParserConfig() *CheckingParserConfig {
	return &CheckingParserConfig{
		DateColumn:         "Data",
		AmountColumn:       "Valor",
		IdentifierColumn:   "Identificador",
		DescriptionColumns: []string{"Descrição", "Descricao"},
		HasHeader:          true,
		Delimiter:          ',',
	}
}
