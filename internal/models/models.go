// Package models defines the normalized transaction record shared by every
// pipeline stage, together with the tolerant amount/date normalizers used
// when loading raw statement exports.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which statement export a record came from
type Source string

const (
	// SourceCard marks records from credit-card exports (positive amounts, expense-only)
	SourceCard Source = "card"
	// SourceChecking marks records from checking-account exports (signed amounts)
	SourceChecking Source = "checking"
)

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}

// IsValid checks if the source is valid
func (s Source) IsValid() bool {
	return s == SourceCard || s == SourceChecking
}

// FlowType labels a checking-account record as an inflow or outflow
type FlowType string

const (
	FlowIn  FlowType = "entrada"
	FlowOut FlowType = "saida"
)

// ISODate is the canonical date layout used throughout the pipeline
const ISODate = "2006-01-02"

// Record represents one normalized statement transaction.
//
// Card records carry Title only; checking records carry the extracted entity
// in Title plus the full raw Description, which is retained for category
// re-derivation and search. Records are immutable once loaded; user edits are
// expressed as overrides keyed by Index, never as mutations.
type Record struct {
	Date        time.Time
	Title       string
	Description string
	Amount      decimal.Decimal
	Category    string
	Source      Source
	Index       int
}

// NewCardRecord creates a credit-card record
func NewCardRecord(date time.Time, title string, amount decimal.Decimal) Record {
	return Record{
		Date:   date,
		Title:  strings.TrimSpace(title),
		Amount: amount,
		Source: SourceCard,
	}
}

// NewCheckingRecord creates a checking-account record
func NewCheckingRecord(date time.Time, entity, description string, amount decimal.Decimal) Record {
	return Record{
		Date:        date,
		Title:       strings.TrimSpace(entity),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Source:      SourceChecking,
	}
}

// ISO returns the record date in YYYY-MM-DD form
func (r *Record) ISO() string {
	return r.Date.Format(ISODate)
}

// MonthKey returns the YYYY-MM grouping key for monthly aggregates
func (r *Record) MonthKey() string {
	return r.Date.Format("2006-01")
}

// Text returns the string the classifier and blacklist match against:
// the raw description for checking records, the title otherwise
func (r *Record) Text() string {
	if r.Source == SourceChecking && r.Description != "" {
		return r.Description
	}
	return r.Title
}

// DedupKey returns the identity tuple used for deduplication.
// Two rows with the same (date, text, amount) are the same economic event.
func (r *Record) DedupKey() string {
	return fmt.Sprintf("%s|%s|%s", r.ISO(), r.Text(), r.Amount.String())
}

// IsInflow returns true for positive signed amounts
func (r *Record) IsInflow() bool {
	return r.Amount.IsPositive()
}

// IsOutflow returns true for negative signed amounts
func (r *Record) IsOutflow() bool {
	return r.Amount.IsNegative()
}

// Flow returns the inflow/outflow label for checking records
func (r *Record) Flow() FlowType {
	if r.Amount.IsNegative() {
		return FlowOut
	}
	return FlowIn
}

// String returns a string representation of the Record
func (r *Record) String() string {
	return fmt.Sprintf("Record{Date: %s, Title: %s, Amount: %s, Category: %s, Source: %s}",
		r.ISO(), r.Title, r.Amount.StringFixed(2), r.Category, r.Source)
}

// MarshalJSON emits the payload shape consumed by the dashboard page:
// amounts as plain numbers rounded to two decimals, dates as YYYY-MM-DD.
// The positional Index is included so the page script keys overrides by it
// rather than by array position, which stops matching the stored overrides
// once count=false records have been folded out of the baseline.
// Checking records additionally expose entity, description and flow type.
func (r Record) MarshalJSON() ([]byte, error) {
	amount, _ := r.Amount.Round(2).Float64()

	if r.Source == SourceChecking {
		return json.Marshal(struct {
			Index       int     `json:"index"`
			Date        string  `json:"date"`
			Amount      float64 `json:"amount"`
			Entity      string  `json:"entity"`
			Description string  `json:"description"`
			Category    string  `json:"category"`
			Type        string  `json:"type"`
		}{
			Index:       r.Index,
			Date:        r.ISO(),
			Amount:      amount,
			Entity:      r.Title,
			Description: r.Description,
			Category:    r.Category,
			Type:        string(r.Flow()),
		})
	}

	return json.Marshal(struct {
		Index    int     `json:"index"`
		Date     string  `json:"date"`
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}{
		Index:    r.Index,
		Date:     r.ISO(),
		Title:    r.Title,
		Amount:   amount,
		Category: r.Category,
	})
}

// ParseAmount converts a locale-formatted amount string to a decimal.
// Whitespace is trimmed and a decimal comma is accepted in place of a point.
// Malformed input yields zero, never an error: a bad amount keeps the record
// as a zero-value entry instead of dropping it.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseISODate parses a YYYY-MM-DD date string.
// Returns a zero time and false on failure; callers drop undateable records.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(ISODate, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseBRDate parses a DD/MM/YYYY date string as used by checking-account
// exports. Requires exactly three numeric parts; returns a zero time and
// false on any failure.
func ParseBRDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	t, err := time.Parse("2/1/2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RoundMoney rounds a monetary value to two-decimal precision.
// Rounding happens at aggregation boundaries, never on intermediate sums.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
