// Package store consolidates raw record batches into the single
// deduplicated, windowed, canonically sorted sequence that every aggregate
// is computed from. The sort order also fixes the positional indices that
// overrides key against, so it must stay deterministic.
package store

import (
	"sort"
	"time"

	"finfeed/internal/models"
	"finfeed/pkg/logger"
)

// trailingWindowDays is the lookback used for the rolling consolidation window
const trailingWindowDays = 365

// WindowFunc decides whether a record date falls inside the active window
type WindowFunc func(time.Time) bool

// AllDates returns a window that accepts every date
func AllDates() WindowFunc {
	return func(time.Time) bool { return true }
}

// CalendarYear returns a window restricted to a fixed calendar year
func CalendarYear(year int) WindowFunc {
	return func(t time.Time) bool { return t.Year() == year }
}

// TrailingWindow returns a window covering the 365 days up to and including
// the latest date, matching the rolling credit-card consolidation.
func TrailingWindow(latest time.Time) WindowFunc {
	cutoff := latest.AddDate(0, 0, -trailingWindowDays)
	return func(t time.Time) bool { return !t.Before(cutoff) }
}

// LatestDate returns the most recent record date, or a zero time for an
// empty set
func LatestDate(records []models.Record) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}

// Merge flattens multiple source batches (one per export file) into a single
// stream, preserving batch order
func Merge(batches ...[]models.Record) []models.Record {
	var out []models.Record
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

// Dedupe removes exact duplicates by (date, text, amount) identity.
// The first occurrence wins; later duplicates are dropped silently.
// Idempotent: Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(records []models.Record) []models.Record {
	seen := make(map[string]bool, len(records))
	out := make([]models.Record, 0, len(records))

	for _, r := range records {
		key := r.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	return out
}

// Filter keeps records whose date falls inside the window
func Filter(records []models.Record, window WindowFunc) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if window(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records ascending by (date, title, amount). Stable and
// deterministic: this is the canonical iteration order for aggregation and
// for the positional indices overrides key against.
func Sort(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Amount.LessThan(b.Amount)
	})
}

// Consolidate merges batches, dedupes, applies the window, sorts
// canonically, and assigns positional indices.
func Consolidate(batches [][]models.Record, window WindowFunc) []models.Record {
	log := logger.GetGlobalLogger().WithComponent("store")

	merged := Merge(batches...)
	deduped := Dedupe(merged)
	windowed := Filter(deduped, window)
	Sort(windowed)

	for i := range windowed {
		windowed[i].Index = i
	}

	log.WithFields(logger.Fields{
		"raw_records":  len(merged),
		"deduplicated": len(merged) - len(deduped),
		"windowed_out": len(deduped) - len(windowed),
		"final":        len(windowed),
	}).Info("Consolidated record batches")

	return windowed
}
