package aggregate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"finfeed/internal/models"

	apperrors "finfeed/pkg/errors"
)

// Override is a per-transaction correction keyed by the transaction's
// positional index. Both fields are optional: a nil Category keeps the
// automatic category, a nil Count keeps the transaction included.
type Override struct {
	Category *string `json:"category,omitempty"`
	Count    *bool   `json:"count,omitempty"`
}

// OverrideSet maps positional indices to their corrections. The base
// records are never mutated; overrides are resolved into an effective view.
type OverrideSet map[int]Override

// SetCategory upserts a category correction for the given index. Free-text
// categories are accepted so the user can introduce labels the automatic
// rules do not know about.
func (s OverrideSet) SetCategory(index int, category string) {
	o := s[index]
	o.Category = &category
	s[index] = o
}

// SetCounted upserts an inclusion flag for the given index. Setting it
// twice to the same value is a no-op in effect.
func (s OverrideSet) SetCounted(index int, counted bool) {
	o := s[index]
	o.Count = &counted
	s[index] = o
}

// Clear removes the correction for the given index entirely, restoring the
// automatic category and inclusion.
func (s OverrideSet) Clear(index int) {
	delete(s, index)
}

// Validate checks that every override index addresses a record in a dataset
// of the given size. An override document exported against a different
// dataset is rejected outright rather than half-applied.
func (s OverrideSet) Validate(recordCount int) error {
	for idx := range s {
		if idx >= recordCount {
			return apperrors.ProcessingError("apply_overrides",
				fmt.Errorf("override index %d out of range for %d records", idx, recordCount))
		}
	}
	return nil
}

// Resolve applies the override set to the base records and returns the
// effective view: category substitutions applied, count=false records
// removed. Base records are copied, never mutated, and keep their original
// positional Index so overrides stay stable across re-resolutions.
func Resolve(base []models.Record, overrides OverrideSet) []models.Record {
	out := make([]models.Record, 0, len(base))
	for _, r := range base {
		o, ok := overrides[r.Index]
		if !ok {
			out = append(out, r)
			continue
		}
		if o.Count != nil && !*o.Count {
			continue
		}
		if o.Category != nil {
			r.Category = *o.Category
		}
		out = append(out, r)
	}
	return out
}

// ParseOverrides decodes an override set from its JSON form, an object
// keyed by stringified indices (the dashboard's localStorage layout).
// Unknown or negative indices are rejected.
func ParseOverrides(data []byte) (OverrideSet, error) {
	var raw map[string]Override
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryParse, apperrors.CodeInvalidFormat,
			"invalid override document").
			WithSuggestion("overrides must be a JSON object keyed by transaction index")
	}

	out := make(OverrideSet, len(raw))
	for key, o := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, apperrors.ValidationError(apperrors.CodeInvalidData, "override index", key, err)
		}
		out[idx] = o
	}
	return out, nil
}

// MarshalJSON encodes the set as an object keyed by stringified indices,
// in ascending index order, matching the dashboard's localStorage layout
func (s OverrideSet) MarshalJSON() ([]byte, error) {
	indices := make([]int, 0, len(s))
	for idx := range s {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	raw := make(map[string]Override, len(s))
	for _, idx := range indices {
		raw[strconv.Itoa(idx)] = s[idx]
	}
	return json.Marshal(raw)
}
