package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// ErrMalformedPayload is returned when a dashboard payload lacks a usable data
// sequence. Payloads arrive from callers of unknown provenance, so this is a
// structured error rather than a panic.
var ErrMalformedPayload = errors.New("malformed dashboard payload")

// FilterCondition is one AND-ed predicate applied to dashboard rows.
type FilterCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// SortSpec orders dashboard rows by one field.
type SortSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"` // "asc" (default) or "desc"
}

// RefineOptions selects the transformations to apply to a dashboard payload.
type RefineOptions struct {
	Filters     []FilterCondition `json:"filters,omitempty"`
	Sort        *SortSpec         `json:"sort,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	CurrentYear int               `json:"current_year,omitempty"`
}

// RefineDashboard applies filter/sort/limit/year-slice to an already-produced
// dashboard payload, purely in memory, without contacting the data source. The
// input is never mutated: all work happens on a deep copy. Unknown payload
// fields pass through untouched; metadata records what was applied.
func RefineDashboard(payload schema.DashboardPayload, opts RefineOptions) (schema.DashboardPayload, error) {
	refined, err := deepCopyPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	rows, ok := refined["data"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing 'data' sequence", ErrMalformedPayload)
	}

	metadata, _ := refined["metadata"].(map[string]any)
	if metadata == nil {
		metadata = make(map[string]any)
		refined["metadata"] = metadata
	}

	var applied []string

	// --- (a) Year slice ---
	if opts.CurrentYear != 0 {
		yearStr := fmt.Sprint(opts.CurrentYear)
		var kept []any
		for _, r := range rows {
			if row, ok := r.(map[string]any); ok && fmt.Sprint(row[schema.YearField]) == yearStr {
				kept = append(kept, r)
			}
		}
		// An empty slice means the hint over-filtered; keep everything instead.
		if len(kept) > 0 {
			rows = kept
			metadata["active_year"] = opts.CurrentYear
			applied = append(applied, fmt.Sprintf("year %d", opts.CurrentYear))
		}
	}

	// --- (b) AND filters ---
	if len(opts.Filters) > 0 {
		var kept []any
		for _, r := range rows {
			row, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if matchesAll(row, opts.Filters) {
				kept = append(kept, r)
			}
		}
		rows = kept
		metadata["applied_filters"] = opts.Filters
		applied = append(applied, fmt.Sprintf("%d filter(s)", len(opts.Filters)))
	}

	// --- (c) Sort ---
	if opts.Sort != nil && opts.Sort.Field != "" {
		sortRows(rows, opts.Sort)
		metadata["applied_sort"] = opts.Sort
		applied = append(applied, fmt.Sprintf("sorted by %s %s", opts.Sort.Field, sortDirection(opts.Sort)))
	}

	// --- (d) Limit ---
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	if opts.Limit > 0 {
		metadata["applied_limit"] = opts.Limit
		applied = append(applied, fmt.Sprintf("limited to %d", opts.Limit))
	}

	refined["data"] = rows

	if len(applied) > 0 {
		if summary, ok := refined["summary_text"].(string); ok && summary != "" {
			refined["summary_text"] = summary + " (refined: " + strings.Join(applied, "; ") + ")"
		}
	}
	return refined, nil
}

// matchesAll evaluates every filter condition against a row (logical AND).
func matchesAll(row map[string]any, filters []FilterCondition) bool {
	for _, f := range filters {
		if !matches(row[f.Field], f) {
			return false
		}
	}
	return true
}

// matches evaluates one condition. Numeric comparisons coerce both sides and
// exclude the row when either side fails to coerce.
func matches(rowValue any, f FilterCondition) bool {
	switch strings.ToLower(f.Operator) {
	case "equals", "eq", "=", "==":
		return valuesEqual(rowValue, f.Value)
	case "not_equals", "neq", "!=":
		return !valuesEqual(rowValue, f.Value)
	case "contains":
		return strings.Contains(
			strings.ToLower(fmt.Sprint(rowValue)),
			strings.ToLower(fmt.Sprint(f.Value)),
		)
	case "gt", ">":
		a, b, ok := coercePair(rowValue, f.Value)
		return ok && a > b
	case "gte", ">=":
		a, b, ok := coercePair(rowValue, f.Value)
		return ok && a >= b
	case "lt", "<":
		a, b, ok := coercePair(rowValue, f.Value)
		return ok && a < b
	case "lte", "<=":
		a, b, ok := coercePair(rowValue, f.Value)
		return ok && a <= b
	default:
		return false
	}
}

// valuesEqual compares numerically when both sides coerce, else by string form.
func valuesEqual(a, b any) bool {
	if fa, fb, ok := coercePairValues(a, b); ok {
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func coercePair(a, b any) (float64, float64, bool) {
	return coercePairValues(a, b)
}

func coercePairValues(a, b any) (float64, float64, bool) {
	fa, okA := schema.CoerceFloat(a)
	fb, okB := schema.CoerceFloat(b)
	return fa, fb, okA && okB
}

// sortRows orders rows by the sort field, numeric-aware with a raw string
// fallback when a value does not coerce.
func sortRows(rows []any, spec *SortSpec) {
	desc := sortDirection(spec) == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		rowI, okI := rows[i].(map[string]any)
		rowJ, okJ := rows[j].(map[string]any)
		if !okI || !okJ {
			return false
		}
		less := lessValues(rowI[spec.Field], rowJ[spec.Field])
		if desc {
			return lessValues(rowJ[spec.Field], rowI[spec.Field])
		}
		return less
	})
}

// lessValues compares two raw values, numerically when possible.
func lessValues(a, b any) bool {
	fa, okA := schema.CoerceFloat(a)
	fb, okB := schema.CoerceFloat(b)
	switch {
	case okA && okB:
		return fa < fb
	case okA != okB:
		// Numeric values sort before non-numeric ones.
		return okA
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}

func sortDirection(spec *SortSpec) string {
	if strings.EqualFold(spec.Direction, "desc") {
		return "desc"
	}
	return "asc"
}

// deepCopyPayload isolates the refiner from its input via a JSON round trip.
func deepCopyPayload(payload schema.DashboardPayload) (schema.DashboardPayload, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out schema.DashboardPayload
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = make(schema.DashboardPayload)
	}
	return out, nil
}
