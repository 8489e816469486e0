// Package core has core logic for query resolution, aggregation and refinement.
package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// Validation errors surfaced to callers as structured results.
// These are never retried and never partially applied.
var (
	ErrInvalidGeography     = errors.New("invalid geography level")
	ErrUnsupportedGeography = errors.New("unsupported geography level")
	ErrMissingParameter     = errors.New("no variables or derived metrics provided")
	ErrUnknownVariable      = errors.New("unknown variables")
	ErrUnknownMetric        = errors.New("unknown derived metrics")
	ErrMissingParent        = errors.New("missing parent geography")
	ErrMissingPrimaryMetric = errors.New("no primary variable or metric to track")
	ErrInvalidRange         = errors.New("invalid year range")
)

// ResolveInput is a loosely-specified demographic query as it arrives from a
// CLI flag set or an AI tool call. Everything is optional except the level.
type ResolveInput struct {
	GeographyLevel string   `json:"geography_level"`
	Variables      []string `json:"variables,omitempty"`
	DerivedMetrics []string `json:"derived_metrics,omitempty"`
	StateName      string   `json:"state_name,omitempty"`
	CountyName     string   `json:"county_name,omitempty"`
	PlaceName      string   `json:"place_name,omitempty"`
	TractCode      string   `json:"tract_code,omitempty"`
	ZCTACode       string   `json:"zip_code_tabulation_area,omitempty"`
}

// ResolveRequest validates and normalizes a logical query into an executable
// request descriptor. It fails fast on validation problems, collecting every
// unknown variable or metric name rather than stopping at the first.
func ResolveRequest(in ResolveInput) (*schema.RequestDescriptor, error) {
	// --- 1. Normalize geography level ---
	level, known := schema.NormalizeGeoLevel(in.GeographyLevel)
	if !known {
		return nil, fmt.Errorf("%w: %q. Supported levels: %s", ErrInvalidGeography, in.GeographyLevel, supportedLevels())
	}

	if len(in.Variables) == 0 && len(in.DerivedMetrics) == 0 {
		return nil, ErrMissingParameter
	}

	// --- 2. Resolve variable names and metric keys ---
	codeByName := make(map[string]string)
	var codes []string
	var unknownVars []string
	addVariable := func(name string) {
		normalized := strings.ToLower(strings.TrimSpace(name))
		code, ok := schema.VariableMap[normalized]
		if !ok {
			unknownVars = append(unknownVars, name)
			return
		}
		codeByName[normalized] = code
		if !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}

	for _, name := range in.Variables {
		addVariable(name)
	}

	var metrics []schema.MetricKey
	var unknownMetrics []string
	for _, key := range in.DerivedMetrics {
		mk := schema.MetricKey(strings.ToLower(strings.TrimSpace(key)))
		metric, ok := schema.DerivedMetricsMap[mk]
		if !ok {
			unknownMetrics = append(unknownMetrics, key)
			continue
		}
		metrics = append(metrics, mk)
		for _, required := range metric.RequiredVariables {
			addVariable(required)
		}
	}

	if len(unknownVars) > 0 {
		return nil, fmt.Errorf("%w: %s. Please check available variables", ErrUnknownVariable, strings.Join(unknownVars, ", "))
	}
	if len(unknownMetrics) > 0 {
		return nil, fmt.Errorf("%w: %s. Please check available metrics", ErrUnknownMetric, strings.Join(unknownMetrics, ", "))
	}

	// NAME rides along on every request so rows carry a display name.
	if !slices.Contains(codes, schema.NameField) {
		codes = append(codes, schema.NameField)
	}

	desc := &schema.RequestDescriptor{
		Level:         level,
		VariableCodes: codes,
		CodeByName:    codeByName,
		Metrics:       metrics,
		InClauses:     make(map[string]string),
	}

	// --- 3. Build the geography query fragments per level ---
	if err := buildGeoClauses(desc, level, in); err != nil {
		return nil, err
	}
	return desc, nil
}

// buildGeoClauses fills in the for/in query fragments using the level-specific
// addressing rules of the Census API.
func buildGeoClauses(desc *schema.RequestDescriptor, level schema.GeoLevel, in ResolveInput) error {
	switch level {
	case schema.USLevel:
		// Single synthetic record for the whole nation.
		desc.ForClause = "us:1"

	case schema.StateLevel:
		if in.StateName == "" {
			desc.ForClause = "state:*"
			return nil
		}
		fips, err := resolveStateFIPS(in.StateName)
		if err != nil {
			return err
		}
		desc.StateFIPS = fips
		desc.ForClause = "state:" + fips

	case schema.CountyLevel, schema.PlaceLevel:
		if in.StateName == "" {
			return fmt.Errorf("%w: state name is required for %s-level queries", ErrMissingParent, level)
		}
		fips, err := resolveStateFIPS(in.StateName)
		if err != nil {
			return err
		}
		desc.StateFIPS = fips
		desc.ForClause = string(level) + ":*"
		desc.InClauses["state"] = fips

	case schema.ZCTALevel:
		if in.ZCTACode != "" {
			desc.ForClause = "zip code tabulation area:" + in.ZCTACode
			return nil
		}
		desc.ForClause = "zip code tabulation area:*"
		if in.StateName != "" {
			fips, err := resolveStateFIPS(in.StateName)
			if err != nil {
				return err
			}
			desc.StateFIPS = fips
			desc.InClauses["state"] = fips
		}

	default:
		// Tract and finer, plus levels with no addressing rules yet.
		return fmt.Errorf("%w: %q. Supported levels: us, state, county, place, zip code tabulation area", ErrUnsupportedGeography, level)
	}
	return nil
}

// resolveStateFIPS looks up a state FIPS code by case-insensitive name.
func resolveStateFIPS(stateName string) (string, error) {
	fips, ok := schema.StateFIPSMap[strings.ToLower(strings.TrimSpace(stateName))]
	if !ok {
		return "", fmt.Errorf("%w: invalid state name %q", ErrMissingParent, stateName)
	}
	return fips, nil
}

// supportedLevels renders the known hierarchy keys for error messages.
func supportedLevels() string {
	levels := make([]string, 0, len(schema.GeographyHierarchy))
	for level := range schema.GeographyHierarchy {
		levels = append(levels, string(level))
	}
	slices.Sort(levels)
	return strings.Join(levels, ", ")
}
