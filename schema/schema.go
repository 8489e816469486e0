// Package schema has models, reference data and global variables for all parts of census.
package schema

// Row is a single record returned by the Census API: a flat mapping of
// variable code (plus NAME and the geography's identifying fields) to raw value.
type Row map[string]any

// NameField is the Census variable that carries the entity display name.
const NameField = "NAME"

// Name returns the entity display name for a row, or "Unknown" when absent.
func (r Row) Name() string {
	if name, ok := r[NameField].(string); ok && name != "" {
		return name
	}
	return "Unknown"
}

// RequestDescriptor is a fully resolved, validated Census query. It is produced
// by the request resolver and consumed by the year fetcher.
type RequestDescriptor struct {
	Level         GeoLevel          `json:"level"`           // Normalized geography level
	VariableCodes []string          `json:"variable_codes"`  // Ordered codes to request (always includes NAME)
	CodeByName    map[string]string `json:"code_by_name"`    // User-facing variable name -> Census code
	Metrics       []MetricKey       `json:"derived_metrics"` // Derived metrics to compute per row
	ForClause     string            `json:"for_clause"`      // Target clause, e.g. "county:*"
	InClauses     map[string]string `json:"in_clauses"`      // Parent constraints, e.g. {"state": "06"}
	StateFIPS     string            `json:"state_fips"`      // Resolved state FIPS, if any
}

// SeriesPoint is one year's observation for a single entity.
// Value is nil when the raw value is not numerically parseable.
type SeriesPoint struct {
	Year     int      `json:"year"`
	Value    *float64 `json:"value"`
	RawValue any      `json:"raw_value,omitempty"`
}

// TrendMetrics summarizes change across one entity's series. Start/end anchor on
// the first and last point with a usable value, which is not necessarily the
// query's start and end year. PercentChange is nil when the start value is zero;
// CAGR is nil when the span is zero years or the start value is non-positive.
type TrendMetrics struct {
	StartYear      int          `json:"start_year"`
	StartValue     float64      `json:"start_value"`
	EndYear        int          `json:"end_year"`
	EndValue       float64      `json:"end_value"`
	AbsoluteChange float64      `json:"absolute_change"`
	PercentChange  *float64     `json:"percent_change,omitempty"`
	CAGR           *float64     `json:"cagr,omitempty"`
	MaxPoint       *SeriesPoint `json:"max_point,omitempty"`
	MinPoint       *SeriesPoint `json:"min_point,omitempty"`
}

// SeriesEntry is the multi-year trajectory of one geographic entity.
// Key is a composite of ancestor identifiers (state, county, ...) down to the
// entity's own level, falling back to the display name when identifiers are absent.
type SeriesEntry struct {
	Key    string        `json:"key"`
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"` // Sorted ascending by year
	Trend  *TrendMetrics `json:"trend,omitempty"`
}

// YearError records a year that failed to fetch or returned no rows.
// These are non-fatal: the aggregate is best effort across available years.
type YearError struct {
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// TimeSeriesMetadata describes what a time-series request asked for versus
// what actually came back.
type TimeSeriesMetadata struct {
	GeographyLevel GeoLevel `json:"geography_level"`
	PrimaryCode    string   `json:"primary_code"`
	PrimaryLabel   string   `json:"primary_label"`
	YearsRequested []int    `json:"years_requested"`
	YearsReturned  []int    `json:"years_returned"`
	EntityCount    int      `json:"entity_count"`
	SeriesCount    int      `json:"series_count"`
}

// TimeSeriesResult is the aggregate of per-year fetches across a year range.
type TimeSeriesResult struct {
	Rows             []Row              `json:"rows"` // One per entity per year, tagged with "year"
	Series           []SeriesEntry      `json:"series"`
	TopAbsoluteMover *SeriesEntry       `json:"top_absolute_mover,omitempty"`
	TopPercentMover  *SeriesEntry       `json:"top_percent_mover,omitempty"`
	Metadata         TimeSeriesMetadata `json:"metadata"`
	Errors           []YearError        `json:"errors,omitempty"`
}

// YearField is the key added to flat time-series rows to tag their source year.
const YearField = "year"

// SummaryStats holds distributional statistics for one variable across a
// single-year row set. All float fields are rounded to two decimal places.
type SummaryStats struct {
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Count         int     `json:"count"`
	MinEntityName string  `json:"min_entity_name"`
	MaxEntityName string  `json:"max_entity_name"`
}

// DashboardPayload is a previously assembled bundle of rows plus presentation
// metadata. The refiner treats unknown fields as pass-through.
type DashboardPayload map[string]any

// Chart is one renderable chart block inside a dashboard payload.
type Chart struct {
	ChartType  string       `json:"chart_type"`
	Title      string       `json:"title"`
	VariableID string       `json:"variable_id"`
	Data       []ChartDatum `json:"data"`
}

// ChartDatum is a single named value in a chart.
type ChartDatum struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// VariableInfo pairs a Census variable code with its human-readable label.
type VariableInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
