package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// TimeSeriesInput is a multi-year demographic query. Year bounds of zero fall
// back to the configured defaults. PrimaryVariable names the variable or
// derived metric whose trajectory is tracked per entity; when empty, the first
// requested variable (then metric) is used.
type TimeSeriesInput struct {
	ResolveInput
	StartYear       int    `json:"start_year,omitempty"`
	EndYear         int    `json:"end_year,omitempty"`
	PrimaryVariable string `json:"primary_variable,omitempty"`
}

// yearResult is the outcome of one per-year fetch.
type yearResult struct {
	year int
	rows []schema.Row
	err  error
}

// GetTimeSeries resolves the request, fans out one fetch per year in the range,
// and reduces the rows into per-entity series with trend metrics. Individual
// year failures degrade the aggregate instead of aborting it. Results are
// cached by request signature; cache reads and writes are deep-copy isolated,
// and a cache hit never touches the transport.
func GetTimeSeries(ctx context.Context, cfg *contract.Config, transport contract.Transport, cache *ResultCache, mgr contract.CacheManager, in TimeSeriesInput) (*schema.TimeSeriesResult, error) {
	desc, primaryCode, primaryLabel, err := resolveTimeSeriesRequest(cfg, &in)
	if err != nil {
		return nil, err
	}

	startYear, endYear, err := clampYearRange(cfg, in.StartYear, in.EndYear)
	if err != nil {
		return nil, err
	}

	// --- 1. Cache lookup ---
	key := cacheKey(desc, primaryCode, startYear, endYear)
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			return cached, nil
		}
	}

	// --- 2. Concurrent per-year fetches ---
	years := make([]int, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		years = append(years, y)
	}
	runID := beginQueryLog(mgr, in, startYear, endYear)
	results := fetchYearsConcurrently(ctx, cfg, transport, desc, years)

	// --- 3. Reduce rows into per-entity series ---
	result := assembleTimeSeries(desc, primaryCode, primaryLabel, years, results)
	endQueryLog(mgr, runID, results)

	// --- 4. Cache and return ---
	if cache != nil {
		cache.Put(key, result)
		// Return the cached deep copy so the stored value stays isolated.
		if cached, ok := cache.Get(key); ok {
			return cached, nil
		}
	}
	return result, nil
}

// resolveTimeSeriesRequest resolves the descriptor and picks the primary
// metric code whose per-year values feed the series.
func resolveTimeSeriesRequest(_ *contract.Config, in *TimeSeriesInput) (*schema.RequestDescriptor, string, string, error) {
	primary := strings.ToLower(strings.TrimSpace(in.PrimaryVariable))
	if primary == "" {
		if len(in.Variables) > 0 {
			primary = strings.ToLower(strings.TrimSpace(in.Variables[0]))
		} else if len(in.DerivedMetrics) > 0 {
			primary = strings.ToLower(strings.TrimSpace(in.DerivedMetrics[0]))
		}
	}
	if primary == "" {
		return nil, "", "", ErrMissingPrimaryMetric
	}

	// Make sure the primary is part of the request before resolving.
	if _, isMetric := schema.DerivedMetricsMap[schema.MetricKey(primary)]; isMetric {
		if !containsFold(in.DerivedMetrics, primary) {
			in.DerivedMetrics = append(in.DerivedMetrics, primary)
		}
	} else if !containsFold(in.Variables, primary) {
		in.Variables = append(in.Variables, primary)
	}

	desc, err := ResolveRequest(in.ResolveInput)
	if err != nil {
		return nil, "", "", err
	}

	// Derived metrics are stored in rows under their own key; raw variables
	// under their Census code.
	if _, isMetric := schema.DerivedMetricsMap[schema.MetricKey(primary)]; isMetric {
		return desc, primary, schema.MetricLabel(schema.MetricKey(primary)), nil
	}
	code := desc.CodeByName[primary]
	return desc, code, schema.VariableLabel(code), nil
}

// clampYearRange applies defaults, clamps into the configured bounds and
// rejects inverted ranges.
func clampYearRange(cfg *contract.Config, start, end int) (int, int, error) {
	if start == 0 {
		start = cfg.StartYear
	}
	if start == 0 {
		start = cfg.MinYear
	}
	if end == 0 {
		end = cfg.EndYear
	}
	if end == 0 {
		end = cfg.MaxYear
	}
	start = min(max(start, cfg.MinYear), cfg.MaxYear)
	end = min(max(end, cfg.MinYear), cfg.MaxYear)
	if start > end {
		return 0, 0, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRange, start, end)
	}
	return start, end, nil
}

// fetchYearsConcurrently runs one FetchYear call per year through a worker
// pool and gathers every outcome. Nothing is written to shared state until all
// years resolve, so cancellation mid-flight cannot corrupt the aggregate.
func fetchYearsConcurrently(ctx context.Context, cfg *contract.Config, transport contract.Transport, desc *schema.RequestDescriptor, years []int) map[int]yearResult {
	yearCh := make(chan int, len(years))
	resultCh := make(chan yearResult, len(years))
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	for range min(workers, len(years)) {
		wg.Go(func() {
			for year := range yearCh {
				rows, err := FetchYear(ctx, transport, desc, year)
				resultCh <- yearResult{year: year, rows: rows, err: err}
			}
		})
	}

	for _, year := range years {
		yearCh <- year
	}
	close(yearCh)
	wg.Wait()
	close(resultCh)

	results := make(map[int]yearResult, len(years))
	for r := range resultCh {
		results[r.year] = r
	}
	return results
}

// assembleTimeSeries reduces per-year rows into the flat output, the
// per-entity series, trend metrics and headline movers.
func assembleTimeSeries(desc *schema.RequestDescriptor, primaryCode, primaryLabel string, years []int, results map[int]yearResult) *schema.TimeSeriesResult {
	result := &schema.TimeSeriesResult{
		Metadata: schema.TimeSeriesMetadata{
			GeographyLevel: desc.Level,
			PrimaryCode:    primaryCode,
			PrimaryLabel:   primaryLabel,
			YearsRequested: years,
		},
	}

	seriesByKey := make(map[string]*schema.SeriesEntry)
	for _, year := range years {
		r := results[year]
		if r.err != nil {
			result.Errors = append(result.Errors, schema.YearError{Year: year, Reason: r.err.Error()})
			continue
		}
		if len(r.rows) == 0 {
			result.Errors = append(result.Errors, schema.YearError{Year: year, Reason: "no data returned"})
			continue
		}
		result.Metadata.YearsReturned = append(result.Metadata.YearsReturned, year)

		for _, row := range r.rows {
			tagged := make(schema.Row, len(row)+1)
			for k, v := range row {
				tagged[k] = v
			}
			tagged[schema.YearField] = year
			result.Rows = append(result.Rows, tagged)

			key := entityKey(desc.Level, row)
			entry, ok := seriesByKey[key]
			if !ok {
				entry = &schema.SeriesEntry{Key: key, Name: row.Name()}
				seriesByKey[key] = entry
			}
			point := schema.SeriesPoint{Year: year, RawValue: row[primaryCode]}
			if v, ok := schema.CoerceFloat(row[primaryCode]); ok {
				point.Value = schema.Float64Ptr(v)
			}
			entry.Points = append(entry.Points, point)
		}
	}

	// Sort points within each entry and entries by display name for determinism.
	entries := make([]schema.SeriesEntry, 0, len(seriesByKey))
	for _, entry := range seriesByKey {
		sort.Slice(entry.Points, func(i, j int) bool { return entry.Points[i].Year < entry.Points[j].Year })
		entry.Trend = ComputeTrendMetrics(entry.Points)
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	result.Series = entries

	result.TopAbsoluteMover, result.TopPercentMover = selectMovers(entries)
	result.Metadata.EntityCount = len(entries)
	result.Metadata.SeriesCount = len(entries)
	return result
}

// entityKey builds a stable composite identity from the geography's ancestor
// identifier chain (e.g. state FIPS + county FIPS), falling back to the
// display name when identifiers are absent.
func entityKey(level schema.GeoLevel, row schema.Row) string {
	var parts []string
	for _, field := range schema.AncestorChain(level) {
		if v, ok := row[string(field)]; ok && v != nil {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	if len(parts) == 0 {
		return row.Name()
	}
	return strings.Join(parts, ":")
}

// ComputeTrendMetrics derives change statistics from a year-ordered point
// sequence. Points without a usable value are ignored for the math but still
// appear in the raw series. Returns nil when no point has a value.
func ComputeTrendMetrics(points []schema.SeriesPoint) *schema.TrendMetrics {
	var usable []schema.SeriesPoint
	for _, p := range points {
		if p.Value != nil {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	start, end := usable[0], usable[len(usable)-1]
	metrics := &schema.TrendMetrics{
		StartYear:      start.Year,
		StartValue:     *start.Value,
		EndYear:        end.Year,
		EndValue:       *end.Value,
		AbsoluteChange: *end.Value - *start.Value,
	}

	if *start.Value != 0 {
		metrics.PercentChange = schema.Float64Ptr((*end.Value - *start.Value) / *start.Value * 100)
	}
	if span := end.Year - start.Year; span > 0 && *start.Value > 0 {
		cagr := (math.Pow(*end.Value / *start.Value, 1/float64(span)) - 1) * 100
		metrics.CAGR = schema.Float64Ptr(cagr)
	}

	maxPoint, minPoint := usable[0], usable[0]
	for _, p := range usable[1:] {
		if *p.Value > *maxPoint.Value {
			maxPoint = p
		}
		if *p.Value < *minPoint.Value {
			minPoint = p
		}
	}
	metrics.MaxPoint = &maxPoint
	metrics.MinPoint = &minPoint
	return metrics
}

// selectMovers picks the entries with the greatest absolute and percent change.
// Entries with undefined metrics are skipped; ties keep the first maximal
// element in display-name order.
func selectMovers(entries []schema.SeriesEntry) (absMover, pctMover *schema.SeriesEntry) {
	var bestAbs, bestPct float64
	for i := range entries {
		trend := entries[i].Trend
		if trend == nil {
			continue
		}
		if abs := math.Abs(trend.AbsoluteChange); absMover == nil || abs > bestAbs {
			absMover = &entries[i]
			bestAbs = abs
		}
		if trend.PercentChange != nil {
			if pct := math.Abs(*trend.PercentChange); pctMover == nil || pct > bestPct {
				pctMover = &entries[i]
				bestPct = pct
			}
		}
	}
	return absMover, pctMover
}

// beginQueryLog records the start of a multi-year run when a query-log store
// is configured. Logging failures never affect the query.
func beginQueryLog(mgr contract.CacheManager, in TimeSeriesInput, startYear, endYear int) int64 {
	if mgr == nil {
		return 0
	}
	store := mgr.GetQueryLogStore()
	if store == nil {
		return 0
	}
	runID, err := store.BeginRun(time.Now().Unix(), map[string]any{
		"geography_level": in.GeographyLevel,
		"variables":       in.Variables,
		"derived_metrics": in.DerivedMetrics,
		"primary":         in.PrimaryVariable,
		"start_year":      startYear,
		"end_year":        endYear,
	})
	if err != nil {
		return 0
	}
	return runID
}

// endQueryLog records per-year outcomes and completes the run.
func endQueryLog(mgr contract.CacheManager, runID int64, results map[int]yearResult) {
	if mgr == nil || runID == 0 {
		return
	}
	store := mgr.GetQueryLogStore()
	if store == nil {
		return
	}
	total := 0
	for _, r := range results {
		errMsg := ""
		if r.err != nil {
			errMsg = r.err.Error()
		}
		_ = store.RecordYear(runID, r.year, len(r.rows), errMsg)
		total += len(r.rows)
	}
	_ = store.EndRun(runID, time.Now().Unix(), total)
}

// containsFold reports whether list contains s, ignoring case and whitespace.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), s) {
			return true
		}
	}
	return false
}
