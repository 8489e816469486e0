package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// GetDemographicData is the single-year path: resolve the logical query, fetch
// one year of rows and enrich them with derived metrics. Transport errors
// surface to the caller as user-visible errors.
func GetDemographicData(ctx context.Context, cfg *contract.Config, transport contract.Transport, in ResolveInput, year int) ([]schema.Row, *schema.RequestDescriptor, error) {
	desc, err := ResolveRequest(in)
	if err != nil {
		return nil, nil, err
	}
	if year == 0 {
		year = cfg.Year
	}
	rows, err := FetchYear(ctx, transport, desc, year)
	if err != nil {
		return nil, nil, fmt.Errorf("census API request for %d failed: %w", year, err)
	}
	return rows, desc, nil
}

// ExecuteCensusFetch runs a single-year query and prints the rows.
// It serves as the main entry point for the 'fetch' command.
func ExecuteCensusFetch(ctx context.Context, cfg *contract.Config, transport contract.Transport, in ResolveInput) error {
	start := time.Now()
	rows, desc, err := GetDemographicData(ctx, cfg, transport, in, cfg.Year)
	if err != nil {
		return err
	}
	internal.LogFetchHeader(cfg, string(desc.Level), cfg.Year, len(rows))
	return internal.PrintRowResults(rows, desc, cfg, time.Since(start))
}

// ExecuteCensusDashboard runs a single-year query and prints the assembled
// dashboard payload as JSON.
func ExecuteCensusDashboard(ctx context.Context, cfg *contract.Config, transport contract.Transport, in ResolveInput) error {
	rows, desc, err := GetDemographicData(ctx, cfg, transport, in, cfg.Year)
	if err != nil {
		return err
	}
	payload := BuildDashboard(rows, desc)
	return internal.PrintJSONPayload(payload, cfg)
}

// ExecuteCensusTimeseries runs the multi-year aggregation and prints the
// per-entity series with trend metrics.
func ExecuteCensusTimeseries(ctx context.Context, cfg *contract.Config, transport contract.Transport, cache *ResultCache, mgr contract.CacheManager, in TimeSeriesInput) error {
	start := time.Now()
	result, err := GetTimeSeries(ctx, cfg, transport, cache, mgr, in)
	if err != nil {
		return err
	}
	internal.LogTimeseriesHeader(cfg, string(result.Metadata.GeographyLevel), result.Metadata.PrimaryLabel, result.Metadata.YearsRequested)
	return internal.PrintTimeseriesResults(result, cfg, time.Since(start))
}

// ExecuteCensusStats runs a single-year query and prints summary statistics
// for one variable.
func ExecuteCensusStats(ctx context.Context, cfg *contract.Config, transport contract.Transport, in ResolveInput, variable string) error {
	rows, desc, err := GetDemographicData(ctx, cfg, transport, in, cfg.Year)
	if err != nil {
		return err
	}

	code := strings.ToLower(strings.TrimSpace(variable))
	if resolved, ok := desc.CodeByName[code]; ok {
		code = resolved
	} else if _, isMetric := schema.DerivedMetricsMap[schema.MetricKey(code)]; !isMetric {
		// Accept a raw Census code as-is.
		code = strings.TrimSpace(variable)
	}

	stats := CalculateSummaryStatistics(rows, code)
	return internal.PrintStatsResults(stats, schema.VariableLabel(code), cfg)
}
