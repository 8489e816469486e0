// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

// NewMCPServer initializes and configures the Census MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, transport contract.Transport, cache *core.ResultCache, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Census Demographics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:   baseCfg,
		transport: transport,
		cache:     cache,
		mgr:       mgr,
	}

	// --- 1. Tool: get_demographic_data ---
	s.AddTool(mcp.NewTool("get_demographic_data",
		mcp.WithDescription("Fetch ACS demographic data for a geography level and return a dashboard payload with rows, statistics, insights and charts."),
		mcp.WithString("geography_level", mcp.Description("Geography level (us, state, county, place, zip code tabulation area). Aliases like 'cities' or 'zip code' are accepted."), mcp.Required()),
		mcp.WithString("variables", mcp.Description("Comma-separated variable names (e.g. 'total_population,median_household_income').")),
		mcp.WithString("derived_metrics", mcp.Description("Comma-separated derived metric keys (e.g. 'unemployment_percentage').")),
		mcp.WithString("state_name", mcp.Description("State name to scope the query (e.g. 'California').")),
		mcp.WithString("zip_code_tabulation_area", mcp.Description("Specific ZCTA code to query.")),
		mcp.WithNumber("year", mcp.Description("ACS survey year. Defaults to the configured year.")),
	), h.handleGetDemographicData)

	// --- 2. Tool: get_time_series ---
	s.AddTool(mcp.NewTool("get_time_series",
		mcp.WithDescription("Aggregate ACS data across a year range and compute per-entity trend metrics (percent change, CAGR, extremes, movers)."),
		mcp.WithString("geography_level", mcp.Description("Geography level (us, state, county, place, zip code tabulation area)."), mcp.Required()),
		mcp.WithString("variables", mcp.Description("Comma-separated variable names.")),
		mcp.WithString("derived_metrics", mcp.Description("Comma-separated derived metric keys.")),
		mcp.WithString("primary_variable", mcp.Description("Variable or metric whose values form the series. Defaults to the first requested variable.")),
		mcp.WithString("state_name", mcp.Description("State name to scope the query.")),
		mcp.WithString("zip_code_tabulation_area", mcp.Description("Specific ZCTA code to query.")),
		mcp.WithNumber("start_year", mcp.Description("First year of the range (inclusive).")),
		mcp.WithNumber("end_year", mcp.Description("Last year of the range (inclusive).")),
	), h.handleGetTimeSeries)

	// --- 3. Tool: get_summary_statistics ---
	s.AddTool(mcp.NewTool("get_summary_statistics",
		mcp.WithDescription("Compute mean, median, min and max for one variable across a single-year row set."),
		mcp.WithString("geography_level", mcp.Description("Geography level (us, state, county, place, zip code tabulation area)."), mcp.Required()),
		mcp.WithString("variable", mcp.Description("The variable name or code to summarize."), mcp.Required()),
		mcp.WithString("state_name", mcp.Description("State name to scope the query.")),
		mcp.WithNumber("year", mcp.Description("ACS survey year. Defaults to the configured year.")),
	), h.handleGetSummaryStatistics)

	// --- 4. Tool: refine_dashboard_data ---
	s.AddTool(mcp.NewTool("refine_dashboard_data",
		mcp.WithDescription("Filter, sort, limit or year-slice an existing dashboard payload without refetching data."),
		mcp.WithString("dashboard_data", mcp.Description("The dashboard payload to refine, as a JSON object string."), mcp.Required()),
		mcp.WithString("filters", mcp.Description("JSON array of filter conditions: [{\"field\":..., \"operator\":..., \"value\":...}]. Operators: equals, not_equals, contains, gt, gte, lt, lte.")),
		mcp.WithString("sort_by", mcp.Description("Field to sort rows by.")),
		mcp.WithString("sort_direction", mcp.Description("Sort direction: asc (default) or desc."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("limit", mcp.Description("Keep only the first N rows after filtering and sorting.")),
		mcp.WithNumber("year", mcp.Description("Keep only rows tagged with this year.")),
	), h.handleRefineDashboardData)

	return s
}

// StartMCPServer starts the Census MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, transport contract.Transport, cache *core.ResultCache, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, transport, cache, mgr)
	return server.ServeStdio(s)
}
