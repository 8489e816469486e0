package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg   *contract.Config
	transport contract.Transport
	cache     *core.ResultCache
	mgr       contract.CacheManager
}

// splitList parses a comma-separated argument into trimmed, non-empty parts.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// resolveInputFromRequest builds the shared geography arguments for a tool call.
func resolveInputFromRequest(request mcp.CallToolRequest) core.ResolveInput {
	return core.ResolveInput{
		GeographyLevel: request.GetString("geography_level", ""),
		Variables:      splitList(request.GetString("variables", "")),
		DerivedMetrics: splitList(request.GetString("derived_metrics", "")),
		StateName:      request.GetString("state_name", ""),
		CountyName:     request.GetString("county_name", ""),
		PlaceName:      request.GetString("place_name", ""),
		ZCTACode:       request.GetString("zip_code_tabulation_area", ""),
	}
}

func (h *toolHandler) handleGetDemographicData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if y := request.GetInt("year", 0); y > 0 {
		cfg.Year = y
	}

	in := resolveInputFromRequest(request)
	rows, desc, err := core.GetDemographicData(ctx, cfg, h.transport, in, cfg.Year)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("demographic query failed: %v", err)), nil
	}

	payload := core.BuildDashboard(rows, desc)
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTimeSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	in := core.TimeSeriesInput{
		ResolveInput:    resolveInputFromRequest(request),
		StartYear:       request.GetInt("start_year", 0),
		EndYear:         request.GetInt("end_year", 0),
		PrimaryVariable: request.GetString("primary_variable", ""),
	}

	result, err := core.GetTimeSeries(ctx, cfg, h.transport, h.cache, h.mgr, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("time series query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummaryStatistics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if y := request.GetInt("year", 0); y > 0 {
		cfg.Year = y
	}

	variable := strings.TrimSpace(request.GetString("variable", ""))
	if variable == "" {
		return mcp.NewToolResultError("'variable' is required"), nil
	}

	in := resolveInputFromRequest(request)
	in.Variables = append(in.Variables, variable)

	rows, _, err := core.GetDemographicData(ctx, cfg, h.transport, in, cfg.Year)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("demographic query failed: %v", err)), nil
	}

	code := variable
	if mapped, ok := schema.VariableMap[strings.ToLower(variable)]; ok {
		code = mapped
	}

	stats := core.CalculateSummaryStatistics(rows, code)
	if stats == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no usable values found for %s", variable)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRefineDashboardData(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var payload schema.DashboardPayload
	if err := json.Unmarshal([]byte(request.GetString("dashboard_data", "")), &payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dashboard_data: %v", err)), nil
	}

	opts := core.RefineOptions{
		Limit:       request.GetInt("limit", 0),
		CurrentYear: request.GetInt("year", 0),
	}

	if filtersRaw := request.GetString("filters", ""); filtersRaw != "" {
		if err := json.Unmarshal([]byte(filtersRaw), &opts.Filters); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid filters: %v", err)), nil
		}
	}

	if sortField := request.GetString("sort_by", ""); sortField != "" {
		opts.Sort = &core.SortSpec{
			Field:     sortField,
			Direction: request.GetString("sort_direction", "asc"),
		}
	}

	refined, err := core.RefineDashboard(payload, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("refinement failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(refined, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
