package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/core"
	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	mcp_internal "github.com/Steve-the-map-Maker/census-ai-backend/internal/mcp"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

func mcpTestConfig() *contract.Config {
	return &contract.Config{
		Year:    2022,
		MinYear: 2009,
		MaxYear: 2023,
		Workers: 2,
	}
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) string {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.False(t, res.IsError, "Tool %s should succeed: %v", name, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	transport := &contract.MockTransport{}
	s := mcp_internal.NewMCPServer(mcpTestConfig(), transport, nil, nil)

	ctx := context.Background()

	call := func(t *testing.T, name string, args map[string]any) string {
		t.Helper()
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      name,
				Arguments: args,
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.True(t, res.IsError, "The response should indicate an error state")
		return res.Content[0].(mcp.TextContent).Text
	}

	t.Run("get_summary_statistics missing variable", func(t *testing.T) {
		text := call(t, "get_summary_statistics", map[string]any{
			"geography_level": "state",
			"variable":        "   ",
		})
		assert.Contains(t, text, "'variable' is required")
	})

	t.Run("get_demographic_data unknown geography", func(t *testing.T) {
		text := call(t, "get_demographic_data", map[string]any{
			"geography_level": "galaxy",
		})
		assert.Contains(t, text, "demographic query failed")
	})

	t.Run("refine_dashboard_data invalid dashboard_data", func(t *testing.T) {
		text := call(t, "refine_dashboard_data", map[string]any{
			"dashboard_data": "{not json",
		})
		assert.Contains(t, text, "invalid dashboard_data")
	})

	t.Run("refine_dashboard_data invalid filters", func(t *testing.T) {
		text := call(t, "refine_dashboard_data", map[string]any{
			"dashboard_data": "{}",
			"filters":        "[{bad",
		})
		assert.Contains(t, text, "invalid filters")
	})

	transport.AssertNotCalled(t, "Fetch")
}

func TestMCPServerHandlers_GetDemographicData(t *testing.T) {
	transport := &contract.MockTransport{}
	transport.On("Fetch", mock.Anything, 2022, mock.Anything, "state:*", mock.Anything).
		Return([]schema.Row{
			{schema.NameField: "California", "state": "06", "B01003_001E": "39538223"},
			{schema.NameField: "Oregon", "state": "41", "B01003_001E": "4237256"},
		}, nil).Once()

	s := mcp_internal.NewMCPServer(mcpTestConfig(), transport, nil, nil)

	text := callTool(t, s, "get_demographic_data", map[string]any{
		"geography_level": "state",
		"variables":       "total_population",
	})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &payload))
	assert.Equal(t, "dashboard_data", payload["type"])
	assert.Contains(t, payload, "summary_statistics")
	assert.Contains(t, text, "California")

	transport.AssertExpectations(t)
}

func TestMCPServerHandlers_GetSummaryStatistics(t *testing.T) {
	transport := &contract.MockTransport{}
	transport.On("Fetch", mock.Anything, 2020, mock.Anything, "state:*", mock.Anything).
		Return([]schema.Row{
			{schema.NameField: "Alpha", "state": "01", "B01003_001E": "100"},
			{schema.NameField: "Beta", "state": "02", "B01003_001E": "300"},
		}, nil).Once()

	s := mcp_internal.NewMCPServer(mcpTestConfig(), transport, nil, nil)

	text := callTool(t, s, "get_summary_statistics", map[string]any{
		"geography_level": "state",
		"variable":        "total_population",
		"year":            2020.0,
	})

	var stats schema.SummaryStats
	require.NoError(t, json.Unmarshal([]byte(text), &stats))
	assert.InDelta(t, 200.0, stats.Mean, 0.0001)
	assert.InDelta(t, 100.0, stats.Min, 0.0001)
	assert.InDelta(t, 300.0, stats.Max, 0.0001)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, "Alpha", stats.MinEntityName)
	assert.Equal(t, "Beta", stats.MaxEntityName)

	transport.AssertExpectations(t)
}

func TestMCPServerHandlers_GetTimeSeries(t *testing.T) {
	transport := &contract.MockTransport{}
	transport.On("Fetch", mock.Anything, 2020, mock.Anything, "state:*", mock.Anything).
		Return([]schema.Row{
			{schema.NameField: "Alaska", "state": "02", "B01003_001E": "100"},
		}, nil).Once()
	transport.On("Fetch", mock.Anything, 2021, mock.Anything, "state:*", mock.Anything).
		Return([]schema.Row{
			{schema.NameField: "Alaska", "state": "02", "B01003_001E": "150"},
		}, nil).Once()

	cache := core.NewResultCache(time.Minute, nil)
	s := mcp_internal.NewMCPServer(mcpTestConfig(), transport, cache, nil)

	text := callTool(t, s, "get_time_series", map[string]any{
		"geography_level": "state",
		"variables":       "total_population",
		"start_year":      2020.0,
		"end_year":        2021.0,
	})

	var result schema.TimeSeriesResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	require.Len(t, result.Series, 1)
	assert.Equal(t, "Alaska", result.Series[0].Name)
	require.NotNil(t, result.Series[0].Trend)
	assert.InDelta(t, 50.0, result.Series[0].Trend.AbsoluteChange, 0.0001)
	assert.Equal(t, []int{2020, 2021}, result.Metadata.YearsReturned)

	transport.AssertExpectations(t)
}

func TestMCPServerHandlers_RefineDashboardData(t *testing.T) {
	payload := schema.DashboardPayload{
		"type":         "dashboard_data",
		"summary_text": "Analysis of Total Population across 3 state entities",
		"data": []any{
			map[string]any{schema.NameField: "California", "B01003_001E": 39538223.0},
			map[string]any{schema.NameField: "Oregon", "B01003_001E": 4237256.0},
			map[string]any{schema.NameField: "Texas", "B01003_001E": 29145505.0},
		},
		"metadata": map[string]any{"geography_level": "state"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	transport := &contract.MockTransport{}
	s := mcp_internal.NewMCPServer(mcpTestConfig(), transport, nil, nil)

	text := callTool(t, s, "refine_dashboard_data", map[string]any{
		"dashboard_data": string(raw),
		"sort_by":        "B01003_001E",
		"sort_direction": "desc",
		"limit":          2.0,
	})

	var refined map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &refined))

	rows, ok := refined["data"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "California", first[schema.NameField])
	assert.Contains(t, refined["summary_text"], "refined:")

	transport.AssertNotCalled(t, "Fetch")
}
