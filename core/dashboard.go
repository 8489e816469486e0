package core

import (
	"fmt"
	"sort"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// chartTopN caps how many entities a dashboard chart shows.
const chartTopN = 5

// BuildDashboard assembles a dashboard payload from enriched single-year rows:
// a display variable, per-variable summary statistics, a top-N chart and
// heuristic insights that need no second model round-trip.
func BuildDashboard(rows []schema.Row, desc *schema.RequestDescriptor) schema.DashboardPayload {
	labels := buildVariableLabels(desc)
	displayID := pickDisplayVariable(rows, desc)

	available := availableVariables(rows, labels)
	stats := make(map[string]*schema.SummaryStats)
	for _, info := range available {
		if s := CalculateSummaryStatistics(rows, info.ID); s != nil {
			stats[info.ID] = s
		}
	}

	displayLabel := labels[displayID]
	if displayLabel == "" {
		displayLabel = displayID
	}

	payload := schema.DashboardPayload{
		"type":         "dashboard_data",
		"summary_text": fmt.Sprintf("Analysis of %s across %d %s entities", displayLabel, len(rows), desc.Level),
		"data":         rowsToAny(rows),
		"metadata": map[string]any{
			"geography_level":     string(desc.Level),
			"display_variable_id": displayID,
			"variable_labels":     labels,
			"available_variables": available,
		},
		"summary_statistics": stats,
		"insights":           buildInsights(rows, displayID, displayLabel),
	}

	if chart := buildTopChart(rows, desc.Level, displayID, displayLabel); chart != nil {
		payload["charts"] = []schema.Chart{*chart}
	}
	return payload
}

// buildVariableLabels maps every requested code and metric key to its label.
func buildVariableLabels(desc *schema.RequestDescriptor) map[string]string {
	labels := make(map[string]string)
	for _, code := range desc.VariableCodes {
		if code == schema.NameField {
			continue
		}
		labels[code] = schema.VariableLabel(code)
	}
	for _, key := range desc.Metrics {
		labels[string(key)] = schema.MetricLabel(key)
	}
	return labels
}

// pickDisplayVariable chooses the variable a dashboard should highlight:
// derived metrics take priority, then directly requested variables, then any
// non-geographic field present in the data.
func pickDisplayVariable(rows []schema.Row, desc *schema.RequestDescriptor) string {
	if len(rows) == 0 {
		return ""
	}
	sample := rows[0]

	for _, key := range desc.Metrics {
		if _, ok := sample[string(key)]; ok {
			return string(key)
		}
	}
	for _, code := range desc.VariableCodes {
		if code == schema.NameField {
			continue
		}
		if _, ok := sample[code]; ok {
			return code
		}
	}
	for key := range sample {
		if key != schema.NameField && !schema.IsGeoIdentifier(key) {
			return key
		}
	}
	return ""
}

// availableVariables lists every labeled variable actually present in the data.
func availableVariables(rows []schema.Row, labels map[string]string) []schema.VariableInfo {
	if len(rows) == 0 {
		return nil
	}
	var infos []schema.VariableInfo
	for key := range rows[0] {
		if label, ok := labels[key]; ok {
			infos = append(infos, schema.VariableInfo{ID: key, Name: label})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// buildTopChart prepares a bar chart of the top entities by the display variable.
func buildTopChart(rows []schema.Row, level schema.GeoLevel, displayID, displayLabel string) *schema.Chart {
	if displayID == "" {
		return nil
	}
	type scored struct {
		name  string
		value float64
	}
	var ranked []scored
	for _, row := range rows {
		if v, ok := schema.CoerceFloat(row[displayID]); ok {
			ranked = append(ranked, scored{name: row.Name(), value: v})
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })
	if len(ranked) > chartTopN {
		ranked = ranked[:chartTopN]
	}

	data := make([]schema.ChartDatum, 0, len(ranked))
	for _, s := range ranked {
		data = append(data, schema.ChartDatum{Name: s.name, Value: s.value})
	}
	return &schema.Chart{
		ChartType:  "bar_chart",
		Title:      fmt.Sprintf("Top %d %s by %s", len(data), level, displayLabel),
		VariableID: displayID,
		Data:       data,
	}
}

// buildInsights creates lightweight textual insights from the numeric spread.
func buildInsights(rows []schema.Row, displayID, displayLabel string) []string {
	type scored struct {
		value float64
		name  string
	}
	var numeric []scored
	for _, row := range rows {
		if v, ok := schema.CoerceFloat(row[displayID]); ok {
			numeric = append(numeric, scored{value: v, name: row.Name()})
		}
	}
	if len(numeric) == 0 {
		return nil
	}
	sort.Slice(numeric, func(i, j int) bool { return numeric[i].value < numeric[j].value })

	lowest, highest := numeric[0], numeric[len(numeric)-1]
	insights := []string{
		fmt.Sprintf("%s reports the highest %s at %s.", highest.name, displayLabel, schema.FormatValue(&highest.value)),
		fmt.Sprintf("%s has the lowest %s at %s.", lowest.name, displayLabel, schema.FormatValue(&lowest.value)),
	}
	if len(numeric) > 2 {
		mid := numeric[len(numeric)/2]
		spread := highest.value - lowest.value
		insights = append(insights, fmt.Sprintf("Median entity (%s) sits at %s, showing overall spread of %s.",
			mid.name, schema.FormatValue(&mid.value), schema.FormatValue(&spread)))
	}
	return insights
}

// rowsToAny converts typed rows to the loose []any shape a dashboard payload uses.
func rowsToAny(rows []schema.Row) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = map[string]any(row)
	}
	return out
}
