package internal

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// PrintStatsResults outputs summary statistics for one variable in the
// configured output format.
func PrintStatsResults(stats *schema.SummaryStats, label string, cfg *contract.Config) error {
	if stats == nil {
		contract.LogWarn(fmt.Sprintf("No usable values found for %s", label))
		return nil
	}

	switch cfg.Output {
	case schema.JSONOut:
		return PrintJSONPayload(stats, cfg)
	default:
		return printStatsTable(stats, label, cfg)
	}
}

// printStatsTable prints the statistics as a two-column table.
func printStatsTable(stats *schema.SummaryStats, label string, cfg *contract.Config) error {
	fmt.Printf("%sSummary statistics for %s\n", headerPrefix(cfg, "📊"), label)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Statistic", "Value"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Count", fmt.Sprintf("%d", stats.Count)},
		{"Mean", schema.FormatValue(schema.Float64Ptr(stats.Mean))},
		{"Median", schema.FormatValue(schema.Float64Ptr(stats.Median))},
		{"Min", fmt.Sprintf("%s (%s)", schema.FormatValue(schema.Float64Ptr(stats.Min)), stats.MinEntityName)},
		{"Max", fmt.Sprintf("%s (%s)", schema.FormatValue(schema.Float64Ptr(stats.Max)), stats.MaxEntityName)},
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
