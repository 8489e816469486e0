package internal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// LogTimeseriesHeader prints a header for a multi-year query.
func LogTimeseriesHeader(cfg *contract.Config, level string, primaryLabel string, years []int) {
	fmt.Printf("%sLevel: %s (Variable: %s)\n", headerPrefix(cfg, "🔎"), level, primaryLabel)
	if len(years) > 0 {
		fmt.Printf("%sRange: %d → %d (%d years)\n",
			headerPrefix(cfg, "📅"), years[0], years[len(years)-1], len(years))
	}
}

// PrintTimeseriesResults outputs the time-series results, dispatching based on
// the output format configured.
func PrintTimeseriesResults(result *schema.TimeSeriesResult, cfg *contract.Config, duration time.Duration) error {
	numFmt := "%.*f"
	fmtFloat := func(v float64) string {
		return fmt.Sprintf(numFmt, cfg.Precision, v)
	}

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := PrintJSONPayload(result, cfg); err != nil {
			return err
		}
	case schema.CSVOut:
		if err := printTimeseriesCSV(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printTimeseriesTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing timeseries table output: %w", err)
		}
	}
	return nil
}

// printTimeseriesCSV handles opening the file and writing one CSV row per
// entity per year.
func printTimeseriesCSV(result *schema.TimeSeriesResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer func() {
		if file != os.Stdout {
			_ = file.Close()
		}
	}()

	w := csv.NewWriter(file)

	header := []string{"key", "name", "year", "value", "trend"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, entry := range result.Series {
		var label string
		if entry.Trend != nil {
			label = contract.GetPlainTrendLabel(entry.Trend.PercentChange)
		} else {
			label = contract.GetPlainTrendLabel(nil)
		}
		for _, point := range entry.Points {
			value := "N/A"
			if point.Value != nil {
				value = fmtFloat(*point.Value)
			}
			row := []string{
				entry.Key,
				entry.Name,
				strconv.Itoa(point.Year),
				value,
				label,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%sWrote CSV timeseries results to %s\n", headerPrefix(cfg, "💾"), cfg.OutputFile)
	}
	return w.Error()
}

// printTimeseriesTable prints one row per entity with its trend summary.
func printTimeseriesTable(result *schema.TimeSeriesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)
	maxNameWidth := GetMaxTableNameWidth(cfg)

	// 1. Define Headers
	headers := []string{"Name", "Start", "End", "Change", "Change(%)", "CAGR(%)", "Trend"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, entry := range result.Series {
		row := []string{truncateName(entry.Name, maxNameWidth)}
		if entry.Trend != nil {
			row = append(row,
				fmt.Sprintf("%s (%d)", fmtFloat(entry.Trend.StartValue), entry.Trend.StartYear),
				fmt.Sprintf("%s (%d)", fmtFloat(entry.Trend.EndValue), entry.Trend.EndYear),
				fmtFloat(entry.Trend.AbsoluteChange),
				formatOptionalFloat(entry.Trend.PercentChange, fmtFloat),
				formatOptionalFloat(entry.Trend.CAGR, fmtFloat),
				trendLabel(cfg, entry.Trend.PercentChange),
			)
		} else {
			row = append(row, "N/A", "N/A", "N/A", "N/A", "N/A", trendLabel(cfg, nil))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Movers and error summary after the table
	if result.TopAbsoluteMover != nil && result.TopAbsoluteMover.Trend != nil {
		fmt.Printf("%sTop absolute mover: %s (%s)\n",
			headerPrefix(cfg, "🚀"),
			result.TopAbsoluteMover.Name,
			fmtFloat(result.TopAbsoluteMover.Trend.AbsoluteChange))
	}
	if result.TopPercentMover != nil && result.TopPercentMover.Trend != nil && result.TopPercentMover.Trend.PercentChange != nil {
		fmt.Printf("%sTop percent mover: %s (%s%%)\n",
			headerPrefix(cfg, "🚀"),
			result.TopPercentMover.Name,
			fmtFloat(*result.TopPercentMover.Trend.PercentChange))
	}
	for _, yearErr := range result.Errors {
		contract.LogWarn(fmt.Sprintf("Year %d skipped: %s", yearErr.Year, yearErr.Reason))
	}

	fmt.Printf("Timeseries query completed in %v using %d workers.\n", duration, cfg.Workers)
	return nil
}

// formatOptionalFloat renders a nullable float, with N/A for nil.
func formatOptionalFloat(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "N/A"
	}
	return fmtFloat(*v)
}
