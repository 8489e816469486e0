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

// LogFetchHeader prints a concise, 2-line header for a single-year query.
func LogFetchHeader(cfg *contract.Config, level string, year int, rowCount int) {
	fmt.Printf("%sLevel: %s (Year: %d)\n", headerPrefix(cfg, "🔎"), level, year)
	fmt.Printf("%sRows: %d (Dataset: %s)\n", headerPrefix(cfg, "📅"), rowCount, cfg.Dataset)
}

// rowColumns returns the value columns for a row set: the requested variable
// codes (NAME excluded) followed by the derived metric keys.
func rowColumns(desc *schema.RequestDescriptor) []string {
	var cols []string
	for _, code := range desc.VariableCodes {
		if code == schema.NameField {
			continue
		}
		cols = append(cols, code)
	}
	for _, metric := range desc.Metrics {
		cols = append(cols, string(metric))
	}
	return cols
}

// formatCell renders one row value for table or CSV output.
func formatCell(row schema.Row, col string, fmtFloat func(float64) string) string {
	raw, ok := row[col]
	if !ok || raw == nil {
		return "N/A"
	}
	if v, ok := schema.CoerceFloat(raw); ok {
		return fmtFloat(v)
	}
	return fmt.Sprint(raw)
}

// PrintRowResults outputs single-year rows in the configured output format.
func PrintRowResults(rows []schema.Row, desc *schema.RequestDescriptor, cfg *contract.Config, duration time.Duration) error {
	numFmt := "%.*f"
	fmtFloat := func(v float64) string {
		return fmt.Sprintf(numFmt, cfg.Precision, v)
	}

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := PrintJSONPayload(rows, cfg); err != nil {
			return err
		}
	case schema.CSVOut:
		if err := printRowsCSV(rows, desc, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printRowsTable(rows, desc, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printRowsCSV handles opening the file and writing the CSV rows.
func printRowsCSV(rows []schema.Row, desc *schema.RequestDescriptor, cfg *contract.Config, fmtFloat func(float64) string) error {
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
	cols := rowColumns(desc)

	header := append([]string{"rank", "name"}, cols...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range rows {
		rec := []string{strconv.Itoa(i + 1), row.Name()}
		for _, col := range cols {
			rec = append(rec, formatCell(row, col, fmtFloat))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%sWrote CSV to %s\n", headerPrefix(cfg, "💾"), cfg.OutputFile)
	}
	return w.Error()
}

// printRowsTable generates and prints the human-readable table.
func printRowsTable(rows []schema.Row, desc *schema.RequestDescriptor, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)
	maxNameWidth := GetMaxTableNameWidth(cfg)
	cols := rowColumns(desc)

	// 1. Define Headers
	headers := []string{"Rank", "Name"}
	for _, col := range cols {
		headers = append(headers, schema.VariableLabel(col))
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	var data [][]string
	for i, row := range rows {
		rec := []string{
			strconv.Itoa(i + 1),
			truncateName(row.Name(), maxNameWidth),
		}
		for _, col := range cols {
			rec = append(rec, formatCell(row, col, fmtFloat))
		}
		data = append(data, rec)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Fetched %d rows in %v.\n", len(rows), duration)
	return nil
}
