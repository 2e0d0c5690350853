package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/parquet"
	"github.com/huangsam/scorecards/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquetFile writes rows to the configured output file, which Parquet always needs.
func writeParquetFile[T any](rows []T, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required when using parquet output")
	}
	if err := parquet.Write(rows, outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// renderTable writes headers and rows as a right-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// createFormatters creates the number formatters shared by every output type.
// Rates in 0..1 are printed as percentages.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtPercent func(float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtPercent = func(rate float64) string {
		return fmt.Sprintf("%.*f%%", precision, rate*100)
	}
	return fmtFloat, fmtPercent
}

// yesNo renders a boolean for tables and CSV.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// rankLabel renders a rank, colored when the config asks for it.
func rankLabel(r schema.Rank, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorRankLabel(r)
	}
	return contract.GetRankLabel(r)
}

// adoptionLabel renders an adoption rate label, colored when the config asks for it.
func adoptionLabel(rate float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorAdoptionLabel(rate)
	}
	return contract.GetAdoptionLabel(rate)
}

// staleLabel marks stale rows in tables.
func staleLabel(stale bool, cfg *contract.Config) string {
	if !stale {
		return "-"
	}
	if cfg.UseColors {
		return contract.StaleColor.Sprint("stale")
	}
	return "stale"
}

// formatUpdated renders a last-updated date for tables. Missing timestamps show as a dash.
func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateFormat)
}

// formatTimestamp renders a timestamp for CSV. Missing timestamps are left blank.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
