package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/parquet"
)

// ExecuteHistoryExport writes every recorded run and adoption row to Parquet files
// named outputFile + ".runs.parquet" and outputFile + ".adoption.parquet".
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not configured. Set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total history runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total adoption records: %d\n", status.TableSizes[historyAdoptionTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve history runs: %w", err)
	}
	adoption, err := store.GetAllAdoption()
	if err != nil {
		return fmt.Errorf("failed to retrieve history adoption: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertHistoryRuns(runs)
	if err := parquet.Write(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write history runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runRows), runsFile)

	adoptionFile := outputFile + ".adoption.parquet"
	adoptionRows := parquet.ConvertHistoryAdoption(adoption)
	if err := parquet.Write(adoptionRows, adoptionFile); err != nil {
		return fmt.Errorf("failed to write history adoption: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d adoption records to: %s\n", len(adoptionRows), adoptionFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
