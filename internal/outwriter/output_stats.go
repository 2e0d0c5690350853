package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/parquet"
	"github.com/huangsam/scorecards/schema"
)

// WriteStats outputs the stat cards, dispatching based on the output format configured.
func WriteStats(stats schema.CatalogStats, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsCSV(w, stats, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(parquet.ConvertStats(stats), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsTable(w, stats, cfg, duration)
		}, "Wrote table")
	}
}

// statsMetrics flattens the stat cards into ordered metric/value pairs.
func statsMetrics(stats schema.CatalogStats, precision int) [][]string {
	fmtFloat, _ := createFormatters(precision)
	return [][]string{
		{"total_services", strconv.Itoa(stats.TotalServices)},
		{"filtered_services", strconv.Itoa(stats.FilteredServices)},
		{"average_score", fmtFloat(stats.AverageScore)},
		{"platinum", strconv.Itoa(stats.Ranks.Platinum)},
		{"gold", strconv.Itoa(stats.Ranks.Gold)},
		{"silver", strconv.Itoa(stats.Ranks.Silver)},
		{"bronze", strconv.Itoa(stats.Ranks.Bronze)},
		{"unranked", strconv.Itoa(stats.Ranks.Unranked)},
		{"stale", strconv.Itoa(stats.Staleness.Stale)},
		{"stale_percent", fmtFloat(stats.StalePercent)},
		{"installed", strconv.Itoa(stats.Staleness.Installed)},
		{"stale_and_installed", strconv.Itoa(stats.Staleness.StaleAndInstalled)},
		{"with_api", strconv.Itoa(stats.WithAPI)},
		{"teams", strconv.Itoa(stats.Teams)},
		{"active_filters", strconv.Itoa(stats.ActiveFilters)},
	}
}

// writeStatsTable prints the stat cards and the category adoption averages.
func writeStatsTable(w io.Writer, stats schema.CatalogStats, cfg *contract.Config, duration time.Duration) error {
	if err := renderTable(w, []string{"Metric", "Value"}, statsMetrics(stats, cfg.Precision)); err != nil {
		return err
	}

	if len(stats.Categories) > 0 {
		_, fmtPercent := createFormatters(cfg.Precision)
		rows := make([][]string, 0, len(stats.Categories))
		for _, c := range stats.Categories {
			rows = append(rows, []string{c.Category, strconv.Itoa(c.Checks), fmtPercent(c.AdoptionRate), adoptionLabel(c.AdoptionRate, cfg)})
		}
		if err := renderTable(w, []string{"Category", "Checks", "Avg Rate", "Adoption"}, rows); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeStatsCSV writes the stat cards as metric/value rows.
func writeStatsCSV(w io.Writer, stats schema.CatalogStats, precision int) error {
	return writeCSVWithHeader(w, []string{"metric", "value"}, func(cw *csv.Writer) error {
		return cw.WriteAll(statsMetrics(stats, precision))
	})
}
