package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/parquet"
	"github.com/huangsam/scorecards/schema"
)

// DateFormat is how last-updated timestamps are shown.
const DateFormat = "2006-01-02"

// WriteServices outputs the service list, dispatching based on the output format configured.
// services is the page to print; view carries the totals and the current checks hash.
func WriteServices(services []schema.Service, view schema.CatalogView, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeServicesJSON(w, services, view.CurrentHash)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeServicesCSV(w, services, view.CurrentHash)
		}, "Wrote CSV")
	case schema.ParquetOut:
		stale := func(s schema.Service) bool { return algo.IsStale(s, view.CurrentHash) }
		return writeParquetFile(parquet.ConvertServices(services, stale), cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeServicesTable(w, services, view, cfg, duration)
		}, "Wrote table")
	}
}

// writeServicesTable generates and writes the human-readable table.
func writeServicesTable(w io.Writer, services []schema.Service, view schema.CatalogView, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"#", "Service", "Score", "Rank", "Team", "Checks", "Stale", "API", "Installed", "Updated"}
	nameWidth := getMaxTableNameWidth(cfg, 85)

	data := make([][]string, 0, len(services))
	for i, s := range services {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(s.Name, nameWidth),
			strconv.Itoa(s.Score),
			rankLabel(s.Rank, cfg),
			contract.TruncateName(s.TeamLabel(), minNameWidth),
			fmt.Sprintf("%d/%d", s.PassedChecks(), len(s.Checks)),
			staleLabel(algo.IsStale(s, view.CurrentHash), cfg),
			yesNo(s.HasAPI),
			yesNo(s.Installed),
			formatUpdated(s.LastUpdated),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d matching services (%d total, %d active filters)\n",
		len(services), view.Filtered(), view.Total, view.Filters.ActiveCount()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Sort: %s. Cache backend: %s\n", duration, view.Sort, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeServicesCSV writes the service list in CSV format.
func writeServicesCSV(w io.Writer, services []schema.Service, currentHash string) error {
	header := []string{
		"position",
		"org",
		"repo",
		"name",
		"score",
		"rank",
		"team",
		"passed_checks",
		"total_checks",
		"stale",
		"has_api",
		"installed",
		"checks_hash",
		"last_updated",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, s := range services {
			rec := []string{
				strconv.Itoa(i + 1),
				s.Org,
				s.Repo,
				s.Name,
				strconv.Itoa(s.Score),
				string(s.Rank),
				s.TeamLabel(),
				strconv.Itoa(s.PassedChecks()),
				strconv.Itoa(len(s.Checks)),
				strconv.FormatBool(algo.IsStale(s, currentHash)),
				strconv.FormatBool(s.HasAPI),
				strconv.FormatBool(s.Installed),
				s.ChecksHash,
				formatTimestamp(s.LastUpdated),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// serviceRow is a service annotated with its list position and staleness.
type serviceRow struct {
	Position int `json:"position"`
	schema.Service
	Stale bool `json:"stale"`
}

// writeServicesJSON writes the service list in JSON format.
func writeServicesJSON(w io.Writer, services []schema.Service, currentHash string) error {
	rows := make([]serviceRow, 0, len(services))
	for i, s := range services {
		rows = append(rows, serviceRow{Position: i + 1, Service: s, Stale: algo.IsStale(s, currentHash)})
	}
	return writeJSON(w, rows)
}
