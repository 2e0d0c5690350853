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

// WriteTeams outputs the team aggregates, dispatching based on the output format configured.
func WriteTeams(teams []schema.TeamStats, view schema.CatalogView, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamsJSON(w, teams)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamsCSV(w, teams, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(parquet.ConvertTeams(teams), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamsTable(w, teams, view, cfg, duration)
		}, "Wrote table")
	}
}

// writeTeamsTable generates and writes the human-readable team table.
func writeTeamsTable(w io.Writer, teams []schema.TeamStats, view schema.CatalogView, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"#", "Team", "Services", "Avg", "Rank", "P/G/S/B", "Stale", "Installed", "Pass", "Fail", "Excl"}
	nameWidth := getMaxTableNameWidth(cfg, 80)

	data := make([][]string, 0, len(teams))
	for i, t := range teams {
		d := t.RankDistribution
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(t.Name, nameWidth),
			strconv.Itoa(t.ServiceCount),
			strconv.Itoa(t.AverageScore),
			rankLabel(t.Rank, cfg),
			fmt.Sprintf("%d/%d/%d/%d", d.Platinum, d.Gold, d.Silver, d.Bronze),
			strconv.Itoa(t.Stale),
			strconv.Itoa(t.Installed),
			strconv.Itoa(t.Checks.Pass),
			strconv.Itoa(t.Checks.Fail),
			strconv.Itoa(t.Checks.Excluded),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d teams (%d matching services, %d active filters)\n",
		len(teams), len(view.Teams), view.Filtered(), view.Filters.ActiveCount()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed in %v. Team sort: %s. Cache backend: %s\n", duration, view.TeamSort, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeTeamsCSV writes the team aggregates in CSV format.
func writeTeamsCSV(w io.Writer, teams []schema.TeamStats, precision int) error {
	header := []string{
		"position",
		"team_id",
		"name",
		"service_count",
		"average_score",
		"rank",
		"platinum",
		"gold",
		"silver",
		"bronze",
		"stale",
		"installed",
		"checks_pass",
		"checks_fail",
		"checks_excluded",
		"pass_rate",
	}
	_, fmtPercent := createFormatters(precision)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, t := range teams {
			d := t.RankDistribution
			rec := []string{
				strconv.Itoa(i + 1),
				string(t.ID),
				t.Name,
				strconv.Itoa(t.ServiceCount),
				strconv.Itoa(t.AverageScore),
				string(t.Rank),
				strconv.Itoa(d.Platinum),
				strconv.Itoa(d.Gold),
				strconv.Itoa(d.Silver),
				strconv.Itoa(d.Bronze),
				strconv.Itoa(t.Stale),
				strconv.Itoa(t.Installed),
				strconv.Itoa(t.Checks.Pass),
				strconv.Itoa(t.Checks.Fail),
				strconv.Itoa(t.Checks.Excluded),
				fmtPercent(passRate(t.Checks)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// teamRow is a team aggregate annotated with its list position.
type teamRow struct {
	Position int `json:"position"`
	schema.TeamStats
}

// writeTeamsJSON writes the team aggregates in JSON format.
func writeTeamsJSON(w io.Writer, teams []schema.TeamStats) error {
	rows := make([]teamRow, 0, len(teams))
	for i, t := range teams {
		rows = append(rows, teamRow{Position: i + 1, TeamStats: t})
	}
	return writeJSON(w, rows)
}

// passRate is the share of active checks that pass. Excluded checks are not active.
func passRate(ct schema.CheckTotals) float64 {
	active := ct.Pass + ct.Fail
	if active == 0 {
		return 0
	}
	return float64(ct.Pass) / float64(active)
}
