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

// adoptionCSVHeader is shared by both adoption CSV layouts.
var adoptionCSVHeader = []string{
	"scope",
	"check_id",
	"check_name",
	"category",
	"team",
	"passing",
	"failing",
	"excluded",
	"not_applicable",
	"active_total",
	"adoption_rate",
}

// WriteCheckAdoption outputs the adoption picture for a single check.
func WriteCheckAdoption(adoption schema.CheckAdoption, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, adoption)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckAdoptionCSV(w, adoption, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		records := []schema.AdoptionRecord{adoption.Overall}
		for _, t := range adoption.ByTeam {
			records = append(records, t.AdoptionRecord)
		}
		return writeParquetFile(parquet.ConvertAdoption(records), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCheckAdoptionTable(w, adoption, cfg, duration)
		}, "Wrote table")
	}
}

// WriteAdoption outputs adoption for every check plus the category averages.
func WriteAdoption(records []schema.AdoptionRecord, categories []schema.CategoryAdoption, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Checks     []schema.AdoptionRecord   `json:"checks"`
				Categories []schema.CategoryAdoption `json:"categories"`
			}{records, categories})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAdoptionCSV(w, records, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(parquet.ConvertAdoption(records), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAdoptionTable(w, records, categories, cfg, duration)
		}, "Wrote table")
	}
}

// writeCheckAdoptionTable prints the overall line, the per-team table and the service breakdown.
func writeCheckAdoptionTable(w io.Writer, adoption schema.CheckAdoption, cfg *contract.Config, duration time.Duration) error {
	_, fmtPercent := createFormatters(cfg.Precision)
	o := adoption.Overall

	name := o.CheckName
	if name == "" {
		name = o.CheckID
	}
	if _, err := fmt.Fprintf(w, "Check: %s (%s) %s\n", name, o.CheckID, o.Category); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall: %d/%d passing (%s) %s, %d excluded, %d not applicable\n",
		o.Passing, o.ActiveTotal, fmtPercent(o.AdoptionRate), adoptionLabel(o.AdoptionRate, cfg), o.Excluded, o.NotApplicable); err != nil {
		return err
	}

	headers := []string{"#", "Team", "Passing", "Failing", "Excluded", "N/A", "Rate", "Adoption"}
	nameWidth := getMaxTableNameWidth(cfg, 70)
	data := make([][]string, 0, len(adoption.ByTeam))
	for i, t := range adoption.ByTeam {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(t.TeamName, nameWidth),
			strconv.Itoa(t.Passing),
			strconv.Itoa(t.Failing),
			strconv.Itoa(t.Excluded),
			strconv.Itoa(t.NotApplicable),
			fmtPercent(t.AdoptionRate),
			adoptionLabel(t.AdoptionRate, cfg),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	var services [][]string
	for _, t := range adoption.ByTeam {
		for _, s := range t.Services {
			services = append(services, []string{
				contract.TruncateName(t.TeamName, minNameWidth),
				contract.TruncateName(s.Name, nameWidth),
				strconv.Itoa(s.Score),
				rankLabel(s.Rank, cfg),
				string(s.Status),
				s.ExclusionReason,
			})
		}
	}
	if len(services) > 0 {
		if err := renderTable(w, []string{"Team", "Service", "Score", "Rank", "Status", "Reason"}, services); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeAdoptionTable prints one row per check followed by the category averages.
func writeAdoptionTable(w io.Writer, records []schema.AdoptionRecord, categories []schema.CategoryAdoption, cfg *contract.Config, duration time.Duration) error {
	_, fmtPercent := createFormatters(cfg.Precision)
	headers := []string{"#", "Check", "Category", "Passing", "Failing", "Excluded", "N/A", "Rate", "Adoption"}
	nameWidth := getMaxTableNameWidth(cfg, 85)

	data := make([][]string, 0, len(records))
	for i, r := range records {
		name := r.CheckName
		if name == "" {
			name = r.CheckID
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(name, nameWidth),
			r.Category,
			strconv.Itoa(r.Passing),
			strconv.Itoa(r.Failing),
			strconv.Itoa(r.Excluded),
			strconv.Itoa(r.NotApplicable),
			fmtPercent(r.AdoptionRate),
			adoptionLabel(r.AdoptionRate, cfg),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	if len(categories) > 0 {
		catRows := make([][]string, 0, len(categories))
		for _, c := range categories {
			catRows = append(catRows, []string{c.Category, strconv.Itoa(c.Checks), fmtPercent(c.AdoptionRate)})
		}
		if err := renderTable(w, []string{"Category", "Checks", "Avg Rate"}, catRows); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCheckAdoptionCSV writes the overall record followed by one row per team.
func writeCheckAdoptionCSV(w io.Writer, adoption schema.CheckAdoption, precision int) error {
	fmtFloat, _ := createFormatters(precision + 2)
	return writeCSVWithHeader(w, adoptionCSVHeader, func(cw *csv.Writer) error {
		if err := cw.Write(adoptionCSVRecord("overall", adoption.Overall, fmtFloat)); err != nil {
			return err
		}
		for _, t := range adoption.ByTeam {
			if err := cw.Write(adoptionCSVRecord("team", t.AdoptionRecord, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAdoptionCSV writes one row per check.
func writeAdoptionCSV(w io.Writer, records []schema.AdoptionRecord, precision int) error {
	fmtFloat, _ := createFormatters(precision + 2)
	return writeCSVWithHeader(w, adoptionCSVHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			scope := "overall"
			if r.Team != "" {
				scope = "team"
			}
			if err := cw.Write(adoptionCSVRecord(scope, r, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

func adoptionCSVRecord(scope string, r schema.AdoptionRecord, fmtFloat func(float64) string) []string {
	return []string{
		scope,
		r.CheckID,
		r.CheckName,
		r.Category,
		r.TeamName,
		strconv.Itoa(r.Passing),
		strconv.Itoa(r.Failing),
		strconv.Itoa(r.Excluded),
		strconv.Itoa(r.NotApplicable),
		strconv.Itoa(r.ActiveTotal),
		fmtFloat(r.AdoptionRate),
	}
}
