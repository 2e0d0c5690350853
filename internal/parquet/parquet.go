// Package parquet provides row types and writers for exporting scorecards
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/scorecards/schema"
	"github.com/parquet-go/parquet-go"
)

// HistoryRun is one recorded catalog snapshot.
type HistoryRun struct {
	RunID         string    `parquet:"run_id,snappy"`
	RecordedAt    time.Time `parquet:"recorded_at,snappy"`
	CatalogPath   string    `parquet:"catalog_path,snappy"`
	ChecksHash    string    `parquet:"checks_hash,snappy"`
	TotalServices int32     `parquet:"total_services,snappy"`
	AverageScore  float64   `parquet:"average_score,snappy"`
	Platinum      int32     `parquet:"platinum,snappy"`
	Gold          int32     `parquet:"gold,snappy"`
	Silver        int32     `parquet:"silver,snappy"`
	Bronze        int32     `parquet:"bronze,snappy"`
	Stale         int32     `parquet:"stale,snappy"`
	Installed     int32     `parquet:"installed,snappy"`
}

// HistoryAdoption is one check's adoption within a recorded snapshot.
type HistoryAdoption struct {
	RunID        string  `parquet:"run_id,snappy"`
	CheckID      string  `parquet:"check_id,snappy"`
	Passing      int32   `parquet:"passing,snappy"`
	Failing      int32   `parquet:"failing,snappy"`
	Excluded     int32   `parquet:"excluded,snappy"`
	AdoptionRate float64 `parquet:"adoption_rate,snappy"`
}

// Service is one row of the services view.
type Service struct {
	Org         string     `parquet:"org,snappy"`
	Repo        string     `parquet:"repo,snappy"`
	Name        string     `parquet:"name,snappy"`
	Score       int32      `parquet:"score,snappy"`
	Rank        string     `parquet:"rank,snappy"`
	Team        string     `parquet:"team,snappy"`
	HasAPI      bool       `parquet:"has_api,snappy"`
	Installed   bool       `parquet:"installed,snappy"`
	Stale       bool       `parquet:"stale,snappy"`
	Passed      int32      `parquet:"passed_checks,snappy"`
	Checks      int32      `parquet:"total_checks,snappy"`
	LastUpdated *time.Time `parquet:"last_updated,optional,snappy"`
}

// Team is one row of the teams view.
type Team struct {
	ID           string `parquet:"team_id,snappy"`
	Name         string `parquet:"name,snappy"`
	ServiceCount int32  `parquet:"service_count,snappy"`
	AverageScore int32  `parquet:"average_score,snappy"`
	Rank         string `parquet:"rank,snappy"`
	Platinum     int32  `parquet:"platinum,snappy"`
	Gold         int32  `parquet:"gold,snappy"`
	Silver       int32  `parquet:"silver,snappy"`
	Bronze       int32  `parquet:"bronze,snappy"`
	Stale        int32  `parquet:"stale,snappy"`
	Installed    int32  `parquet:"installed,snappy"`
	Pass         int32  `parquet:"checks_pass,snappy"`
	Fail         int32  `parquet:"checks_fail,snappy"`
	Excluded     int32  `parquet:"checks_excluded,snappy"`
}

// Adoption is one adoption record, scoped to a team or to the whole catalog.
type Adoption struct {
	CheckID       string  `parquet:"check_id,snappy"`
	CheckName     string  `parquet:"check_name,snappy"`
	Category      string  `parquet:"category,snappy"`
	Team          string  `parquet:"team,snappy"`
	Passing       int32   `parquet:"passing,snappy"`
	Failing       int32   `parquet:"failing,snappy"`
	Excluded      int32   `parquet:"excluded,snappy"`
	NotApplicable int32   `parquet:"not_applicable,snappy"`
	ActiveTotal   int32   `parquet:"active_total,snappy"`
	AdoptionRate  float64 `parquet:"adoption_rate,snappy"`
}

// Write writes rows to a Parquet file at outputPath, inferring the schema from T's struct tags.
func Write[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertHistoryRuns converts schema.HistoryRun records for Parquet export.
func ConvertHistoryRuns(records []schema.HistoryRun) []HistoryRun {
	result := make([]HistoryRun, len(records))
	for i, r := range records {
		result[i] = HistoryRun{
			RunID:         r.RunID,
			RecordedAt:    r.RecordedAt,
			CatalogPath:   r.CatalogPath,
			ChecksHash:    r.ChecksHash,
			TotalServices: int32(r.TotalServices),
			AverageScore:  r.AverageScore,
			Platinum:      int32(r.Platinum),
			Gold:          int32(r.Gold),
			Silver:        int32(r.Silver),
			Bronze:        int32(r.Bronze),
			Stale:         int32(r.Stale),
			Installed:     int32(r.Installed),
		}
	}
	return result
}

// ConvertHistoryAdoption converts schema.HistoryAdoption records for Parquet export.
func ConvertHistoryAdoption(records []schema.HistoryAdoption) []HistoryAdoption {
	result := make([]HistoryAdoption, len(records))
	for i, r := range records {
		result[i] = HistoryAdoption{
			RunID:        r.RunID,
			CheckID:      r.CheckID,
			Passing:      int32(r.Passing),
			Failing:      int32(r.Failing),
			Excluded:     int32(r.Excluded),
			AdoptionRate: r.AdoptionRate,
		}
	}
	return result
}

// ConvertServices converts services for Parquet export. stale reports staleness per service.
func ConvertServices(services []schema.Service, stale func(schema.Service) bool) []Service {
	result := make([]Service, len(services))
	for i, s := range services {
		row := Service{
			Org:       s.Org,
			Repo:      s.Repo,
			Name:      s.Name,
			Score:     int32(s.Score),
			Rank:      string(s.Rank),
			Team:      s.TeamLabel(),
			HasAPI:    s.HasAPI,
			Installed: s.Installed,
			Stale:     stale(s),
			Passed:    int32(s.PassedChecks()),
			Checks:    int32(len(s.Checks)),
		}
		if !s.LastUpdated.IsZero() {
			t := s.LastUpdated
			row.LastUpdated = &t
		}
		result[i] = row
	}
	return result
}

// ConvertTeams converts team statistics for Parquet export.
func ConvertTeams(teams []schema.TeamStats) []Team {
	result := make([]Team, len(teams))
	for i, t := range teams {
		result[i] = Team{
			ID:           string(t.ID),
			Name:         t.Name,
			ServiceCount: int32(t.ServiceCount),
			AverageScore: int32(t.AverageScore),
			Rank:         string(t.Rank),
			Platinum:     int32(t.RankDistribution.Platinum),
			Gold:         int32(t.RankDistribution.Gold),
			Silver:       int32(t.RankDistribution.Silver),
			Bronze:       int32(t.RankDistribution.Bronze),
			Stale:        int32(t.Stale),
			Installed:    int32(t.Installed),
			Pass:         int32(t.Checks.Pass),
			Fail:         int32(t.Checks.Fail),
			Excluded:     int32(t.Checks.Excluded),
		}
	}
	return result
}

// ConvertAdoption converts adoption records for Parquet export.
func ConvertAdoption(records []schema.AdoptionRecord) []Adoption {
	result := make([]Adoption, len(records))
	for i, r := range records {
		result[i] = Adoption{
			CheckID:       r.CheckID,
			CheckName:     r.CheckName,
			Category:      r.Category,
			Team:          r.TeamName,
			Passing:       int32(r.Passing),
			Failing:       int32(r.Failing),
			Excluded:      int32(r.Excluded),
			NotApplicable: int32(r.NotApplicable),
			ActiveTotal:   int32(r.ActiveTotal),
			AdoptionRate:  r.AdoptionRate,
		}
	}
	return result
}

// Stats is the single row written for the stats view.
type Stats struct {
	TotalServices     int32   `parquet:"total_services,snappy"`
	FilteredServices  int32   `parquet:"filtered_services,snappy"`
	AverageScore      float64 `parquet:"average_score,snappy"`
	Platinum          int32   `parquet:"platinum,snappy"`
	Gold              int32   `parquet:"gold,snappy"`
	Silver            int32   `parquet:"silver,snappy"`
	Bronze            int32   `parquet:"bronze,snappy"`
	Unranked          int32   `parquet:"unranked,snappy"`
	Stale             int32   `parquet:"stale,snappy"`
	StaleAndInstalled int32   `parquet:"stale_and_installed,snappy"`
	StalePercent      float64 `parquet:"stale_percent,snappy"`
	WithAPI           int32   `parquet:"with_api,snappy"`
	Installed         int32   `parquet:"installed,snappy"`
	Teams             int32   `parquet:"teams,snappy"`
	ActiveFilters     int32   `parquet:"active_filters,snappy"`
}

// ConvertStats converts the stat cards into a single Parquet row.
func ConvertStats(st schema.CatalogStats) []Stats {
	return []Stats{{
		TotalServices:     int32(st.TotalServices),
		FilteredServices:  int32(st.FilteredServices),
		AverageScore:      st.AverageScore,
		Platinum:          int32(st.Ranks.Platinum),
		Gold:              int32(st.Ranks.Gold),
		Silver:            int32(st.Ranks.Silver),
		Bronze:            int32(st.Ranks.Bronze),
		Unranked:          int32(st.Ranks.Unranked),
		Stale:             int32(st.Staleness.Stale),
		StaleAndInstalled: int32(st.Staleness.StaleAndInstalled),
		StalePercent:      st.StalePercent,
		WithAPI:           int32(st.WithAPI),
		Installed:         int32(st.Staleness.Installed),
		Teams:             int32(st.Teams),
		ActiveFilters:     int32(st.ActiveFilters),
	}}
}
