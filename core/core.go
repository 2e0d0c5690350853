// Package core has the catalog view store and the command executors.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/scorecards/core/agg"
	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/outwriter"
	"github.com/huangsam/scorecards/schema"
)

// ExecutorFunc defines the function signature for executing the catalog commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error

// newViewStore loads the catalog and seeds a view store with the configured filters and sorts.
func newViewStore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) (*CatalogViewStore, *schema.Catalog, error) {
	catalog, err := LoadCatalog(ctx, cfg.CatalogPath, mgr, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	contract.LogCatalogHeader(cfg, catalog)

	store := NewCatalogViewStore(catalog)
	store.SetFilters(cfg.Filters)
	store.SetSort(resolveSort(cfg, mgr))
	if cfg.TeamSort != "" {
		store.SetTeamSort(cfg.TeamSort)
	}
	return store, catalog, nil
}

// ExecuteServices renders the filtered, sorted service list.
// It serves as the main entry point for the 'services' command.
func ExecuteServices(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error {
	start := time.Now()
	store, _, err := newViewStore(ctx, cfg, mgr, source)
	if err != nil {
		return err
	}
	view := store.Snapshot()
	shown := algo.Limit(view.Services, cfg.ResultLimit)
	return outwriter.WriteServices(shown, view, cfg, time.Since(start))
}

// ExecuteTeams renders one aggregate row per team.
// It serves as the main entry point for the 'teams' command.
func ExecuteTeams(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error {
	start := time.Now()
	store, _, err := newViewStore(ctx, cfg, mgr, source)
	if err != nil {
		return err
	}
	view := store.SetView(schema.TeamsView)
	shown := algo.Limit(view.Teams, cfg.ResultLimit)
	return outwriter.WriteTeams(shown, view, cfg, time.Since(start))
}

// ExecuteAdoption renders check adoption over the filtered services.
// With an adoption check it prints the overall record and the per-team breakdown;
// without one it prints every catalog check and the category averages.
func ExecuteAdoption(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error {
	start := time.Now()
	catalog, err := LoadCatalog(ctx, cfg.CatalogPath, mgr, source)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	contract.LogCatalogHeader(cfg, catalog)

	services := algo.FilterServices(catalog.Services, cfg.Filters, catalog.CurrentHash)

	if cfg.AdoptionCheck != "" {
		adoption, err := CheckAdoptionReport(catalog, services, cfg.AdoptionCheck, cfg.AdoptionSort, cfg.AdoptionDescending, cfg.ResultLimit)
		if err != nil {
			return err
		}
		return outwriter.WriteCheckAdoption(adoption, cfg, time.Since(start))
	}

	records, categories := AllChecksReport(catalog, services, cfg.Filters, cfg.AdoptionSort, cfg.AdoptionDescending, cfg.ResultLimit)
	return outwriter.WriteAdoption(records, categories, cfg, time.Since(start))
}

// CheckAdoptionReport builds the adoption picture of one check over already filtered services.
// The per-team rows are sorted and then cut to limit.
func CheckAdoptionReport(catalog *schema.Catalog, services []schema.Service, checkID string, key schema.AdoptionSortKey, descending bool, limit int) (schema.CheckAdoption, error) {
	if !knownCheck(catalog, checkID) {
		return schema.CheckAdoption{}, fmt.Errorf("unknown check '%s'", checkID)
	}
	adoption := agg.BuildCheckAdoption(services, catalog.Checks, checkID, catalog.Teams)
	adoption.ByTeam = agg.SortTeamAdoption(adoption.ByTeam, key, descending)
	adoption.ByTeam = algo.Limit(adoption.ByTeam, limit)
	return adoption, nil
}

// AllChecksReport computes every catalog check over already filtered services, plus the category
// averages. A single selected team becomes the scope of every record.
func AllChecksReport(catalog *schema.Catalog, services []schema.Service, filters schema.FilterState, key schema.AdoptionSortKey, descending bool, limit int) ([]schema.AdoptionRecord, []schema.CategoryAdoption) {
	records := agg.AllChecksAdoption(services, catalog.Checks, singleTeam(filters))
	categories := agg.CategoryAdoption(records, catalog.Checks)
	records = agg.SortAdoptionRecords(records, key, descending)
	return algo.Limit(records, limit), categories
}

// ExecuteStats renders the stat cards and records a history snapshot when a history store is configured.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error {
	start := time.Now()
	store, catalog, err := newViewStore(ctx, cfg, mgr, source)
	if err != nil {
		return err
	}
	view := store.Snapshot()
	stats := agg.CatalogSummary(catalog.Services, view.Filtered(), view.Filters, catalog.Checks, catalog.CurrentHash)

	if mgr != nil {
		if history := mgr.GetHistoryStore(); history != nil {
			run, adoption := buildHistorySnapshot(cfg.CatalogPath, catalog, stats)
			if err := history.RecordRun(run, adoption); err != nil {
				contract.LogWarn("failed to record history snapshot", err)
			}
		}
	}

	return outwriter.WriteStats(stats, cfg, time.Since(start))
}

// buildHistorySnapshot turns the unfiltered stats into one history run and its adoption rows.
func buildHistorySnapshot(path string, catalog *schema.Catalog, stats schema.CatalogStats) (schema.HistoryRun, []schema.HistoryAdoption) {
	run := schema.HistoryRun{
		RecordedAt:    time.Now(),
		CatalogPath:   path,
		ChecksHash:    catalog.CurrentHash,
		TotalServices: stats.TotalServices,
		AverageScore:  stats.AverageScore,
		Platinum:      stats.Ranks.Platinum,
		Gold:          stats.Ranks.Gold,
		Silver:        stats.Ranks.Silver,
		Bronze:        stats.Ranks.Bronze,
		Stale:         stats.Staleness.Stale,
		Installed:     stats.Staleness.Installed,
	}
	records := agg.AllChecksAdoption(catalog.Services, catalog.Checks, "")
	adoption := make([]schema.HistoryAdoption, 0, len(records))
	for _, r := range records {
		adoption = append(adoption, schema.HistoryAdoption{
			CheckID:      r.CheckID,
			Passing:      r.Passing,
			Failing:      r.Failing,
			Excluded:     r.Excluded,
			AdoptionRate: r.AdoptionRate,
		})
	}
	return run, adoption
}

// knownCheck is true when the catalog defines the check or any service carries it.
func knownCheck(catalog *schema.Catalog, id string) bool {
	if _, ok := catalog.Checks.Lookup(id); ok {
		return true
	}
	for _, s := range catalog.Services {
		if _, ok := s.Check(id); ok {
			return true
		}
	}
	return false
}

// singleTeam returns the selected team when exactly one is selected, so records carry it.
func singleTeam(f schema.FilterState) schema.TeamID {
	if len(f.Teams) != 1 {
		return ""
	}
	for id := range f.Teams {
		return id
	}
	return ""
}
