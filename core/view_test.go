package core

import (
	"sync"
	"testing"

	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceNames(services []schema.Service) []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Name
	}
	return out
}

func teamIDs(teams []schema.TeamStats) []schema.TeamID {
	out := make([]schema.TeamID, len(teams))
	for i, t := range teams {
		out[i] = t.ID
	}
	return out
}

func TestNewCatalogViewStoreDefaults(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	view := store.Snapshot()

	assert.Equal(t, schema.ServicesView, view.Mode)
	assert.Equal(t, schema.SortScoreDesc, view.Sort)
	assert.Equal(t, schema.TeamSortScoreDesc, view.TeamSort)
	assert.Equal(t, 9, view.Total)
	assert.Equal(t, 9, view.Filtered())
	assert.Equal(t, "test-repo-stale", view.Services[0].Name)
	assert.Equal(t, "test-repo-empty", view.Services[8].Name)
	assert.Empty(t, view.Teams)
}

func TestNewCatalogViewStoreNilCatalog(t *testing.T) {
	view := NewCatalogViewStore(nil).Snapshot()
	assert.Zero(t, view.Total)
	assert.Empty(t, view.Services)
}

func TestCatalogViewStoreFilters(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())

	tests := []struct {
		name    string
		filters schema.FilterState
		want    int
	}{
		{"gold", schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude), 2},
		{"silver", schema.FilterState{}.WithRankMode(schema.RankSilver, schema.FilterInclude), 4},
		{"bronze", schema.FilterState{}.WithRankMode(schema.RankBronze, schema.FilterInclude), 3},
		{"search", schema.FilterState{}.WithSearch("python"), 1},
		{"team", schema.FilterState{}.WithTeams("Frontend"), 2},
		{"stale", schema.FilterState{}.WithStale(schema.FilterInclude), 2},
		{"not installed", schema.FilterState{}.WithInstalled(schema.FilterExclude), 2},
		{"api and silver", schema.FilterState{}.WithAPI(schema.FilterInclude).WithRankMode(schema.RankSilver, schema.FilterInclude), 2},
		{"check pass", schema.FilterState{}.WithCheck(fixture.CheckCodeowners, schema.StatusPass), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := store.SetFilters(tt.filters)
			assert.Equal(t, tt.want, view.Filtered())
			assert.Equal(t, 9, view.Total)
		})
	}

	view := store.ClearFilters()
	assert.Equal(t, 9, view.Filtered())
	assert.True(t, view.Filters.IsEmpty())
}

func TestCatalogViewStoreUpdateFilters(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())

	view := store.UpdateFilters(func(f schema.FilterState) schema.FilterState { return f.CycleRank(schema.RankBronze) })
	assert.Equal(t, 3, view.Filtered())

	view = store.UpdateFilters(func(f schema.FilterState) schema.FilterState { return f.CycleRank(schema.RankBronze) })
	assert.Equal(t, 6, view.Filtered())
	assert.Equal(t, schema.FilterExclude, view.Filters.RankMode(schema.RankBronze))

	view = store.UpdateFilters(func(f schema.FilterState) schema.FilterState { return f.CycleRank(schema.RankBronze) })
	assert.Equal(t, 9, view.Filtered())
}

func TestCatalogViewStoreSortSurvivesViewSwitch(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	store.SetSort(schema.SortNameAsc)

	teams := store.SetView(schema.TeamsView)
	assert.Equal(t, schema.TeamsView, teams.Mode)
	assert.Equal(t, schema.SortNameAsc, teams.Sort)

	view := store.SetView(schema.ServicesView)
	assert.Equal(t, schema.SortNameAsc, view.Sort)
	assert.Equal(t, "test-repo-edge-cases", view.Services[0].Name)
	assert.Equal(t, "test-repo-stale", view.Services[8].Name)
}

func TestCatalogViewStoreTeamsView(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	view := store.SetView(schema.TeamsView)

	assert.Equal(t, []schema.TeamID{"platform", "frontend", "backend", schema.NoTeam}, teamIDs(view.Teams))
	assert.Equal(t, 78, view.Teams[0].AverageScore)
	assert.Equal(t, 50, view.Teams[2].AverageScore)

	view = store.SetTeamSort(schema.TeamSortServicesDesc)
	assert.Equal(t, schema.TeamID("backend"), view.Teams[0].ID)
}

func TestCatalogViewStoreTeamsViewSearchesTeams(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	store.SetView(schema.TeamsView)

	view := store.SetFilters(schema.FilterState{}.WithSearch("front"))
	assert.Equal(t, []schema.TeamID{"frontend"}, teamIDs(view.Teams))
	// Search applies to team rows only, so every service still counts.
	assert.Equal(t, 9, view.Filtered())

	view = store.SetFilters(schema.FilterState{}.WithSearch("apis"))
	assert.Equal(t, []schema.TeamID{"backend"}, teamIDs(view.Teams))
}

func TestCatalogViewStoreTeamsViewOtherFilters(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	store.SetView(schema.TeamsView)

	view := store.SetFilters(schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude))
	require.Len(t, view.Teams, 1)
	assert.Equal(t, schema.TeamID("platform"), view.Teams[0].ID)
	assert.Equal(t, 2, view.Teams[0].ServiceCount)
}

func TestCatalogViewStoreSetCatalog(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	store.SetFilters(schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude))

	refreshed := fixture.Catalog()
	refreshed.Services = refreshed.Services[2:]
	view := store.SetCatalog(refreshed)
	assert.Equal(t, 7, view.Total)
	assert.Zero(t, view.Filtered())

	view = store.SetServices(fixture.Services())
	assert.Equal(t, 2, view.Filtered())
}

func TestCatalogViewStoreStateIsCopy(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	store.SetFilters(schema.FilterState{}.WithTeams("platform"))

	st := store.State()
	st.Filters.Teams["backend"] = struct{}{}

	assert.Len(t, store.State().Filters.Teams, 1)
	assert.Equal(t, 2, store.Snapshot().Filtered())
}

func TestCatalogViewStoreSetFiltersCopiesInput(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())
	f := schema.FilterState{}.WithTeams("platform")
	store.SetFilters(f)
	f.Teams["backend"] = struct{}{}

	assert.Equal(t, 2, store.Snapshot().Filtered())
}

func TestCatalogViewStoreConcurrentAccess(t *testing.T) {
	store := NewCatalogViewStore(fixture.Catalog())

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetSort(schema.AllSortKeys[i%len(schema.AllSortKeys)])
			store.UpdateFilters(func(f schema.FilterState) schema.FilterState { return f.CycleRank(schema.RankGold) })
		}()
		go func() {
			defer wg.Done()
			view := store.Snapshot()
			assert.Equal(t, 9, view.Total)
		}()
	}
	wg.Wait()
	assert.Equal(t, 9, store.Snapshot().Total)
}

func TestApplyViewEmptyModeIsServices(t *testing.T) {
	view := ApplyView(CatalogViewState{
		Services:    fixture.Services(),
		CurrentHash: fixture.CurrentHash,
		Sort:        schema.SortScoreAsc,
	})
	assert.Equal(t, schema.ServicesView, view.Mode)
	assert.Equal(t, "test-repo-empty", view.Services[0].Name)
	assert.Nil(t, view.Teams)
}

func TestApplyFilterKeepsInputOrder(t *testing.T) {
	got := ApplyFilter(CatalogViewState{
		Services:    fixture.Services(),
		CurrentHash: fixture.CurrentHash,
		Filters:     schema.FilterState{}.WithTeams("backend"),
	})
	assert.Equal(t, []string{"test-repo-install-test", "test-repo-python", "test-repo-empty"}, serviceNames(got))
}
