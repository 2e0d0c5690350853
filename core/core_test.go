package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/internal/iocache"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// jsonConfig writes results as JSON into a temp file so tests can read them back.
func jsonConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		CatalogPath:  "/catalog",
		ResultLimit:  contract.DefaultResultLimit,
		Precision:    contract.DefaultPrecision,
		Output:       schema.JSONOut,
		OutputFile:   filepath.Join(t.TempDir(), "out.json"),
		Sort:         schema.SortScoreDesc,
		TeamSort:     schema.TeamSortScoreDesc,
		AdoptionSort: schema.AdoptionSortRate,
		CacheBackend: schema.NoneBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config, v any) {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

type serviceOut struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Stale    bool   `json:"stale"`
}

type teamOut struct {
	Position     int           `json:"position"`
	ID           schema.TeamID `json:"id"`
	ServiceCount int           `json:"service_count"`
}

func TestExecuteServices(t *testing.T) {
	cfg := jsonConfig(t)
	require.NoError(t, ExecuteServices(context.Background(), cfg, managerWith(nil, nil), newFakeSource()))

	var rows []serviceOut
	readOutput(t, cfg, &rows)
	require.Len(t, rows, 9)
	assert.Equal(t, serviceOut{Position: 1, Name: "test-repo-stale", Stale: true}, rows[0])
	assert.Equal(t, "test-repo-empty", rows[8].Name)
}

func TestExecuteServicesFiltersAndLimit(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.Filters = schema.FilterState{}.WithTeams("frontend")
	cfg.Sort = schema.SortNameAsc
	cfg.ResultLimit = 1
	require.NoError(t, ExecuteServices(context.Background(), cfg, nil, newFakeSource()))

	var rows []serviceOut
	readOutput(t, cfg, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "test-repo-edge-cases", rows[0].Name)
}

func TestExecuteServicesUsesSavedSort(t *testing.T) {
	store := &iocache.MockCacheStore{}
	store.On("Get", catalogCacheKey("/catalog")).Return(nil, 0, int64(0), errors.New("not found"))
	store.On("Set", catalogCacheKey("/catalog"), mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
	store.On("Get", sortPrefKey).Return([]byte("score-asc"), currentCacheVersion, int64(1), nil)

	cfg := jsonConfig(t)
	require.NoError(t, ExecuteServices(context.Background(), cfg, managerWith(store, nil), newFakeSource()))

	var rows []serviceOut
	readOutput(t, cfg, &rows)
	require.NotEmpty(t, rows)
	assert.Equal(t, "test-repo-empty", rows[0].Name)
}

func TestExecuteServicesLoadError(t *testing.T) {
	src := newFakeSource()
	src.loadErr = errors.New("registry.json: no such file")

	err := ExecuteServices(context.Background(), jsonConfig(t), nil, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
	assert.ErrorIs(t, err, src.loadErr)
}

func TestExecuteTeams(t *testing.T) {
	cfg := jsonConfig(t)
	require.NoError(t, ExecuteTeams(context.Background(), cfg, nil, newFakeSource()))

	var rows []teamOut
	readOutput(t, cfg, &rows)
	require.Len(t, rows, 4)
	assert.Equal(t, teamOut{Position: 1, ID: "platform", ServiceCount: 2}, rows[0])
	assert.Equal(t, schema.NoTeam, rows[3].ID)
}

func TestExecuteTeamsSearchAndSort(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.Filters = schema.FilterState{}.WithSearch("end")
	cfg.TeamSort = schema.TeamSortServicesDesc
	require.NoError(t, ExecuteTeams(context.Background(), cfg, nil, newFakeSource()))

	var rows []teamOut
	readOutput(t, cfg, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, schema.TeamID("backend"), rows[0].ID)
	assert.Equal(t, schema.TeamID("frontend"), rows[1].ID)
}

func TestExecuteAdoptionForCheck(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.AdoptionCheck = fixture.CheckReadme
	cfg.AdoptionDescending = true
	require.NoError(t, ExecuteAdoption(context.Background(), cfg, nil, newFakeSource()))

	var got schema.CheckAdoption
	readOutput(t, cfg, &got)
	assert.Equal(t, 5, got.Overall.Passing)
	assert.Equal(t, 3, got.Overall.Failing)
	assert.Equal(t, 1, got.Overall.Excluded)
	assert.Equal(t, 8, got.Overall.ActiveTotal)
	assert.InDelta(t, 0.625, got.Overall.AdoptionRate, 1e-9)
	assert.Equal(t, "README", got.Overall.CheckName)
	require.Len(t, got.ByTeam, 4)
	assert.Equal(t, schema.TeamID("frontend"), got.ByTeam[0].Team)
	assert.InDelta(t, 1.0, got.ByTeam[0].AdoptionRate, 1e-9)
	assert.Equal(t, schema.NoTeam, got.ByTeam[3].Team)
}

func TestExecuteAdoptionForCheckRespectsFilters(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.AdoptionCheck = fixture.CheckReadme
	cfg.Filters = schema.FilterState{}.WithTeams("backend")
	require.NoError(t, ExecuteAdoption(context.Background(), cfg, nil, newFakeSource()))

	var got schema.CheckAdoption
	readOutput(t, cfg, &got)
	assert.Equal(t, 1, got.Overall.Passing)
	assert.Equal(t, 2, got.Overall.Failing)
	require.Len(t, got.ByTeam, 1)
	assert.Len(t, got.ByTeam[0].Services, 3)
}

func TestExecuteAdoptionUnknownCheck(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.AdoptionCheck = "signed-commits"

	err := ExecuteAdoption(context.Background(), cfg, nil, newFakeSource())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check 'signed-commits'")
	_, statErr := os.Stat(cfg.OutputFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecuteAdoptionAllChecks(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.AdoptionSort = schema.AdoptionSortName
	require.NoError(t, ExecuteAdoption(context.Background(), cfg, nil, newFakeSource()))

	var got struct {
		Checks     []schema.AdoptionRecord   `json:"checks"`
		Categories []schema.CategoryAdoption `json:"categories"`
	}
	readOutput(t, cfg, &got)
	require.Len(t, got.Checks, 5)
	assert.Equal(t, "API Spec", got.Checks[0].CheckName)
	require.Len(t, got.Categories, 4)
	assert.Equal(t, "documentation", got.Categories[0].Category)
	assert.Equal(t, 2, got.Categories[0].Checks)
}

func TestExecuteAdoptionSingleTeamScope(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.Filters = schema.FilterState{}.WithTeams("backend")
	require.NoError(t, ExecuteAdoption(context.Background(), cfg, nil, newFakeSource()))

	var got struct {
		Checks []schema.AdoptionRecord `json:"checks"`
	}
	readOutput(t, cfg, &got)
	require.NotEmpty(t, got.Checks)
	for _, r := range got.Checks {
		assert.Equal(t, schema.TeamID("backend"), r.Team)
	}
}

func TestExecuteStats(t *testing.T) {
	cfg := jsonConfig(t)
	cfg.Filters = schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude)
	require.NoError(t, ExecuteStats(context.Background(), cfg, nil, newFakeSource()))

	var got schema.CatalogStats
	readOutput(t, cfg, &got)
	assert.Equal(t, 9, got.TotalServices)
	assert.Equal(t, 2, got.FilteredServices)
	assert.Equal(t, 1, got.ActiveFilters)
	assert.Equal(t, schema.RankCounts{Gold: 2, Silver: 4, Bronze: 3}, got.Ranks)
	assert.Equal(t, 2, got.Staleness.Stale)
	assert.Equal(t, 3, got.Teams)
}

func TestExecuteStatsRecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("RecordRun",
		mock.MatchedBy(func(run schema.HistoryRun) bool {
			return run.TotalServices == 9 && run.ChecksHash == fixture.CurrentHash && run.CatalogPath == "/catalog" &&
				run.Gold == 2 && run.Silver == 4 && run.Bronze == 3 && run.Stale == 2
		}),
		mock.MatchedBy(func(rows []schema.HistoryAdoption) bool { return len(rows) == 5 }),
	).Return(nil)

	cfg := jsonConfig(t)
	require.NoError(t, ExecuteStats(context.Background(), cfg, managerWith(nil, history), newFakeSource()))
	history.AssertExpectations(t)
}

func TestExecuteStatsHistoryFailureIsWarning(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("RecordRun", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	cfg := jsonConfig(t)
	require.NoError(t, ExecuteStats(context.Background(), cfg, managerWith(nil, history), newFakeSource()))
	history.AssertExpectations(t)

	var got schema.CatalogStats
	readOutput(t, cfg, &got)
	assert.Equal(t, 9, got.TotalServices)
}

func TestBuildHistorySnapshot(t *testing.T) {
	catalog := fixture.Catalog()
	stats := schema.CatalogStats{TotalServices: 9, AverageScore: 56.3, Ranks: schema.RankCounts{Gold: 2}}
	run, adoption := buildHistorySnapshot("/catalog", catalog, stats)

	assert.Empty(t, run.RunID)
	assert.False(t, run.RecordedAt.IsZero())
	assert.Equal(t, 9, run.TotalServices)
	assert.Equal(t, 2, run.Gold)
	require.Len(t, adoption, 5)
	assert.Equal(t, fixture.CheckReadme, adoption[0].CheckID)
	assert.InDelta(t, 0.625, adoption[0].AdoptionRate, 1e-9)
}

func TestKnownCheck(t *testing.T) {
	catalog := fixture.Catalog()
	assert.True(t, knownCheck(catalog, fixture.CheckCI))
	assert.False(t, knownCheck(catalog, "signed-commits"))

	catalog.Checks = schema.CheckCatalog{}
	assert.True(t, knownCheck(catalog, fixture.CheckReadme))
}

func TestSingleTeam(t *testing.T) {
	assert.Empty(t, singleTeam(schema.FilterState{}))
	assert.Equal(t, schema.TeamID("backend"), singleTeam(schema.FilterState{}.WithTeams("Backend")))
	assert.Empty(t, singleTeam(schema.FilterState{}.WithTeams("backend", "frontend")))
}
