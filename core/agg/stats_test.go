package agg

import (
	"testing"

	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountByRank(t *testing.T) {
	rc := CountByRank(fixture.Services())
	assert.Equal(t, schema.RankCounts{Gold: 2, Silver: 4, Bronze: 3}, rc)
	assert.Equal(t, 9, rc.Total())

	rc = CountByRank([]schema.Service{{Rank: "diamond"}, {}})
	assert.Equal(t, 2, rc.Unranked)
	assert.Equal(t, 2, rc.Get("anything"))
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(nil))
	assert.InDelta(t, 507.0/9.0, AverageScore(fixture.Services()), 1e-9)
}

func TestTeamStatistics(t *testing.T) {
	rows := TeamStatistics(fixture.Services(), fixture.CurrentHash, fixture.Teams())
	require.Len(t, rows, 4)

	platform := rows[0]
	assert.Equal(t, schema.TeamID("platform"), platform.ID)
	assert.Equal(t, "Platform", platform.Name)
	assert.Equal(t, "Shared infrastructure and tooling", platform.Description)
	assert.Equal(t, 2, platform.ServiceCount)
	assert.Equal(t, 78, platform.AverageScore)
	assert.Equal(t, schema.RankGold, platform.Rank)
	assert.Equal(t, 1, platform.Stale)
	assert.Equal(t, 2, platform.Installed)
	assert.Equal(t, 8, platform.Checks.Pass)
	assert.Equal(t, 1, platform.Checks.Fail)

	backend := rows[2]
	assert.Equal(t, 3, backend.ServiceCount)
	assert.Equal(t, 50, backend.AverageScore)
	assert.Equal(t, schema.RankSilver, backend.Rank)
	assert.Equal(t, schema.RankCounts{Silver: 2, Bronze: 1}, backend.RankDistribution)
	assert.Equal(t, 1, backend.Installed)

	none := rows[3]
	assert.Equal(t, schema.NoTeam, none.ID)
	assert.Equal(t, schema.NoTeamLabel, none.Name)
	assert.Equal(t, 38, none.AverageScore)
	assert.Equal(t, schema.RankBronze, none.Rank)
	assert.Equal(t, 1, none.Checks.Excluded)
	assert.Equal(t, schema.CategoryTotals{Pass: 1, Fail: 2, Excluded: 1}, none.Checks.ByCategory["documentation"])
}

func TestSearchTeams(t *testing.T) {
	rows := TeamStatistics(fixture.Services(), fixture.CurrentHash, fixture.Teams())
	got := SearchTeams(rows, "APIs")
	require.Len(t, got, 1)
	assert.Equal(t, "Backend", got[0].Name)

	assert.Len(t, SearchTeams(rows, ""), 4)
	assert.Len(t, SearchTeams(rows, "front"), 1)
	assert.Empty(t, SearchTeams(rows, "zzz"))
}

func TestCatalogSummary(t *testing.T) {
	filters := schema.FilterState{}.WithStale(schema.FilterExclude)
	st := CatalogSummary(fixture.Services(), 7, filters, fixture.Checks(), fixture.CurrentHash)
	assert.Equal(t, 9, st.TotalServices)
	assert.Equal(t, 7, st.FilteredServices)
	assert.InDelta(t, 56.33, st.AverageScore, 0.01)
	assert.Equal(t, schema.RankCounts{Gold: 2, Silver: 4, Bronze: 3}, st.Ranks)
	assert.Equal(t, 2, st.Staleness.Stale)
	assert.Equal(t, 2, st.Staleness.StaleAndInstalled)
	assert.InDelta(t, 22.22, st.StalePercent, 0.01)
	assert.Equal(t, 3, st.WithAPI)
	assert.Equal(t, 3, st.Teams)
	assert.Equal(t, 1, st.ActiveFilters)
	assert.Len(t, st.Categories, 4)
}

func TestCatalogSummaryEmpty(t *testing.T) {
	st := CatalogSummary(nil, 0, schema.FilterState{}, schema.CheckCatalog{}, "")
	assert.Equal(t, 0, st.TotalServices)
	assert.Equal(t, 0.0, st.AverageScore)
	assert.Equal(t, 0.0, st.StalePercent)
}
