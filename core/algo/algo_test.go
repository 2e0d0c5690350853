package algo

import (
	"testing"
	"time"

	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repos(services []schema.Service) []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Repo
	}
	return out
}

func TestIsStale(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		current string
		want    bool
	}{
		{"matching hash", "abc", "abc", false},
		{"different hash", "abc", "def", true},
		{"missing service hash", "", "abc", true},
		{"missing both", "", "", true},
		{"missing current hash", "abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStale(schema.Service{ChecksHash: tt.hash}, tt.current))
		})
	}
}

func TestStalenessSummary(t *testing.T) {
	st := StalenessSummary(fixture.Services(), fixture.CurrentHash)
	assert.Equal(t, schema.StalenessStats{Total: 9, Stale: 2, Installed: 7, StaleAndInstalled: 2}, st)
}

func TestFilterServicesEmptyIsIdentity(t *testing.T) {
	services := fixture.Services()
	got := FilterServices(services, schema.FilterState{}, fixture.CurrentHash)
	assert.Equal(t, services, got)
}

func TestFilterServices(t *testing.T) {
	base := schema.FilterState{}
	tests := []struct {
		name   string
		filter schema.FilterState
		want   []string
	}{
		{"search by name", base.WithSearch("python"), []string{"test-repo-python"}},
		{"search is trimmed and case-insensitive", base.WithSearch("  EMPTY "), []string{"test-repo-empty"}},
		{"search matches org", base.WithSearch("FEDDERICO"), repos(fixture.Services())},
		{"team frontend", base.WithTeams("frontend"), []string{"test-repo-edge-cases", "test-repo-javascript"}},
		{"team no team", base.ToggleTeam(schema.NoTeam), []string{"test-repo-no-docs", "test-repo-minimal"}},
		{"teams are unioned", base.WithTeams("platform", "frontend"), []string{
			"test-repo-stale", "test-repo-perfect", "test-repo-edge-cases", "test-repo-javascript",
		}},
		{"stale include", base.WithStale(schema.FilterInclude), []string{"test-repo-stale", "test-repo-minimal"}},
		{"installed exclude", base.WithInstalled(schema.FilterExclude), []string{"test-repo-install-test", "test-repo-empty"}},
		{"api include", base.WithAPI(schema.FilterInclude), []string{"test-repo-stale", "test-repo-edge-cases", "test-repo-javascript"}},
		{"rank include gold", base.WithRankMode(schema.RankGold, schema.FilterInclude), []string{"test-repo-stale", "test-repo-perfect"}},
		{"rank exclude silver and bronze", base.WithRankMode(schema.RankSilver, schema.FilterExclude).WithRankMode(schema.RankBronze, schema.FilterExclude),
			[]string{"test-repo-stale", "test-repo-perfect"}},
		{"check pass", base.WithCheck(fixture.CheckReadme, schema.StatusPass), []string{
			"test-repo-stale", "test-repo-perfect", "test-repo-edge-cases", "test-repo-javascript", "test-repo-python",
		}},
		{"check fail skips excluded", base.WithCheck(fixture.CheckReadme, schema.StatusFail), []string{
			"test-repo-install-test", "test-repo-minimal", "test-repo-empty",
		}},
		{"missing check never matches", base.WithCheck(fixture.CheckAPISpec, schema.StatusFail), []string{"test-repo-javascript"}},
		{"filters combine with and", base.WithTeams("platform").WithStale(schema.FilterExclude), []string{"test-repo-perfect"}},
		{"unknown team", base.WithTeams("nobody"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterServices(fixture.Services(), tt.filter, fixture.CurrentHash)
			assert.Equal(t, tt.want, repos(got))
		})
	}
}

func TestFilterRankExcludeWinsOverInclude(t *testing.T) {
	f := schema.FilterState{
		RankInclude: map[schema.Rank]struct{}{schema.RankGold: {}, schema.RankSilver: {}},
		RankExclude: map[schema.Rank]struct{}{schema.RankSilver: {}},
	}
	got := FilterServices(fixture.Services(), f, fixture.CurrentHash)
	assert.Equal(t, []string{"test-repo-stale", "test-repo-perfect"}, repos(got))
}

func TestFilterUnknownRankFailsInclude(t *testing.T) {
	services := []schema.Service{{Repo: "odd", Name: "odd", Rank: "diamond"}}
	f := schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude)
	assert.Empty(t, FilterServices(services, f, ""))
	f = schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterExclude)
	assert.Len(t, FilterServices(services, f, ""), 1)
}

func TestSortServices(t *testing.T) {
	tests := []struct {
		key  schema.SortKey
		want []string
	}{
		{schema.SortScoreDesc, []string{
			"test-repo-stale", "test-repo-perfect", "test-repo-edge-cases", "test-repo-install-test",
			"test-repo-javascript", "test-repo-python", "test-repo-no-docs", "test-repo-minimal", "test-repo-empty",
		}},
		{schema.SortScoreAsc, []string{
			"test-repo-empty", "test-repo-minimal", "test-repo-no-docs", "test-repo-edge-cases", "test-repo-install-test",
			"test-repo-javascript", "test-repo-python", "test-repo-perfect", "test-repo-stale",
		}},
		{schema.SortNameAsc, []string{
			"test-repo-edge-cases", "test-repo-empty", "test-repo-install-test", "test-repo-javascript",
			"test-repo-minimal", "test-repo-no-docs", "test-repo-perfect", "test-repo-python", "test-repo-stale",
		}},
		{schema.SortNameDesc, []string{
			"test-repo-stale", "test-repo-python", "test-repo-perfect", "test-repo-no-docs", "test-repo-minimal",
			"test-repo-javascript", "test-repo-install-test", "test-repo-empty", "test-repo-edge-cases",
		}},
		{schema.SortRecent, []string{
			"test-repo-perfect", "test-repo-install-test", "test-repo-empty", "test-repo-stale", "test-repo-no-docs",
			"test-repo-edge-cases", "test-repo-javascript", "test-repo-minimal", "test-repo-python",
		}},
		{schema.SortOldest, []string{
			"test-repo-minimal", "test-repo-javascript", "test-repo-edge-cases", "test-repo-no-docs", "test-repo-stale",
			"test-repo-empty", "test-repo-install-test", "test-repo-perfect", "test-repo-python",
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, repos(SortServices(fixture.Services(), tt.key)))
		})
	}
}

func TestSortServicesDoesNotMutateInput(t *testing.T) {
	services := fixture.Services()
	before := repos(services)
	_ = SortServices(services, schema.SortNameDesc)
	assert.Equal(t, before, repos(services))
}

func TestSortServicesNameIgnoresCase(t *testing.T) {
	services := []schema.Service{{Name: "beta"}, {Name: "Alpha"}, {Name: "alpha2"}, {Name: "Gamma"}}
	got := SortServices(services, schema.SortNameAsc)
	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Alpha", "alpha2", "beta", "Gamma"}, names)
}

func TestSortScoreDescAfterExcludingStale(t *testing.T) {
	f := schema.FilterState{}.WithStale(schema.FilterExclude)
	got := SortServices(FilterServices(fixture.Services(), f, fixture.CurrentHash), schema.SortScoreDesc)
	require.NotEmpty(t, got)
	assert.Equal(t, "test-repo-perfect", got[0].Repo)
}

func TestSortRecentMissingAlwaysLast(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	services := []schema.Service{
		{Name: "missing"},
		{Name: "old", LastUpdated: now.Add(-time.Hour)},
		{Name: "new", LastUpdated: now},
	}
	assert.Equal(t, "missing", SortServices(services, schema.SortRecent)[2].Name)
	assert.Equal(t, "missing", SortServices(services, schema.SortOldest)[2].Name)
	assert.Equal(t, "new", SortServices(services, schema.SortRecent)[0].Name)
	assert.Equal(t, "old", SortServices(services, schema.SortOldest)[0].Name)
}

func TestSortTeams(t *testing.T) {
	teams := []schema.TeamStats{
		{ID: "a", Name: "Alpha", ServiceCount: 3, AverageScore: 50},
		{ID: "b", Name: "beta", ServiceCount: 1, AverageScore: 80},
		{ID: "c", Name: "Gamma", ServiceCount: 3, AverageScore: 50},
	}
	names := func(ts []schema.TeamStats) []string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = t.Name
		}
		return out
	}
	assert.Equal(t, []string{"beta", "Alpha", "Gamma"}, names(SortTeams(teams, schema.TeamSortScoreDesc)))
	assert.Equal(t, []string{"Alpha", "Gamma", "beta"}, names(SortTeams(teams, schema.TeamSortScoreAsc)))
	assert.Equal(t, []string{"Alpha", "Gamma", "beta"}, names(SortTeams(teams, schema.TeamSortServicesDesc)))
	assert.Equal(t, []string{"beta", "Alpha", "Gamma"}, names(SortTeams(teams, schema.TeamSortServicesAsc)))
	assert.Equal(t, []string{"Alpha", "beta", "Gamma"}, names(SortTeams(teams, schema.TeamSortNameAsc)))
	assert.Equal(t, []string{"Gamma", "beta", "Alpha"}, names(SortTeams(teams, schema.TeamSortNameDesc)))
}

func TestLimit(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Limit([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 2, 3}, Limit([]int{1, 2, 3}, 0))
	assert.Equal(t, []int{1}, Limit([]int{1}, 5))
}

func TestFilterRankUnionSemantics(t *testing.T) {
	services := fixture.Services()
	gold := schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterInclude)
	assert.Len(t, FilterServices(services, gold, fixture.CurrentHash), 2)

	goldSilver := gold.WithRankMode(schema.RankSilver, schema.FilterInclude)
	assert.Len(t, FilterServices(services, goldSilver, fixture.CurrentHash), 6)

	notGold := schema.FilterState{}.WithRankMode(schema.RankGold, schema.FilterExclude)
	assert.Len(t, FilterServices(services, notGold, fixture.CurrentHash), 7)
}

func TestFilterDimensionOrderDoesNotMatter(t *testing.T) {
	a := schema.FilterState{}.WithTeams("backend").WithInstalled(schema.FilterInclude).WithCheck(fixture.CheckLicense, schema.StatusPass)
	b := schema.FilterState{}.WithCheck(fixture.CheckLicense, schema.StatusPass).WithInstalled(schema.FilterInclude).WithTeams("backend")
	got := FilterServices(fixture.Services(), a, fixture.CurrentHash)
	assert.Equal(t, got, FilterServices(fixture.Services(), b, fixture.CurrentHash))
	assert.Equal(t, []string{"test-repo-python"}, repos(got))
}

func TestSortScoreBoundaries(t *testing.T) {
	desc := SortServices(fixture.Services(), schema.SortScoreDesc)
	asc := SortServices(fixture.Services(), schema.SortScoreAsc)
	assert.Equal(t, "test-repo-empty", desc[len(desc)-1].Repo)
	assert.Equal(t, "test-repo-empty", asc[0].Repo)
	for i := range desc {
		assert.Equal(t, desc[i].Score, asc[len(asc)-1-i].Score)
	}
}
