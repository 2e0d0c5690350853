package algo

import (
	"testing"

	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
)

// FuzzFilterServicesIsSubset checks that any filter returns an ordered subset of its input.
func FuzzFilterServicesIsSubset(f *testing.F) {
	f.Add("python", "frontend", "include", "", "exclude", "gold")
	f.Add("", "", "", "", "", "")
	f.Add("REPO", "__no_team__", "exclude", "include", "include", "bronze")
	f.Fuzz(func(t *testing.T, search, team, stale, api, installed, rank string) {
		fs := schema.FilterState{}.WithSearch(search)
		if team != "" {
			fs = fs.WithTeams(team)
		}
		if m, err := schema.ParseFilterMode(stale); err == nil {
			fs = fs.WithStale(m)
		}
		if m, err := schema.ParseFilterMode(api); err == nil {
			fs = fs.WithAPI(m)
		}
		if m, err := schema.ParseFilterMode(installed); err == nil {
			fs = fs.WithInstalled(m)
		}
		if r, err := schema.ParseRank(rank); err == nil {
			fs = fs.CycleRank(r)
		}
		services := fixture.Services()
		got := FilterServices(services, fs, fixture.CurrentHash)

		i := 0
		for _, s := range got {
			for i < len(services) && services[i].Repo != s.Repo {
				i++
			}
			if !assert.Less(t, i, len(services), "result %s is not an ordered subset", s.Repo) {
				return
			}
			i++
		}
	})
}

// FuzzSortServicesIsPermutation checks that sorting keeps every service exactly once.
func FuzzSortServicesIsPermutation(f *testing.F) {
	for _, k := range schema.AllSortKeys {
		f.Add(string(k))
	}
	f.Fuzz(func(t *testing.T, key string) {
		services := fixture.Services()
		got := SortServices(services, schema.SortKey(key))
		assert.ElementsMatch(t, repos(services), repos(got))
	})
}
