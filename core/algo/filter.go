package algo

import (
	"strings"

	"github.com/huangsam/scorecards/schema"
)

// FilterServices returns the services that satisfy every filter in f, in their input order.
// Filters combine with AND; values inside one multi-select combine with OR.
func FilterServices(services []schema.Service, f schema.FilterState, currentHash string) []schema.Service {
	query := f.NormalizedSearch()
	out := make([]schema.Service, 0, len(services))
	for _, s := range services {
		if matchesService(s, f, query, currentHash) {
			out = append(out, s)
		}
	}
	return out
}

// MatchesService reports whether a single service passes the filters.
func MatchesService(s schema.Service, f schema.FilterState, currentHash string) bool {
	return matchesService(s, f, f.NormalizedSearch(), currentHash)
}

func matchesService(s schema.Service, f schema.FilterState, query, currentHash string) bool {
	if query != "" && !matchesSearch(s, query) {
		return false
	}
	if len(f.Teams) > 0 {
		if _, ok := f.Teams[s.TeamKey()]; !ok {
			return false
		}
	}
	if !matchesRank(s.Rank, f) {
		return false
	}
	if !f.Stale.Admits(IsStale(s, currentHash)) {
		return false
	}
	if !f.API.Admits(s.HasAPI) {
		return false
	}
	if !f.Installed.Admits(s.Installed) {
		return false
	}
	for id, want := range f.Checks {
		c, ok := s.Check(id)
		if !ok || c.Status != want {
			return false
		}
	}
	return true
}

func matchesSearch(s schema.Service, query string) bool {
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.Org), query) ||
		strings.Contains(strings.ToLower(s.Repo), query)
}

// matchesRank applies the include set first, then the exclude set, so exclude wins on overlap.
func matchesRank(r schema.Rank, f schema.FilterState) bool {
	if len(f.RankInclude) > 0 {
		if _, ok := f.RankInclude[r]; !ok {
			return false
		}
	}
	if _, ok := f.RankExclude[r]; ok {
		return false
	}
	return true
}
