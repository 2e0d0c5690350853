package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/scorecards/schema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newNameCollator compares names case-insensitively. Collators are not safe for concurrent use.
func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

// SortServices returns a sorted copy of services. The input is not modified.
// Score ties fall back to name ascending. Services without a last-updated time sort last for both time orders.
func SortServices(services []schema.Service, key schema.SortKey) []schema.Service {
	out := slices.Clone(services)
	col := newNameCollator()
	byName := func(a, b schema.Service) int {
		return col.CompareString(a.Name, b.Name)
	}
	var fn func(a, b schema.Service) int
	switch key {
	case schema.SortScoreAsc:
		fn = func(a, b schema.Service) int {
			if c := cmp.Compare(a.Score, b.Score); c != 0 {
				return c
			}
			return byName(a, b)
		}
	case schema.SortNameAsc:
		fn = byName
	case schema.SortNameDesc:
		fn = func(a, b schema.Service) int { return byName(b, a) }
	case schema.SortRecent:
		fn = func(a, b schema.Service) int { return compareUpdated(a, b, true) }
	case schema.SortOldest:
		fn = func(a, b schema.Service) int { return compareUpdated(a, b, false) }
	default:
		fn = func(a, b schema.Service) int {
			if c := cmp.Compare(b.Score, a.Score); c != 0 {
				return c
			}
			return byName(a, b)
		}
	}
	slices.SortStableFunc(out, fn)
	return out
}

func compareUpdated(a, b schema.Service, newestFirst bool) int {
	az, bz := a.LastUpdated.IsZero(), b.LastUpdated.IsZero()
	switch {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	}
	if newestFirst {
		return b.LastUpdated.Compare(a.LastUpdated)
	}
	return a.LastUpdated.Compare(b.LastUpdated)
}

// SortTeams returns a sorted copy of team rows. Ties fall back to name ascending.
func SortTeams(teams []schema.TeamStats, key schema.TeamSortKey) []schema.TeamStats {
	out := slices.Clone(teams)
	col := newNameCollator()
	byName := func(a, b schema.TeamStats) int {
		return col.CompareString(a.Name, b.Name)
	}
	then := func(c int, a, b schema.TeamStats) int {
		if c != 0 {
			return c
		}
		return byName(a, b)
	}
	var fn func(a, b schema.TeamStats) int
	switch key {
	case schema.TeamSortServicesDesc:
		fn = func(a, b schema.TeamStats) int { return then(cmp.Compare(b.ServiceCount, a.ServiceCount), a, b) }
	case schema.TeamSortServicesAsc:
		fn = func(a, b schema.TeamStats) int { return then(cmp.Compare(a.ServiceCount, b.ServiceCount), a, b) }
	case schema.TeamSortScoreAsc:
		fn = func(a, b schema.TeamStats) int { return then(cmp.Compare(a.AverageScore, b.AverageScore), a, b) }
	case schema.TeamSortNameAsc:
		fn = byName
	case schema.TeamSortNameDesc:
		fn = func(a, b schema.TeamStats) int { return byName(b, a) }
	default:
		fn = func(a, b schema.TeamStats) int { return then(cmp.Compare(b.AverageScore, a.AverageScore), a, b) }
	}
	slices.SortStableFunc(out, fn)
	return out
}
