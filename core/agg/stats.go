package agg

import (
	"math"

	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/schema"
)

// CountByRank buckets services by rank.
func CountByRank(services []schema.Service) schema.RankCounts {
	var rc schema.RankCounts
	for _, s := range services {
		addRank(&rc, s.Rank)
	}
	return rc
}

func addRank(rc *schema.RankCounts, r schema.Rank) {
	switch r {
	case schema.RankPlatinum:
		rc.Platinum++
	case schema.RankGold:
		rc.Gold++
	case schema.RankSilver:
		rc.Silver++
	case schema.RankBronze:
		rc.Bronze++
	default:
		rc.Unranked++
	}
}

// AverageScore is the mean score, or 0 for no services.
func AverageScore(services []schema.Service) float64 {
	if len(services) == 0 {
		return 0
	}
	total := 0
	for _, s := range services {
		total += s.Score
	}
	return float64(total) / float64(len(services))
}

// CatalogSummary builds the stat cards over all services. Filtered and filters describe the current view.
func CatalogSummary(services []schema.Service, filtered int, filters schema.FilterState, catalog schema.CheckCatalog, currentHash string) schema.CatalogStats {
	st := schema.CatalogStats{
		TotalServices:    len(services),
		FilteredServices: filtered,
		AverageScore:     AverageScore(services),
		Ranks:            CountByRank(services),
		Staleness:        algo.StalenessSummary(services, currentHash),
		ActiveFilters:    filters.ActiveCount(),
	}
	if st.TotalServices > 0 {
		st.StalePercent = float64(st.Staleness.Stale) / float64(st.TotalServices) * 100
	}
	teams := map[schema.TeamID]struct{}{}
	for _, s := range services {
		if s.HasAPI {
			st.WithAPI++
		}
		if s.TeamKey() != schema.NoTeam {
			teams[s.TeamKey()] = struct{}{}
		}
	}
	st.Teams = len(teams)
	st.Categories = CategoryAdoption(AllChecksAdoption(services, catalog, ""), catalog)
	return st
}

// roundScore rounds half away from zero, matching how averages are shown elsewhere.
func roundScore(f float64) int {
	return int(math.Round(f))
}
