package agg

import (
	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/schema"
)

func resolveTeamName(id schema.TeamID, seen string, teams map[schema.TeamID]schema.Team) string {
	if id == schema.NoTeam {
		return schema.NoTeamLabel
	}
	if t, ok := teams[id]; ok && t.Name != "" {
		return t.Name
	}
	if seen != "" {
		return seen
	}
	return string(id)
}

// TeamStatistics groups services by team, in order of first appearance.
func TeamStatistics(services []schema.Service, currentHash string, teams map[schema.TeamID]schema.Team) []schema.TeamStats {
	index := map[schema.TeamID]int{}
	var rows []schema.TeamStats
	totals := []int{}
	for _, s := range services {
		id := s.TeamKey()
		i, ok := index[id]
		if !ok {
			i = len(rows)
			index[id] = i
			row := schema.TeamStats{ID: id, Name: resolveTeamName(id, s.TeamName, teams)}
			if t, ok := teams[id]; ok {
				row.Description = t.Description
			}
			rows = append(rows, row)
			totals = append(totals, 0)
		}
		row := &rows[i]
		row.ServiceCount++
		totals[i] += s.Score
		addRank(&row.RankDistribution, s.Rank)
		if algo.IsStale(s, currentHash) {
			row.Stale++
		}
		if s.Installed {
			row.Installed++
		}
		addChecks(&row.Checks, s.Checks)
	}
	for i := range rows {
		rows[i].AverageScore = roundScore(float64(totals[i]) / float64(rows[i].ServiceCount))
		rows[i].Rank = schema.TeamRankForScore(rows[i].AverageScore)
	}
	return rows
}

func addChecks(ct *schema.CheckTotals, checks []schema.CheckResult) {
	for _, c := range checks {
		if ct.ByCategory == nil {
			ct.ByCategory = map[string]schema.CategoryTotals{}
		}
		cat := ct.ByCategory[c.Category]
		switch c.Status {
		case schema.StatusPass:
			ct.Pass++
			cat.Pass++
		case schema.StatusFail:
			ct.Fail++
			cat.Fail++
		case schema.StatusExcluded:
			ct.Excluded++
			cat.Excluded++
		}
		ct.ByCategory[c.Category] = cat
	}
}

// SearchTeams keeps the team rows whose name, description or id contains the query.
func SearchTeams(rows []schema.TeamStats, query string) []schema.TeamStats {
	out := make([]schema.TeamStats, 0, len(rows))
	for _, r := range rows {
		t := schema.Team{ID: r.ID, Name: r.Name, Description: r.Description}
		if t.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
