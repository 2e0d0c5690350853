package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/scorecards/schema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ComputeAdoption tallies one check over services. A non-empty scope restricts the tally to that team.
func ComputeAdoption(services []schema.Service, checkID string, scope schema.TeamID) schema.AdoptionRecord {
	rec := schema.AdoptionRecord{CheckID: checkID, Team: scope}
	for _, s := range services {
		if scope != "" && s.TeamKey() != scope {
			continue
		}
		tallyService(&rec, s)
	}
	finishRecord(&rec)
	return rec
}

func tallyService(rec *schema.AdoptionRecord, s schema.Service) {
	c, ok := s.Check(rec.CheckID)
	if !ok {
		rec.NotApplicable++
		return
	}
	if rec.CheckName == "" {
		rec.CheckName = c.Name
		rec.Category = c.Category
	}
	switch c.Status {
	case schema.StatusPass:
		rec.Passing++
	case schema.StatusFail:
		rec.Failing++
	case schema.StatusExcluded:
		rec.Excluded++
	}
}

func finishRecord(rec *schema.AdoptionRecord) {
	rec.ActiveTotal = rec.Passing + rec.Failing
	rec.AdoptionRate = 0
	if rec.ActiveTotal > 0 {
		rec.AdoptionRate = float64(rec.Passing) / float64(rec.ActiveTotal)
	}
}

// AdoptionByTeam breaks one check down per team, in order of first appearance.
// Services without a team land in the NoTeam group.
func AdoptionByTeam(services []schema.Service, checkID string, teams map[schema.TeamID]schema.Team) []schema.TeamAdoption {
	index := map[schema.TeamID]int{}
	var rows []schema.TeamAdoption
	for _, s := range services {
		id := s.TeamKey()
		i, ok := index[id]
		if !ok {
			i = len(rows)
			index[id] = i
			rows = append(rows, schema.TeamAdoption{AdoptionRecord: schema.AdoptionRecord{
				CheckID:  checkID,
				Team:     id,
				TeamName: resolveTeamName(id, s.TeamName, teams),
			}})
		}
		row := &rows[i]
		tallyService(&row.AdoptionRecord, s)
		if c, ok := s.Check(checkID); ok {
			row.Services = append(row.Services, schema.ServiceAdoption{
				Org:             s.Org,
				Repo:            s.Repo,
				Name:            s.Name,
				Score:           s.Score,
				Rank:            s.Rank,
				Status:          c.Status,
				ExclusionReason: c.ExclusionReason,
			})
		}
	}
	for i := range rows {
		finishRecord(&rows[i].AdoptionRecord)
		sortServiceAdoption(rows[i].Services)
	}
	return rows
}

var statusOrder = map[schema.CheckStatus]int{
	schema.StatusPass:     0,
	schema.StatusFail:     1,
	schema.StatusExcluded: 2,
}

// sortServiceAdoption orders pass, fail, excluded, then by score descending and name.
func sortServiceAdoption(rows []schema.ServiceAdoption) {
	slices.SortStableFunc(rows, func(a, b schema.ServiceAdoption) int {
		if c := cmp.Compare(statusOrder[a.Status], statusOrder[b.Status]); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// BuildCheckAdoption returns the overall record and the per-team breakdown for one check.
func BuildCheckAdoption(services []schema.Service, catalog schema.CheckCatalog, checkID string, teams map[schema.TeamID]schema.Team) schema.CheckAdoption {
	overall := ComputeAdoption(services, checkID, "")
	if def, ok := catalog.Lookup(checkID); ok {
		overall.CheckName = def.Name
		overall.Category = def.Category
	}
	byTeam := AdoptionByTeam(services, checkID, teams)
	for i := range byTeam {
		byTeam[i].CheckName = overall.CheckName
		byTeam[i].Category = overall.Category
	}
	return schema.CheckAdoption{Overall: overall, ByTeam: byTeam}
}

// AllChecksAdoption computes one record per catalog check, in catalog order.
func AllChecksAdoption(services []schema.Service, catalog schema.CheckCatalog, scope schema.TeamID) []schema.AdoptionRecord {
	out := make([]schema.AdoptionRecord, 0, len(catalog.Checks))
	for _, def := range catalog.Checks {
		rec := ComputeAdoption(services, def.ID, scope)
		rec.CheckName = def.Name
		rec.Category = def.Category
		out = append(out, rec)
	}
	return out
}

// TeamCheckAdoption computes every catalog check for a single team.
func TeamCheckAdoption(services []schema.Service, catalog schema.CheckCatalog, team schema.TeamID) []schema.AdoptionRecord {
	return AllChecksAdoption(services, catalog, team)
}

// CategoryAdoption averages adoption rates per category over the checks that have active services.
// Categories listed in the catalog come first, in catalog order.
func CategoryAdoption(records []schema.AdoptionRecord, catalog schema.CheckCatalog) []schema.CategoryAdoption {
	order := slices.Clone(catalog.Categories)
	for _, r := range records {
		if r.Category != "" && !slices.Contains(order, r.Category) {
			order = append(order, r.Category)
		}
	}
	out := make([]schema.CategoryAdoption, 0, len(order))
	for _, cat := range order {
		row := schema.CategoryAdoption{Category: cat}
		sum := 0.0
		for _, r := range records {
			if r.Category != cat || r.ActiveTotal == 0 {
				continue
			}
			row.Checks++
			sum += r.AdoptionRate
		}
		if row.Checks > 0 {
			row.AdoptionRate = sum / float64(row.Checks)
		}
		out = append(out, row)
	}
	return out
}

// SortTeamAdoption returns per-team rows ordered by rate or team name. Ties fall back to team name ascending.
func SortTeamAdoption(rows []schema.TeamAdoption, key schema.AdoptionSortKey, descending bool) []schema.TeamAdoption {
	out := slices.Clone(rows)
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b schema.TeamAdoption) int {
		return compareAdoption(col, a.AdoptionRecord, b.AdoptionRecord, a.TeamName, b.TeamName, key, descending)
	})
	return out
}

// SortAdoptionRecords orders per-check records by rate or check name. Ties fall back to check name ascending.
func SortAdoptionRecords(records []schema.AdoptionRecord, key schema.AdoptionSortKey, descending bool) []schema.AdoptionRecord {
	out := slices.Clone(records)
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b schema.AdoptionRecord) int {
		return compareAdoption(col, a, b, a.CheckName, b.CheckName, key, descending)
	})
	return out
}

func compareAdoption(col *collate.Collator, a, b schema.AdoptionRecord, an, bn string, key schema.AdoptionSortKey, descending bool) int {
	byName := col.CompareString(an, bn)
	if key == schema.AdoptionSortName {
		if descending {
			return -byName
		}
		return byName
	}
	c := cmp.Compare(a.AdoptionRate, b.AdoptionRate)
	if descending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return byName
}
