package schema

// AdoptionRecord counts how many active services pass one check.
// Services with the check excluded are not active; services without the check are not applicable.
type AdoptionRecord struct {
	CheckID       string  `json:"check_id"`
	CheckName     string  `json:"check_name,omitempty"`
	Category      string  `json:"category,omitempty"`
	Team          TeamID  `json:"team,omitempty"`
	TeamName      string  `json:"team_name,omitempty"`
	Passing       int     `json:"passing"`
	Failing       int     `json:"failing"`
	Excluded      int     `json:"excluded"`
	NotApplicable int     `json:"not_applicable"`
	ActiveTotal   int     `json:"active_total"`
	AdoptionRate  float64 `json:"adoption_rate"`
}

// Percent is the adoption rate on a 0..100 scale.
func (a AdoptionRecord) Percent() float64 {
	return a.AdoptionRate * 100
}

// ServiceAdoption is one service's standing against a single check.
type ServiceAdoption struct {
	Org             string      `json:"org"`
	Repo            string      `json:"repo"`
	Name            string      `json:"name"`
	Score           int         `json:"score"`
	Rank            Rank        `json:"rank"`
	Status          CheckStatus `json:"status"`
	ExclusionReason string      `json:"exclusion_reason,omitempty"`
}

// TeamAdoption pairs a team's adoption counts with its services.
type TeamAdoption struct {
	AdoptionRecord
	Services []ServiceAdoption `json:"services,omitempty"`
}

// CheckAdoption is the adoption picture for one check across the catalog.
type CheckAdoption struct {
	Overall AdoptionRecord `json:"overall"`
	ByTeam  []TeamAdoption `json:"by_team"`
}

// CategoryAdoption is the mean adoption rate over the active checks of one category.
type CategoryAdoption struct {
	Category     string  `json:"category"`
	Checks       int     `json:"checks"`
	AdoptionRate float64 `json:"adoption_rate"`
}

// RankCounts buckets services by rank. Unranked holds services with no recognized rank.
type RankCounts struct {
	Platinum int `json:"platinum"`
	Gold     int `json:"gold"`
	Silver   int `json:"silver"`
	Bronze   int `json:"bronze"`
	Unranked int `json:"unranked"`
}

// Get returns the count for one rank, or Unranked for anything else.
func (r RankCounts) Get(rank Rank) int {
	switch rank {
	case RankPlatinum:
		return r.Platinum
	case RankGold:
		return r.Gold
	case RankSilver:
		return r.Silver
	case RankBronze:
		return r.Bronze
	default:
		return r.Unranked
	}
}

// Total sums every bucket.
func (r RankCounts) Total() int {
	return r.Platinum + r.Gold + r.Silver + r.Bronze + r.Unranked
}

// StalenessStats summarizes staleness over a set of services.
type StalenessStats struct {
	Total             int `json:"total"`
	Stale             int `json:"stale"`
	Installed         int `json:"installed"`
	StaleAndInstalled int `json:"stale_and_installed"`
}

// CheckTotals counts check outcomes for a group of services.
type CheckTotals struct {
	Pass       int                       `json:"pass"`
	Fail       int                       `json:"fail"`
	Excluded   int                       `json:"excluded"`
	ByCategory map[string]CategoryTotals `json:"by_category,omitempty"`
}

// CategoryTotals counts check outcomes inside one category.
type CategoryTotals struct {
	Pass     int `json:"pass"`
	Fail     int `json:"fail"`
	Excluded int `json:"excluded"`
}

// TeamStats is the aggregate row for one team.
type TeamStats struct {
	ID               TeamID      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	ServiceCount     int         `json:"service_count"`
	AverageScore     int         `json:"average_score"`
	Rank             Rank        `json:"rank"`
	RankDistribution RankCounts  `json:"rank_distribution"`
	Stale            int         `json:"stale"`
	Installed        int         `json:"installed"`
	Checks           CheckTotals `json:"checks"`
}

// CatalogStats is the summary shown by the stats view.
type CatalogStats struct {
	TotalServices    int                `json:"total_services"`
	FilteredServices int                `json:"filtered_services"`
	AverageScore     float64            `json:"average_score"`
	Ranks            RankCounts         `json:"ranks"`
	Staleness        StalenessStats     `json:"staleness"`
	StalePercent     float64            `json:"stale_percent"`
	WithAPI          int                `json:"with_api"`
	Teams            int                `json:"teams"`
	ActiveFilters    int                `json:"active_filters"`
	Categories       []CategoryAdoption `json:"categories,omitempty"`
}
