package schema

import (
	"maps"
	"strings"
)

// Next cycles off -> include -> exclude -> off.
func (m FilterMode) Next() FilterMode {
	switch m {
	case FilterOff:
		return FilterInclude
	case FilterInclude:
		return FilterExclude
	default:
		return FilterOff
	}
}

// Admits reports whether a service whose attribute is v passes this mode.
func (m FilterMode) Admits(v bool) bool {
	switch m {
	case FilterInclude:
		return v
	case FilterExclude:
		return !v
	default:
		return true
	}
}

// Active is true unless the mode is FilterOff.
func (m FilterMode) Active() bool {
	return m == FilterInclude || m == FilterExclude
}

// FilterState is the full set of filters applied to the service list.
// The zero value filters nothing. Methods never mutate the receiver.
type FilterState struct {
	Search      string                 `json:"search,omitempty"`
	Teams       map[TeamID]struct{}    `json:"teams,omitempty"`
	RankInclude map[Rank]struct{}      `json:"rank_include,omitempty"`
	RankExclude map[Rank]struct{}      `json:"rank_exclude,omitempty"`
	Stale       FilterMode             `json:"stale,omitempty"`
	API         FilterMode             `json:"api,omitempty"`
	Installed   FilterMode             `json:"installed,omitempty"`
	Checks      map[string]CheckStatus `json:"checks,omitempty"`
}

// Clone returns a deep copy.
func (f FilterState) Clone() FilterState {
	out := f
	out.Teams = maps.Clone(f.Teams)
	out.RankInclude = maps.Clone(f.RankInclude)
	out.RankExclude = maps.Clone(f.RankExclude)
	out.Checks = maps.Clone(f.Checks)
	return out
}

// NormalizedSearch is the trimmed, lowercased search query.
func (f FilterState) NormalizedSearch() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// WithSearch sets the search query.
func (f FilterState) WithSearch(q string) FilterState {
	out := f.Clone()
	out.Search = q
	return out
}

// WithTeams replaces the team selection. Names are canonicalized.
func (f FilterState) WithTeams(teams ...string) FilterState {
	out := f.Clone()
	out.Teams = nil
	for _, t := range teams {
		if out.Teams == nil {
			out.Teams = map[TeamID]struct{}{}
		}
		out.Teams[CanonicalTeamID(t)] = struct{}{}
	}
	return out
}

// ToggleTeam adds the team when absent and removes it when present.
func (f FilterState) ToggleTeam(id TeamID) FilterState {
	out := f.Clone()
	if _, ok := out.Teams[id]; ok {
		delete(out.Teams, id)
		if len(out.Teams) == 0 {
			out.Teams = nil
		}
		return out
	}
	if out.Teams == nil {
		out.Teams = map[TeamID]struct{}{}
	}
	out.Teams[id] = struct{}{}
	return out
}

// RankMode reports the mode currently set for a rank. Exclude wins if both sets hold it.
func (f FilterState) RankMode(r Rank) FilterMode {
	if _, ok := f.RankExclude[r]; ok {
		return FilterExclude
	}
	if _, ok := f.RankInclude[r]; ok {
		return FilterInclude
	}
	return FilterOff
}

// WithRankMode puts a rank into exactly one of the include or exclude sets, or neither.
func (f FilterState) WithRankMode(r Rank, m FilterMode) FilterState {
	out := f.Clone()
	delete(out.RankInclude, r)
	delete(out.RankExclude, r)
	switch m {
	case FilterInclude:
		if out.RankInclude == nil {
			out.RankInclude = map[Rank]struct{}{}
		}
		out.RankInclude[r] = struct{}{}
	case FilterExclude:
		if out.RankExclude == nil {
			out.RankExclude = map[Rank]struct{}{}
		}
		out.RankExclude[r] = struct{}{}
	}
	if len(out.RankInclude) == 0 {
		out.RankInclude = nil
	}
	if len(out.RankExclude) == 0 {
		out.RankExclude = nil
	}
	return out
}

// CycleRank advances a rank to its next filter mode.
func (f FilterState) CycleRank(r Rank) FilterState {
	return f.WithRankMode(r, f.RankMode(r).Next())
}

// WithStale sets the staleness filter mode.
func (f FilterState) WithStale(m FilterMode) FilterState {
	out := f.Clone()
	out.Stale = m
	return out
}

// WithAPI sets the API presence filter mode.
func (f FilterState) WithAPI(m FilterMode) FilterState {
	out := f.Clone()
	out.API = m
	return out
}

// WithInstalled sets the installation filter mode.
func (f FilterState) WithInstalled(m FilterMode) FilterState {
	out := f.Clone()
	out.Installed = m
	return out
}

// WithCheck requires a check to have the given status. Any status other than pass or fail clears the check.
func (f FilterState) WithCheck(id string, status CheckStatus) FilterState {
	out := f.Clone()
	if status != StatusPass && status != StatusFail {
		delete(out.Checks, id)
		if len(out.Checks) == 0 {
			out.Checks = nil
		}
		return out
	}
	if out.Checks == nil {
		out.Checks = map[string]CheckStatus{}
	}
	out.Checks[id] = status
	return out
}

// ClearChecks drops every check filter.
func (f FilterState) ClearChecks() FilterState {
	out := f.Clone()
	out.Checks = nil
	return out
}

// Clear resets every filter, including search.
func (f FilterState) Clear() FilterState {
	return FilterState{}
}

// ActiveCount counts the filters in effect. Each selected team, rank and check counts once.
func (f FilterState) ActiveCount() int {
	n := len(f.Teams) + len(f.Checks)
	for _, r := range AllRanks {
		if f.RankMode(r).Active() {
			n++
		}
	}
	for _, m := range []FilterMode{f.Stale, f.API, f.Installed} {
		if m.Active() {
			n++
		}
	}
	if f.NormalizedSearch() != "" {
		n++
	}
	return n
}

// IsEmpty is true when no filter is in effect.
func (f FilterState) IsEmpty() bool {
	return f.ActiveCount() == 0
}
