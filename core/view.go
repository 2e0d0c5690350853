package core

import (
	"sync"

	"github.com/huangsam/scorecards/core/agg"
	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/schema"
)

// CatalogViewState holds every input of a view recomputation.
type CatalogViewState struct {
	Services    []schema.Service
	Teams       map[schema.TeamID]schema.Team
	CurrentHash string
	Filters     schema.FilterState
	Sort        schema.SortKey
	TeamSort    schema.TeamSortKey
	Mode        schema.ViewMode
}

// ApplyFilter returns the services matching the state's filters, in input order.
func ApplyFilter(state CatalogViewState) []schema.Service {
	return algo.FilterServices(state.Services, state.Filters, state.CurrentHash)
}

// ApplySort returns a sorted copy of services.
func ApplySort(services []schema.Service, key schema.SortKey) []schema.Service {
	return algo.SortServices(services, key)
}

// ApplyView computes the full derived view for a state.
// The teams view filters services on every dimension except search, then matches the
// search query against team names and descriptions.
func ApplyView(state CatalogViewState) schema.CatalogView {
	view := schema.CatalogView{
		Mode:        state.Mode,
		Filters:     state.Filters.Clone(),
		Sort:        state.Sort,
		TeamSort:    state.TeamSort,
		CurrentHash: state.CurrentHash,
		Total:       len(state.Services),
	}
	if view.Mode == "" {
		view.Mode = schema.ServicesView
	}

	if view.Mode != schema.TeamsView {
		view.Services = ApplySort(ApplyFilter(state), state.Sort)
		return view
	}

	teamState := state
	teamState.Filters = state.Filters.WithSearch("")
	filtered := ApplyFilter(teamState)
	rows := agg.TeamStatistics(filtered, state.CurrentHash, state.Teams)
	rows = agg.SearchTeams(rows, state.Filters.Search)
	view.Teams = algo.SortTeams(rows, state.TeamSort)
	view.Services = ApplySort(filtered, state.Sort)
	return view
}

// CatalogViewStore owns the mutable view state and recomputes the view eagerly on every change.
type CatalogViewStore struct {
	mu    sync.RWMutex
	state CatalogViewState
	view  schema.CatalogView
}

// NewCatalogViewStore creates a store over a loaded catalog with empty filters and the default sort.
func NewCatalogViewStore(catalog *schema.Catalog) *CatalogViewStore {
	s := &CatalogViewStore{state: CatalogViewState{
		Sort:     schema.SortScoreDesc,
		TeamSort: schema.TeamSortScoreDesc,
		Mode:     schema.ServicesView,
	}}
	if catalog != nil {
		s.state.Services = catalog.Services
		s.state.Teams = catalog.Teams
		s.state.CurrentHash = catalog.CurrentHash
	}
	s.recompute()
	return s
}

// recompute must be called with mu held for writing (or before the store is shared).
func (s *CatalogViewStore) recompute() {
	s.view = ApplyView(s.state)
}

func (s *CatalogViewStore) update(fn func(st *CatalogViewState)) schema.CatalogView {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.recompute()
	return s.view
}

// SetCatalog replaces the raw services, team metadata and current hash, as on a refresh.
func (s *CatalogViewStore) SetCatalog(catalog *schema.Catalog) schema.CatalogView {
	return s.update(func(st *CatalogViewState) {
		st.Services = catalog.Services
		st.Teams = catalog.Teams
		st.CurrentHash = catalog.CurrentHash
	})
}

// SetServices replaces the raw services.
func (s *CatalogViewStore) SetServices(services []schema.Service) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Services = services })
}

// SetFilters replaces the whole filter state.
func (s *CatalogViewStore) SetFilters(f schema.FilterState) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Filters = f.Clone() })
}

// UpdateFilters derives the next filter state from the current one, e.g. with FilterState.CycleRank.
func (s *CatalogViewStore) UpdateFilters(fn func(schema.FilterState) schema.FilterState) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Filters = fn(st.Filters.Clone()) })
}

// ClearFilters resets every filter dimension.
func (s *CatalogViewStore) ClearFilters() schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Filters = schema.FilterState{} })
}

// SetSort changes the service order. The key survives view switches.
func (s *CatalogViewStore) SetSort(key schema.SortKey) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Sort = key })
}

// SetTeamSort changes the team order.
func (s *CatalogViewStore) SetTeamSort(key schema.TeamSortKey) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.TeamSort = key })
}

// SetView switches between the services and teams views.
func (s *CatalogViewStore) SetView(mode schema.ViewMode) schema.CatalogView {
	return s.update(func(st *CatalogViewState) { st.Mode = mode })
}

// Snapshot returns the last computed view. Callers must not modify its slices.
func (s *CatalogViewStore) Snapshot() schema.CatalogView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// State returns a copy of the current inputs. The services slice is shared and read-only.
func (s *CatalogViewStore) State() CatalogViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Filters = s.state.Filters.Clone()
	return st
}
