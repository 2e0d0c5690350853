package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/huangsam/scorecards/core"
	"github.com/huangsam/scorecards/core/agg"
	"github.com/huangsam/scorecards/core/algo"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// noTeamArg selects services without a team in the team argument.
const noTeamArg = "none"

// toolHandler holds common dependencies for MCP tool handlers.
// Every tool reads the same catalog view store; requests never change its state.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	source  contract.CatalogSource

	mu      sync.Mutex
	store   *core.CatalogViewStore
	catalog *schema.Catalog
}

type serviceRow struct {
	Position int `json:"position"`
	schema.Service
	Stale bool `json:"stale"`
}

type servicesResult struct {
	Total       int                `json:"total"`
	Filtered    int                `json:"filtered"`
	CurrentHash string             `json:"current_hash"`
	Sort        schema.SortKey     `json:"sort"`
	Filters     schema.FilterState `json:"filters"`
	Services    []serviceRow       `json:"services"`
}

type teamsResult struct {
	Total    int                `json:"total"`
	TeamSort schema.TeamSortKey `json:"team_sort"`
	Teams    []schema.TeamStats `json:"teams"`
}

type allChecksResult struct {
	Checks     []schema.AdoptionRecord   `json:"checks"`
	Categories []schema.CategoryAdoption `json:"categories"`
}

// viewStore returns the shared store, loading the catalog on first use or when refresh is set.
func (h *toolHandler) viewStore(ctx context.Context, refresh bool) (*core.CatalogViewStore, *schema.Catalog, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.store != nil && !refresh {
		return h.store, h.catalog, nil
	}

	catalog, err := core.LoadCatalog(ctx, h.baseCfg.CatalogPath, h.mgr, h.source)
	if err != nil {
		return nil, nil, err
	}
	if h.store == nil {
		h.store = core.NewCatalogViewStore(catalog)
		h.store.SetFilters(h.baseCfg.Filters)
		if h.baseCfg.Sort != "" {
			h.store.SetSort(h.baseCfg.Sort)
		}
		if h.baseCfg.TeamSort != "" {
			h.store.SetTeamSort(h.baseCfg.TeamSort)
		}
	} else {
		h.store.SetCatalog(catalog)
	}
	h.catalog = catalog
	return h.store, catalog, nil
}

// requestState derives the per-request view inputs from the shared store and the tool arguments.
func (h *toolHandler) requestState(ctx context.Context, request mcp.CallToolRequest) (core.CatalogViewState, *schema.Catalog, error) {
	store, catalog, err := h.viewStore(ctx, request.GetBool("refresh", false))
	if err != nil {
		return core.CatalogViewState{}, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	state := store.State()
	filters, err := parseFilters(request, state.Filters)
	if err != nil {
		return core.CatalogViewState{}, nil, err
	}
	state.Filters = filters
	return state, catalog, nil
}

// parseFilters overrides each filter dimension present in the request.
func parseFilters(request mcp.CallToolRequest, base schema.FilterState) (schema.FilterState, error) {
	f := base.Clone()
	args := request.GetArguments()

	if _, ok := args["search"]; ok {
		f = f.WithSearch(request.GetString("search", ""))
	}
	if v := request.GetString("team", ""); v != "" {
		f = f.WithTeams()
		for _, name := range contract.SplitList(v) {
			id := schema.CanonicalTeamID(name)
			if strings.EqualFold(name, noTeamArg) {
				id = schema.NoTeam
			}
			f = f.ToggleTeam(id)
		}
	}
	if v := request.GetString("rank", ""); v != "" {
		for _, name := range contract.SplitList(v) {
			r, err := schema.ParseRank(name)
			if err != nil {
				return f, err
			}
			f = f.WithRankMode(r, schema.FilterInclude)
		}
	}
	if v := request.GetString("exclude_rank", ""); v != "" {
		for _, name := range contract.SplitList(v) {
			r, err := schema.ParseRank(name)
			if err != nil {
				return f, err
			}
			f = f.WithRankMode(r, schema.FilterExclude)
		}
	}

	modes := []struct {
		arg   string
		apply func(schema.FilterState, schema.FilterMode) schema.FilterState
	}{
		{"stale", schema.FilterState.WithStale},
		{"api", schema.FilterState.WithAPI},
		{"installed", schema.FilterState.WithInstalled},
	}
	for _, m := range modes {
		v := request.GetString(m.arg, "")
		if v == "" {
			continue
		}
		mode, err := schema.ParseFilterMode(v)
		if err != nil {
			return f, fmt.Errorf("%s: %w", m.arg, err)
		}
		f = m.apply(f, mode)
	}

	if v := request.GetString("check", ""); v != "" {
		f = f.ClearChecks()
		for _, item := range contract.SplitList(v) {
			id, status, err := schema.ParseCheckFilter(item)
			if err != nil {
				return f, err
			}
			f = f.WithCheck(id, status)
		}
	}
	return f, nil
}

func (h *toolHandler) limit(request mcp.CallToolRequest) int {
	if l := request.GetInt("limit", 0); l > 0 {
		return l
	}
	return h.baseCfg.ResultLimit
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleListServices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, _, err := h.requestState(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s := request.GetString("sort", ""); s != "" {
		key, err := schema.ParseSortKey(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		state.Sort = key
	}
	state.Mode = schema.ServicesView

	view := core.ApplyView(state)
	shown := algo.Limit(view.Services, h.limit(request))
	rows := make([]serviceRow, 0, len(shown))
	for i, s := range shown {
		rows = append(rows, serviceRow{Position: i + 1, Service: s, Stale: algo.IsStale(s, view.CurrentHash)})
	}
	return jsonResult(servicesResult{
		Total:       view.Total,
		Filtered:    view.Filtered(),
		CurrentHash: view.CurrentHash,
		Sort:        view.Sort,
		Filters:     view.Filters,
		Services:    rows,
	}), nil
}

func (h *toolHandler) handleListTeams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, _, err := h.requestState(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s := request.GetString("team_sort", ""); s != "" {
		key, err := schema.ParseTeamSortKey(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		state.TeamSort = key
	}
	state.Mode = schema.TeamsView

	view := core.ApplyView(state)
	return jsonResult(teamsResult{
		Total:    len(view.Teams),
		TeamSort: view.TeamSort,
		Teams:    algo.Limit(view.Teams, h.limit(request)),
	}), nil
}

func (h *toolHandler) handleGetCheckAdoption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, catalog, err := h.requestState(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	key := schema.AdoptionSortKey(strings.ToLower(request.GetString("adoption_sort", string(schema.AdoptionSortRate))))
	if _, ok := schema.ValidAdoptionSortKeys[key]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid adoption sort '%s'. must be rate or name", key)), nil
	}
	var descending bool
	switch strings.ToLower(request.GetString("direction", "")) {
	case "":
		descending = key == schema.AdoptionSortRate
	case "desc":
		descending = true
	case "asc":
		descending = false
	default:
		return mcp.NewToolResultError("invalid direction. must be asc or desc"), nil
	}

	services := core.ApplyFilter(state)
	limit := h.limit(request)
	if id := strings.TrimSpace(request.GetString("check_id", "")); id != "" {
		adoption, err := core.CheckAdoptionReport(catalog, services, id, key, descending, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(adoption), nil
	}

	records, categories := core.AllChecksReport(catalog, services, state.Filters, key, descending, limit)
	return jsonResult(allChecksResult{Checks: records, Categories: categories}), nil
}

func (h *toolHandler) handleGetCatalogStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, catalog, err := h.requestState(ctx, request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filtered := core.ApplyFilter(state)
	stats := agg.CatalogSummary(state.Services, len(filtered), state.Filters, catalog.Checks, state.CurrentHash)
	return jsonResult(stats), nil
}
