// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// filterOptions are the service filter arguments shared by every tool.
func filterOptions() []mcp.ToolOption {
	tri := mcp.Enum("include", "exclude")
	return []mcp.ToolOption{
		mcp.WithString("search", mcp.Description("Case-insensitive substring matched against service name, repo and team.")),
		mcp.WithString("team", mcp.Description("Comma-separated team names. Use 'none' for services without a team.")),
		mcp.WithString("rank", mcp.Description("Comma-separated ranks to include (platinum, gold, silver, bronze).")),
		mcp.WithString("exclude_rank", mcp.Description("Comma-separated ranks to exclude. Exclusion wins over inclusion.")),
		mcp.WithString("stale", mcp.Description("Keep only stale services (include) or only current ones (exclude)."), tri),
		mcp.WithString("api", mcp.Description("Filter on API presence."), tri),
		mcp.WithString("installed", mcp.Description("Filter on whether the scorecards workflow is installed."), tri),
		mcp.WithString("check", mcp.Description("Comma-separated check filters like 'readme:pass,ci-workflow:fail'.")),
		mcp.WithBoolean("refresh", mcp.Description("Reload the catalog from disk before answering.")),
	}
}

// newTool builds a tool with the shared filter arguments followed by its own.
func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, filterOptions()...)
	return mcp.NewTool(name, append(all, opts...)...)
}

// NewMCPServer initializes and configures the Scorecards MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) *server.MCPServer {
	s := server.NewMCPServer(
		"Scorecards Catalog Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		source:  source,
	}

	// --- 1. Tool: list_services ---
	s.AddTool(newTool("list_services",
		"List catalog services after filtering and sorting, with score, rank, team and staleness.",
		mcp.WithString("sort", mcp.Description("Service order. Defaults to 'score-desc'."),
			mcp.Enum("score-desc", "score-asc", "name-asc", "name-desc", "recent", "updated-asc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of services returned.")),
	), h.handleListServices)

	// --- 2. Tool: list_teams ---
	s.AddTool(newTool("list_teams",
		"Aggregate services per team: service count, average score, team rank, staleness and check totals. The search argument matches team names and descriptions.",
		mcp.WithString("team_sort", mcp.Description("Team order. Defaults to 'score-desc'."),
			mcp.Enum("score-desc", "score-asc", "services-desc", "services-asc", "name-asc", "name-desc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of teams returned.")),
	), h.handleListTeams)

	// --- 3. Tool: get_check_adoption ---
	s.AddTool(newTool("get_check_adoption",
		"Report how many active services pass a check, overall and per team. Without check_id every catalog check is reported with category averages.",
		mcp.WithString("check_id", mcp.Description("The check to report on, e.g. 'readme'.")),
		mcp.WithString("adoption_sort", mcp.Description("Order rows by adoption rate or name. Defaults to 'rate'."), mcp.Enum("rate", "name")),
		mcp.WithString("direction", mcp.Description("Sort direction. Rates default to desc, names to asc."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows returned.")),
	), h.handleGetCheckAdoption)

	// --- 4. Tool: get_catalog_stats ---
	s.AddTool(newTool("get_catalog_stats",
		"Summarize the catalog: totals, average score, rank distribution, staleness, API and installation counts, and category adoption.",
	), h.handleGetCatalogStats)

	return s
}

// StartMCPServer starts the Scorecards MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, source contract.CatalogSource) error {
	s := NewMCPServer(baseCfg, mgr, source)
	return server.ServeStdio(s)
}
