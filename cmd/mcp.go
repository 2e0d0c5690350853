package cmd

import (
	"github.com/huangsam/scorecards/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [catalog-dir]",
	Short: "Start the Scorecards MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents query the catalog.

Tools: list_services, list_teams, get_check_adoption, get_catalog_stats.
Flags given here become the defaults that every tool call starts from.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, catalogSource())
	},
}
