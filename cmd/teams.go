package cmd

import (
	"github.com/huangsam/scorecards/core"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/spf13/cobra"
)

// teamsCmd groups the catalog by team.
var teamsCmd = &cobra.Command{
	Use:   "teams [catalog-dir]",
	Short: "Show teams ranked by average service score.",
	Long: `Group the filtered services by owning team and report per-team statistics.

Services without a team are gathered under "No Team". Each team shows its
service count, rounded average score, team rank, rank distribution, stale
and installed counts, and check pass/fail/excluded totals.

In this view --search matches team names and descriptions instead of services.

Examples:
  # Teams with the most services first
  scorecards teams --team-sort services-desc

  # Teams whose name contains "end"
  scorecards teams --search end

  # Team averages over gold services only
  scorecards teams --rank gold --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTeams(rootCtx, cfg, cacheManager, catalogSource()); err != nil {
			contract.LogFatal("Cannot list teams", err)
		}
	},
}
