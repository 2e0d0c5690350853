package cmd

import (
	"github.com/huangsam/scorecards/core"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd prints summary cards for the catalog.
var statsCmd = &cobra.Command{
	Use:   "stats [catalog-dir]",
	Short: "Summarize the catalog in a few numbers.",
	Long: `Print catalog totals: services, filtered services, average score, rank
distribution, staleness, API and installation counts, and category adoption.

When --history-backend is set, every run records a snapshot of these totals
and of per-check adoption for later export.

Examples:
  # Catalog overview
  scorecards stats ./catalog

  # Overview of installed services only
  scorecards stats --installed include

  # Record a history snapshot in SQLite
  scorecards stats --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, cacheManager, catalogSource()); err != nil {
			contract.LogFatal("Cannot compute catalog stats", err)
		}
	},
}
