package cmd

import (
	"github.com/huangsam/scorecards/core"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/spf13/cobra"
)

// servicesCmd lists the filtered, sorted services of a catalog.
var servicesCmd = &cobra.Command{
	Use:   "services [catalog-dir]",
	Short: "Show catalog services ranked by scorecard score.",
	Long: `Load a scorecards catalog and list its services after filtering and sorting.

Each row shows the score, rank, owning team, check pass count, staleness
against the current checks hash, API spec presence, workflow installation
and last update.

The chosen --sort is saved in the cache and reused when the flag is omitted.

Examples:
  # Lowest scoring services first
  scorecards services ./catalog --sort score-asc

  # Silver services of the platform team that are out of date
  scorecards services --team platform --rank silver --stale include

  # Services failing the CI check, without the bronze tier
  scorecards services --check ci-workflow:fail --exclude-rank bronze

  # Export the view to CSV for tracking
  scorecards services --output csv --output-file services.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteServices(rootCtx, cfg, cacheManager, catalogSource()); err != nil {
			contract.LogFatal("Cannot list services", err)
		}
	},
}
