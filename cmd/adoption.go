package cmd

import (
	"github.com/huangsam/scorecards/core"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/spf13/cobra"
)

// adoptionCmd reports how widely checks are adopted.
var adoptionCmd = &cobra.Command{
	Use:   "adoption [catalog-dir]",
	Short: "Report check adoption overall and per team.",
	Long: `Compute how many active services pass a check.

Excluded services are counted separately and never lower the adoption rate.
With --check-id the overall record is shown with one row per team and the
services behind each row. Without it, every catalog check is reported along
with category averages. Selecting a single --team scopes every rate to it.

Examples:
  # README adoption, teams with the best rate first
  scorecards adoption --check-id readme

  # Same check, teams in alphabetical order
  scorecards adoption --check-id readme --adoption-sort name

  # Every check for the backend team
  scorecards adoption --team backend

  # Lowest adopted checks first, as JSON
  scorecards adoption --direction asc --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAdoption(rootCtx, cfg, cacheManager, catalogSource()); err != nil {
			contract.LogFatal("Cannot compute check adoption", err)
		}
	},
}
