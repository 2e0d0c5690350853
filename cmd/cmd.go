// Package cmd defines the command-line interface for scorecards.
package cmd

import (
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(adoptionCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Stats history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for stats history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	// Service filters shared by every catalog command
	rootCmd.PersistentFlags().StringP("search", "s", "", "Case-insensitive substring matched against name, repo and team")
	rootCmd.PersistentFlags().StringP("team", "t", "", "Comma-separated list of teams to keep")
	rootCmd.PersistentFlags().Bool("no-team", false, "Keep services without a team")
	rootCmd.PersistentFlags().String("rank", "", "Comma-separated list of ranks to keep (platinum, gold, silver, bronze)")
	rootCmd.PersistentFlags().String("exclude-rank", "", "Comma-separated list of ranks to drop (wins over --rank)")
	rootCmd.PersistentFlags().String("stale", "", "Stale filter: include or exclude")
	rootCmd.PersistentFlags().String("api", "", "API spec filter: include or exclude")
	rootCmd.PersistentFlags().String("installed", "", "Installed workflow filter: include or exclude")
	rootCmd.PersistentFlags().String("check", "", "Comma-separated check filters (e.g., readme:pass,ci-workflow:fail)")
	rootCmd.PersistentFlags().String("sort", string(schema.SortScoreDesc), "Service sort: score-desc, score-asc, name-asc, name-desc, recent, updated-asc")
	rootCmd.PersistentFlags().String("team-sort", string(schema.TeamSortScoreDesc), "Team sort: score-desc, score-asc, services-desc, services-asc, name-asc, name-desc")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of adoptionCmd to Viper
	adoptionCmd.Flags().String("check-id", "", "Check to report on (omit to report every check)")
	adoptionCmd.Flags().String("adoption-sort", string(schema.AdoptionSortRate), "Adoption row order: rate or name")
	adoptionCmd.Flags().String("direction", "", "Sort direction: asc or desc (rate defaults to desc, name to asc)")
	if err := viper.BindPFlags(adoptionCmd.Flags()); err != nil {
		contract.LogFatal("Error binding adoption flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
