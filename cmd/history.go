package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/internal/iocache"
	"github.com/huangsam/scorecards/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig resolves and validates the history backend from viper.
// An empty backend is treated as NoneBackend.
func historyConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no catalog cache for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend {
		connStr = sqliteFile(connStr, contract.GetHistoryDBFilePath())
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyCmd focused on stats history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by catalog commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded catalog stats snapshots and exports",
	Long: `Manage the snapshots recorded by 'scorecards stats' when a history backend is set.

Each snapshot stores:
- Run metadata (id, timestamp, catalog path, checks hash)
- Catalog totals (services, average score, ranks, staleness, installs)
- Per-check adoption rates at that point in time

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history statistics
  export  - Export snapshots to Parquet for analytics
  clear   - Remove all snapshots
  migrate - Run database schema migrations

Examples:
  # Check history status
  scorecards history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  scorecards history export --history-backend sqlite --output-file history`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded stats snapshots",
	Long: `Delete all stored snapshot runs and per-check adoption rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  scorecards history export --history-backend sqlite --output-file backup
  scorecards history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearHistory(cfg.HistoryBackend, sqliteFile(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath()), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about recorded stats snapshots.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last run id and the last and oldest run timestamps
- Table row counts

Examples:
  # Check history status
  scorecards history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stats snapshots to Parquet for BI tools and analytics",
	Long: `Export all recorded snapshots to Parquet format.

Writes two files next to --output-file:
- <output-file>.runs.parquet - one row per stats run
- <output-file>.adoption.parquet - one row per check per run

Requires: --output-file parameter

Examples:
  # Export all data
  scorecards history export --history-backend sqlite --output-file history

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  scorecards history migrate --history-backend sqlite

  # Migrate to specific version
  scorecards history migrate --history-backend sqlite --target-version 1

  # Rollback to initial state
  scorecards history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		iocache.PrintMigrationResult(result)
	},
}
