package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/scorecards/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for the catalog commands.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath string
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Filters      schema.FilterState
	Sort         schema.SortKey
	SortExplicit bool // Sort came from a flag, env or config file rather than the default
	TeamSort     schema.TeamSortKey

	AdoptionCheck      string
	AdoptionSort       schema.AdoptionSortKey
	AdoptionDescending bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	CatalogPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Filter and sort fields from rootCmd.PersistentFlags() ---
	Search      string `mapstructure:"search"`
	Team        string `mapstructure:"team"`
	NoTeam      bool   `mapstructure:"no-team"`
	Rank        string `mapstructure:"rank"`
	ExcludeRank string `mapstructure:"exclude-rank"`
	Stale       string `mapstructure:"stale"`
	API         string `mapstructure:"api"`
	Installed   string `mapstructure:"installed"`
	Check       string `mapstructure:"check"`
	Sort        string `mapstructure:"sort"`
	TeamSort    string `mapstructure:"team-sort"`

	// SortExplicit is set by the caller when the sort value did not come from defaults.
	SortExplicit bool

	// --- Fields from adoptionCmd.Flags() ---
	CheckID      string `mapstructure:"check-id"`
	AdoptionSort string `mapstructure:"adoption-sort"`
	Direction    string `mapstructure:"direction"`
}

// ProcessAndValidate performs all complex parsing and validation on the raw input.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := processSorting(cfg, input); err != nil {
		return err
	}
	if err := processAdoption(cfg, input); err != nil {
		return err
	}
	return resolveCatalogPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the connection string format for database backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if filepath.Clean(cacheDBPath) == filepath.Clean(historyDBPath) {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs handles fields that need only basic validation.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using parquet output")
	}

	return validateBackendConfigs(cfg, input)
}

// processFilters builds the FilterState from the filter flags.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	f := schema.FilterState{}.WithSearch(strings.TrimSpace(input.Search))

	teams := SplitList(input.Team)
	f = f.WithTeams(teams...)
	if input.NoTeam {
		f = f.ToggleTeam(schema.NoTeam)
	}

	for _, name := range SplitList(input.Rank) {
		r, err := schema.ParseRank(name)
		if err != nil {
			return fmt.Errorf("invalid --rank value: %w", err)
		}
		f = f.WithRankMode(r, schema.FilterInclude)
	}
	// Applied after includes so an exclude wins when both name the same rank.
	for _, name := range SplitList(input.ExcludeRank) {
		r, err := schema.ParseRank(name)
		if err != nil {
			return fmt.Errorf("invalid --exclude-rank value: %w", err)
		}
		f = f.WithRankMode(r, schema.FilterExclude)
	}

	modes := []struct {
		flag  string
		value string
		apply func(schema.FilterState, schema.FilterMode) schema.FilterState
	}{
		{"stale", input.Stale, schema.FilterState.WithStale},
		{"api", input.API, schema.FilterState.WithAPI},
		{"installed", input.Installed, schema.FilterState.WithInstalled},
	}
	for _, m := range modes {
		mode, err := schema.ParseFilterMode(m.value)
		if err != nil {
			return fmt.Errorf("invalid --%s value: %w", m.flag, err)
		}
		f = m.apply(f, mode)
	}

	for _, entry := range SplitList(input.Check) {
		id, status, err := schema.ParseCheckFilter(entry)
		if err != nil {
			return fmt.Errorf("invalid --check value: %w", err)
		}
		f = f.WithCheck(id, status)
	}

	cfg.Filters = f
	return nil
}

// processSorting validates the service and team sort keys.
func processSorting(cfg *Config, input *ConfigRawInput) error {
	sortKey, err := schema.ParseSortKey(input.Sort)
	if err != nil {
		return err
	}
	cfg.Sort = sortKey
	cfg.SortExplicit = input.SortExplicit

	teamSort, err := schema.ParseTeamSortKey(input.TeamSort)
	if err != nil {
		return err
	}
	cfg.TeamSort = teamSort
	return nil
}

// processAdoption validates the adoption command inputs.
func processAdoption(cfg *Config, input *ConfigRawInput) error {
	cfg.AdoptionCheck = strings.TrimSpace(input.CheckID)

	cfg.AdoptionSort = schema.AdoptionSortKey(strings.ToLower(strings.TrimSpace(input.AdoptionSort)))
	if cfg.AdoptionSort == "" {
		cfg.AdoptionSort = schema.AdoptionSortRate
	}
	if _, ok := schema.ValidAdoptionSortKeys[cfg.AdoptionSort]; !ok {
		return fmt.Errorf("invalid adoption sort '%s'. must be rate or name", input.AdoptionSort)
	}

	switch strings.ToLower(strings.TrimSpace(input.Direction)) {
	case "":
		// Rates read best first, names read alphabetically.
		cfg.AdoptionDescending = cfg.AdoptionSort == schema.AdoptionSortRate
	case "desc":
		cfg.AdoptionDescending = true
	case "asc":
		cfg.AdoptionDescending = false
	default:
		return fmt.Errorf("invalid direction '%s'. must be asc or desc", input.Direction)
	}
	return nil
}

// resolveCatalogPath makes the catalog path absolute and checks that it is a directory.
func resolveCatalogPath(cfg *Config, input *ConfigRawInput) error {
	path := input.CatalogPathStr
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve catalog path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("catalog path %q is not accessible: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog path %q is not a directory", abs)
	}
	cfg.CatalogPath = abs
	return nil
}
