package schema

// Custom string types for type safety.
type (
	// Rank is the maturity tier of a service.
	Rank string

	// CheckStatus is the outcome of a single check for a service.
	CheckStatus string

	// FilterMode is the tri-state mode of a boolean or rank filter.
	FilterMode string

	// SortKey orders the service list.
	SortKey string

	// TeamSortKey orders the team list.
	TeamSortKey string

	// AdoptionSortKey orders per-team adoption rows.
	AdoptionSortKey string

	// ViewMode selects which list the catalog view presents.
	ViewMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All ranks, best first.
const (
	RankPlatinum Rank = "platinum"
	RankGold     Rank = "gold"
	RankSilver   Rank = "silver"
	RankBronze   Rank = "bronze"
)

// Score thresholds for each rank. Anything below the bronze threshold is still bronze.
const (
	PlatinumThreshold = 90
	GoldThreshold     = 75
	SilverThreshold   = 50
)

// All check statuses after ingestion.
const (
	StatusPass     CheckStatus = "pass"
	StatusFail     CheckStatus = "fail"
	StatusExcluded CheckStatus = "excluded"
)

// All filter modes. FilterOff is the zero value.
const (
	FilterOff     FilterMode = ""
	FilterInclude FilterMode = "include"
	FilterExclude FilterMode = "exclude"
)

// All service sort keys.
const (
	SortScoreDesc SortKey = "score-desc" // default
	SortScoreAsc  SortKey = "score-asc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortRecent    SortKey = "recent"
	SortOldest    SortKey = "updated-asc"
)

// All team sort keys.
const (
	TeamSortServicesDesc TeamSortKey = "services-desc"
	TeamSortServicesAsc  TeamSortKey = "services-asc"
	TeamSortScoreDesc    TeamSortKey = "score-desc" // default
	TeamSortScoreAsc     TeamSortKey = "score-asc"
	TeamSortNameAsc      TeamSortKey = "name-asc"
	TeamSortNameDesc     TeamSortKey = "name-desc"
)

// All adoption sort keys.
const (
	AdoptionSortRate AdoptionSortKey = "rate" // default
	AdoptionSortName AdoptionSortKey = "name"
)

// All view modes.
const (
	ServicesView ViewMode = "services" // default
	TeamsView    ViewMode = "teams"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllRanks lists every rank from best to worst.
var AllRanks = []Rank{RankPlatinum, RankGold, RankSilver, RankBronze}

// AllSortKeys lists every service sort key in display order.
var AllSortKeys = []SortKey{SortScoreDesc, SortScoreAsc, SortNameAsc, SortNameDesc, SortRecent, SortOldest}

// AllTeamSortKeys lists every team sort key in display order.
var AllTeamSortKeys = []TeamSortKey{
	TeamSortScoreDesc, TeamSortScoreAsc,
	TeamSortServicesDesc, TeamSortServicesAsc,
	TeamSortNameAsc, TeamSortNameDesc,
}

// ValidRanks lists all valid ranks.
var ValidRanks = map[Rank]struct{}{
	RankPlatinum: {},
	RankGold:     {},
	RankSilver:   {},
	RankBronze:   {},
}

// ValidCheckStatuses lists all valid check statuses.
var ValidCheckStatuses = map[CheckStatus]struct{}{
	StatusPass:     {},
	StatusFail:     {},
	StatusExcluded: {},
}

// ValidFilterModes lists all valid non-off filter modes.
var ValidFilterModes = map[FilterMode]struct{}{
	FilterInclude: {},
	FilterExclude: {},
}

// ValidSortKeys lists all valid service sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	SortScoreDesc: {},
	SortScoreAsc:  {},
	SortNameAsc:   {},
	SortNameDesc:  {},
	SortRecent:    {},
	SortOldest:    {},
}

// SortKeyAliases maps alternative spellings onto canonical sort keys.
var SortKeyAliases = map[string]SortKey{
	"updated-desc": SortRecent,
	"oldest":       SortOldest,
}

// ValidTeamSortKeys lists all valid team sort keys.
var ValidTeamSortKeys = map[TeamSortKey]struct{}{
	TeamSortServicesDesc: {},
	TeamSortServicesAsc:  {},
	TeamSortScoreDesc:    {},
	TeamSortScoreAsc:     {},
	TeamSortNameAsc:      {},
	TeamSortNameDesc:     {},
}

// ValidAdoptionSortKeys lists all valid adoption sort keys.
var ValidAdoptionSortKeys = map[AdoptionSortKey]struct{}{
	AdoptionSortRate: {},
	AdoptionSortName: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
