package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// HistoryRun is one recorded catalog snapshot.
type HistoryRun struct {
	RunID         string
	RecordedAt    time.Time
	CatalogPath   string
	ChecksHash    string
	TotalServices int
	AverageScore  float64
	Platinum      int
	Gold          int
	Silver        int
	Bronze        int
	Stale         int
	Installed     int
}

// HistoryAdoption is one check's overall adoption at the time of a run.
type HistoryAdoption struct {
	RunID        string
	CheckID      string
	Passing      int
	Failing      int
	Excluded     int
	AdoptionRate float64
}
