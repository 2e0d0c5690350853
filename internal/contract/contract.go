// Package contract provides interfaces and shared utilities for the scorecards CLI's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/scorecards/schema"
)

// CatalogSource loads a catalog from a directory.
// This allows the executors to be tested without a catalog on disk.
type CatalogSource interface {
	// Load parses and normalizes the catalog at path.
	Load(ctx context.Context, path string) (*schema.Catalog, error)

	// Fingerprint returns a value that changes whenever the catalog files change.
	Fingerprint(path string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCatalogStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for key/value cache storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording catalog snapshots over time.
type HistoryStore interface {
	// RecordRun stores one snapshot and its per-check adoption rows.
	RecordRun(run schema.HistoryRun, adoption []schema.HistoryAdoption) error

	// GetAllRuns returns every snapshot, oldest first.
	GetAllRuns() ([]schema.HistoryRun, error)

	// GetAllAdoption returns every per-check adoption row.
	GetAllAdoption() ([]schema.HistoryAdoption, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
