package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/schema"
)

// currentCacheVersion defines the version of the cached catalog schema
const currentCacheVersion = 1

// sortPrefKey holds the last explicitly chosen service sort.
const sortPrefKey = "pref:sort"

// cachedCatalog is the value stored under a catalog key.
type cachedCatalog struct {
	Fingerprint string         `json:"fingerprint"`
	Catalog     schema.Catalog `json:"catalog"`
}

// catalogCacheKey is the cache key for a catalog directory.
func catalogCacheKey(path string) string {
	return "catalog:" + path
}

// LoadCatalog loads the catalog at path, reusing the cached snapshot while the catalog files are unchanged.
func LoadCatalog(ctx context.Context, path string, mgr contract.CacheManager, source contract.CatalogSource) (*schema.Catalog, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetCatalogStore()
	}
	if store == nil {
		// Fallback to direct loading
		return source.Load(ctx, path)
	}

	fingerprint, err := source.Fingerprint(path)
	if err != nil {
		return source.Load(ctx, path)
	}

	key := catalogCacheKey(path)
	if catalog := checkCacheHit(store, key, fingerprint); catalog != nil {
		return catalog, nil
	}

	// Cache miss: load and store
	return loadAndStore(ctx, path, source, store, key, fingerprint)
}

// checkCacheHit attempts to retrieve and validate a cached catalog
func checkCacheHit(store contract.CacheStore, key, fingerprint string) *schema.Catalog {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil
	}
	var entry cachedCatalog
	if err := json.Unmarshal(data, &entry); err != nil || entry.Fingerprint != fingerprint {
		return nil
	}
	return &entry.Catalog
}

// loadAndStore loads the catalog and stores it in cache
func loadAndStore(ctx context.Context, path string, source contract.CatalogSource, store contract.CacheStore, key, fingerprint string) (*schema.Catalog, error) {
	catalog, err := source.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(cachedCatalog{Fingerprint: fingerprint, Catalog: *catalog}); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("failed to cache catalog", err)
		}
	}
	return catalog, nil
}

// resolveSort returns the sort to use. An explicit choice is persisted; otherwise the
// persisted choice wins over the default.
func resolveSort(cfg *contract.Config, mgr contract.CacheManager) schema.SortKey {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetCatalogStore()
	}
	if store == nil {
		return cfg.Sort
	}

	if cfg.SortExplicit {
		if err := store.Set(sortPrefKey, []byte(cfg.Sort), currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("failed to save sort preference", err)
		}
		return cfg.Sort
	}

	data, _, _, err := store.Get(sortPrefKey)
	if err != nil {
		return cfg.Sort
	}
	key, err := schema.ParseSortKey(string(data))
	if err != nil {
		return cfg.Sort
	}
	return key
}
