// Package iocache persists catalog snapshots, preferences and stats history.
package iocache

import (
	"sync"

	"github.com/huangsam/scorecards/internal/contract"
)

// CacheStoreManager manages multiple store instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	catalog      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCatalogStore returns the catalog CacheStore.
func (mgr *CacheStoreManager) GetCatalogStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.catalog
}

// GetHistoryStore returns the HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
