package algo

import "github.com/huangsam/scorecards/schema"

// IsStale reports whether a service was scored against a check set other than the current one.
// A service with no recorded hash is always stale.
func IsStale(s schema.Service, currentHash string) bool {
	if s.ChecksHash == "" {
		return true
	}
	return s.ChecksHash != currentHash
}

// StalenessSummary counts the stale services, along with installed ones and the stale installed subset.
func StalenessSummary(services []schema.Service, currentHash string) schema.StalenessStats {
	st := schema.StalenessStats{Total: len(services)}
	for _, s := range services {
		stale := IsStale(s, currentHash)
		if stale {
			st.Stale++
		}
		if s.Installed {
			st.Installed++
			if stale {
				st.StaleAndInstalled++
			}
		}
	}
	return st
}
