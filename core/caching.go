package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheMaxAge is how long a stored report is trusted.
const cacheMaxAge = 7 * 24 * time.Hour

// checkCacheHit attempts to retrieve and validate a cached report
func checkCacheHit(store contract.CacheStore, key string) *schema.ParticipantReport {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var result schema.ParticipantReport
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// storeReport writes a computed report to the cache. Failures only cost a
// recomputation later, so they are ignored.
func storeReport(store contract.CacheStore, key string, report *schema.ParticipantReport) {
	if data, err := json.Marshal(report); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// generateCacheKey creates a unique key from the memo key and the data
// fingerprint, so edits to the rating source invalidate old entries.
func generateCacheKey(key MemoKey, fingerprint string) string {
	raw := fmt.Sprintf("%d:%d:%d:%s:%s:%s:%s:%s",
		key.ParticipantID,
		key.TemplateID,
		key.Tolerance,
		key.StandardKey,
		key.Percentage,
		key.Unit,
		key.Weights,
		fingerprint,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}
