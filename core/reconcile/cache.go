package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedMap is one identity map plus its build time.
type cachedMap struct {
	identities IdentityMap
	built      time.Time
	ttl        time.Duration
}

// isExpired returns true if this entry has expired based on its TTL.
func (c *cachedMap) isExpired() bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return time.Since(c.built) > c.ttl
}

// identityCacheStore holds identity maps keyed by source system.
type identityCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*cachedMap
	sf      singleflight.Group
}

// globalIdentityCache is the singleton store for all reconciliation requests.
var globalIdentityCache = &identityCacheStore{
	entries: make(map[string]*cachedMap),
}

// IdentityLoader builds the identity map from the registry.
type IdentityLoader func(ctx context.Context) (IdentityMap, error)

// LoadIdentityMap returns the identity map for a cache key, building it via
// load when missing or expired. Concurrent requests for the same key share a
// single build (singleflight), so the admin API cannot stampede the registry.
func LoadIdentityMap(ctx context.Context, key string, ttl time.Duration, load IdentityLoader) (IdentityMap, error) {
	// Fast path: fresh entry under read lock.
	globalIdentityCache.mu.RLock()
	entry, exists := globalIdentityCache.entries[key]
	globalIdentityCache.mu.RUnlock()

	if exists && !entry.isExpired() {
		return entry.identities, nil
	}

	result, err, _ := globalIdentityCache.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot.
		globalIdentityCache.mu.RLock()
		entry, exists := globalIdentityCache.entries[key]
		globalIdentityCache.mu.RUnlock()

		if exists && !entry.isExpired() {
			return entry.identities, nil
		}

		identities, err := load(ctx)
		if err != nil {
			return nil, err
		}

		globalIdentityCache.mu.Lock()
		globalIdentityCache.entries[key] = &cachedMap{
			identities: identities,
			built:      time.Now(),
			ttl:        ttl,
		}
		globalIdentityCache.mu.Unlock()

		return identities, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(IdentityMap), nil
}

// InvalidateIdentityMap drops the cached map for a key. Called after registry
// imports so the next reconciliation sees fresh data.
func InvalidateIdentityMap(key string) {
	globalIdentityCache.mu.Lock()
	delete(globalIdentityCache.entries, key)
	globalIdentityCache.mu.Unlock()
}
