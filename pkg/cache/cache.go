package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/roemer/relwatch/pkg/common"
	"golang.org/x/sync/singleflight"
)

// Resolves the release for a cache key.
type ResolverFunc func() (*common.ResolvedRelease, error)

// In-memory cache for resolved releases and release links.
// Stale entries are kept until a successful resolution overwrites them.
type ReleaseCache struct {
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
	releases map[string]*cacheEntry[*common.ResolvedRelease]
	links    map[linkKey]*cacheEntry[string]
	inflight singleflight.Group
}

func NewReleaseCache(ttl time.Duration, options ...Option) *ReleaseCache {
	c := &ReleaseCache{
		ttl:      ttl,
		now:      time.Now,
		releases: map[string]*cacheEntry[*common.ResolvedRelease]{},
		links:    map[linkKey]*cacheEntry[string]{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Gets the release for the key if it is still fresh.
func (c *ReleaseCache) Get(key string) (*common.ResolvedRelease, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.releases[key]
	if !ok || !entry.isFresh(c.now(), c.ttl) {
		return nil, false
	}
	return entry.value, true
}

// Gets the release for the key regardless of its age.
func (c *ReleaseCache) Peek(key string) (*common.ResolvedRelease, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.releases[key]
	if !ok {
		return nil, false
	}
	return entry.value, true
}

// Runs the resolver and stores its result. Concurrent calls for the same key share one execution.
// On failure the existing entry is kept and returned together with the error.
func (c *ReleaseCache) ResolveAndStore(key string, resolver ResolverFunc) (*common.ResolvedRelease, error) {
	value, err, _ := c.inflight.Do(key, func() (any, error) {
		release, err := resolver()
		if err != nil {
			return nil, err
		}
		if release == nil {
			return nil, common.ErrNoCandidates
		}
		stored := *release
		c.mu.Lock()
		defer c.mu.Unlock()
		stored.ResolvedAt = c.now()
		c.releases[key] = &cacheEntry[*common.ResolvedRelease]{value: &stored, storedAt: stored.ResolvedAt}
		return &stored, nil
	})
	if err != nil {
		previous, _ := c.Peek(key)
		return previous, fmt.Errorf("failed resolving '%s': %w", key, err)
	}
	return value.(*common.ResolvedRelease), nil
}

// Stores the link for a product version.
func (c *ReleaseCache) SetLink(productId string, version string, link string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[linkKey{productId: productId, version: version}] = &cacheEntry[string]{value: link, storedAt: c.now()}
}

// Gets the link for a product version if it is still fresh.
func (c *ReleaseCache) GetLink(productId string, version string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.links[linkKey{productId: productId, version: version}]
	if !ok || !entry.isFresh(c.now(), c.ttl) {
		return "", false
	}
	return entry.value, true
}

// Gets the number of stored releases, including stale ones.
func (c *ReleaseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.releases)
}
