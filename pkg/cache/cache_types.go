package cache

import "time"

type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

// Checks if the entry is younger than the ttl.
func (e *cacheEntry[T]) isFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.storedAt) < ttl
}

type linkKey struct {
	productId string
	version   string
}

type Option func(c *ReleaseCache)

// Sets the clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *ReleaseCache) {
		c.now = now
	}
}
