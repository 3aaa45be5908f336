package collector

import (
	"time"

	"github.com/tonhe/vigil/internal/metric"
)

type cacheEntry struct {
	m      metric.Metric
	err    error
	lastAt time.Time
}

// QueryCache holds the last result and run time of each custom query,
// keyed by label. Failures are cached too, so a broken query is not
// re-executed faster than its own cadence. Owned exclusively by one
// PostgresCollector, so no locking is needed.
type QueryCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// GetOrRefresh returns the cached result for label if it is younger than
// ttl, otherwise invokes refresh and caches whatever comes back, success
// or failure.
func (c *QueryCache) GetOrRefresh(label string, ttl time.Duration, refresh func() (metric.Metric, error)) (metric.Metric, error) {
	if e, ok := c.entries[label]; ok && c.now().Sub(e.lastAt) < ttl {
		return e.m, e.err
	}
	m, err := refresh()
	c.entries[label] = cacheEntry{m: m, err: err, lastAt: c.now()}
	return m, err
}
