// Package cache provides the bounded TTL memo cache for ranked proposal lists.
// Entries are keyed by topic plus subject fingerprint, so any change in a
// topic's active subject set forces recomputation without explicit
// invalidation. The cache is in-process and dies with the session.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lamachat/recall/internal/domain/proposal"
)

// Defaults for capacity and entry TTL.
const (
	DefaultCapacity = 50
	DefaultTTL      = 60 * time.Second
)

type entry struct {
	proposals  []proposal.Proposal
	insertedAt time.Time
}

// Cache is a mutex-guarded bounded map with TTL expiry and FIFO eviction.
// Concurrent writers for the same key are last-write-wins; duplicate
// computation upstream is acceptable because inputs are immutable.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	capacity   int
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
}

// New creates a cache. cacheTotal is a counter vec with label "result"
// ("hit"/"miss"), passed explicitly; nil disables metrics.
func New(capacity int, ttl time.Duration, cacheTotal *prometheus.CounterVec) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry, capacity),
		capacity:   capacity,
		ttl:        ttl,
		cacheTotal: cacheTotal,
	}
}

// Key builds a cache key from the topic and the subject fingerprint.
func Key(topicID, fingerprint string) string {
	return topicID + "|" + fingerprint
}

// Get returns the cached unfiltered proposals for key. An expired entry is
// evicted and reported as a miss.
func (c *Cache) Get(key string, now time.Time) ([]proposal.Proposal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.inc("miss")
		return nil, false
	}
	if now.Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		c.inc("miss")
		return nil, false
	}
	c.inc("hit")
	return e.proposals, true
}

// Put stores the unfiltered ranked list. At capacity the oldest-inserted entry
// is evicted first.
func (c *Cache) Put(key string, proposals []proposal.Proposal, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{proposals: proposals, insertedAt: now}
}

// LatestForTopic returns the most recently inserted unexpired entry whose key
// belongs to topicID, regardless of fingerprint.
func (c *Cache) LatestForTopic(topicID string, now time.Time) ([]proposal.Proposal, bool) {
	prefix := topicID + "|"

	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		found  bool
		latest entry
	)
	for k, e := range c.entries {
		if len(k) < len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		if now.Sub(e.insertedAt) >= c.ttl {
			continue
		}
		if !found || e.insertedAt.After(latest.insertedAt) {
			found = true
			latest = e
		}
	}
	if !found {
		return nil, false
	}
	return latest.proposals, true
}

// Clear wipes every entry. Invoked after a successful config update, since
// cached scores were computed under the old weights.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry, c.capacity)
}

// Len returns the number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		first     = true
	)
	for k, e := range c.entries {
		if first || e.insertedAt.Before(oldest) {
			first = false
			oldestKey = k
			oldest = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
