package service

import (
	"sync"
	"time"

	"stridecoach/internal/analysis"
)

type trendKey struct {
	athleteID     int64
	activityCount int
}

type trendEntry struct {
	history  []analysis.HistoryPoint
	storedAt time.Time
}

// trendCache is a small TTL cache for prediction-history results, which
// cost 12 full prediction passes to rebuild.
type trendCache struct {
	mu      sync.Mutex
	entries map[trendKey]trendEntry
	maxSize int
	ttl     time.Duration
}

func newTrendCache(maxSize int, ttl time.Duration) *trendCache {
	return &trendCache{
		entries: make(map[trendKey]trendEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *trendCache) get(key trendKey, now time.Time) ([]analysis.HistoryPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.history, true
}

func (c *trendCache) put(key trendKey, history []analysis.HistoryPoint, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = trendEntry{history: history, storedAt: now}
}

// evictOldest drops the stalest entry. Called with the lock held.
func (c *trendCache) evictOldest() {
	var oldestKey trendKey
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.storedAt.Before(oldest) {
			oldestKey = k
			oldest = e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
