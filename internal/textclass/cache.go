package textclass

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/spice-insight/internal/model"
)

// cacheEntry represents a cached prediction.
type cacheEntry struct {
	expiry     time.Time
	prediction model.Prediction
}

// maxCacheEntries bounds the cache between cleanup sweeps.
const maxCacheEntries = 10000

// predictionCache is a TTL cache keyed by model version and document, so a
// retrain naturally stops old entries from being hit.
type predictionCache struct {
	entries    map[string]cacheEntry
	stopCh     chan struct{}
	ttl        time.Duration
	maxEntries int
	mu         sync.RWMutex
	once       sync.Once
}

func newPredictionCache(ttl time.Duration) *predictionCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &predictionCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxCacheEntries,
		stopCh:     make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// cacheKey hashes the document so key size does not grow with the request.
func cacheKey(version, doc string) string {
	hash := sha256.Sum256([]byte(doc))
	return fmt.Sprintf("%s:%x", version, hash)
}

func (c *predictionCache) get(key string) (model.Prediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return model.Prediction{}, false
	}

	return entry.prediction, true
}

func (c *predictionCache) set(key string, prediction model.Prediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(time.Now())
	}

	c.entries[key] = cacheEntry{
		prediction: prediction,
		expiry:     time.Now().Add(c.ttl),
	}
}

// purge drops every entry that was not produced by version.
func (c *predictionCache) purge(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.prediction.ModelVersion != version {
			delete(c.entries, key)
		}
	}
}

// evictLocked drops expired entries, then the oldest one if the cache is
// still full. Callers hold mu.
func (c *predictionCache) evictLocked(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if now.After(entry.expiry) {
			delete(c.entries, key)
			continue
		}
		if oldestKey == "" || entry.expiry.Before(oldest) {
			oldestKey, oldest = key, entry.expiry
		}
	}
	if len(c.entries) >= c.maxEntries {
		delete(c.entries, oldestKey)
	}
}

func (c *predictionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *predictionCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *predictionCache) close() {
	c.once.Do(func() { close(c.stopCh) })
}
