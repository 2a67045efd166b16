// Package ml provides caching for place probabilities.
package ml

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CacheKey identifies one cached place probability. Features is a fingerprint
// of the payload sent to the ML service, so a corrected race card misses.
type CacheKey struct {
	RaceID      string
	HorseNumber int
	ModelName   string
	Features    string
}

// NewCacheKey builds the key for a request against the named model.
func NewCacheKey(req PlaceRequest, modelName string) CacheKey {
	return CacheKey{
		RaceID:      req.RaceID,
		HorseNumber: req.HorseNumber(),
		ModelName:   modelName,
		Features:    fingerprint(NewFeaturePayload(req.Features)),
	}
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%s:%s", k.RaceID, k.HorseNumber, k.ModelName, k.Features)
}

func fingerprint(p FeaturePayload) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%+v", p)
	return fmt.Sprintf("%016x", h.Sum64())
}

// ProbabilityCache keeps recent place probabilities in memory.
type ProbabilityCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewProbabilityCache creates a new probability cache
func NewProbabilityCache(ttl time.Duration, maxSize int) *ProbabilityCache {
	return &ProbabilityCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached probability
func (pc *ProbabilityCache) Get(key CacheKey) (float64, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if v, found := pc.cache.Get(key.String()); found {
		if p, ok := v.(float64); ok {
			pc.hitCount++
			pc.updateMetrics()
			return p, true
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return 0, false
}

// Set stores a probability in cache
func (pc *ProbabilityCache) Set(key CacheKey, probability float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}

	pc.cache.Set(key.String(), probability, pc.ttl)
}

// InvalidateRace removes every cached probability for a race.
func (pc *ProbabilityCache) InvalidateRace(raceID string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	prefix := raceID + ":"
	for k := range pc.cache.Items() {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			pc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (pc *ProbabilityCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns cache statistics
func (pc *ProbabilityCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.stats()
}

func (pc *ProbabilityCache) stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount
	misses = pc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (pc *ProbabilityCache) updateMetrics() {
	_, _, ratio := pc.stats()
	OracleCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *ProbabilityCache) ItemCount() int {
	return pc.cache.ItemCount()
}
