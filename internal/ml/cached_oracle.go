// Package ml provides a cached oracle implementation.
package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/logger"
)

// CachedOracle wraps an Oracle with probability caching
type CachedOracle struct {
	next      Oracle
	cache     *ProbabilityCache
	modelName string
	logger    *logger.MLLogger
}

// NewCachedOracle wraps next with a TTL cache sized from the configuration.
func NewCachedOracle(next Oracle, cfg *config.MLOracleConfig, log *logrus.Logger) *CachedOracle {
	modelName := cfg.ModelName
	if modelName == "" {
		modelName = DefaultModelName
	}
	return &CachedOracle{
		next: next,
		cache: NewProbabilityCache(
			time.Duration(cfg.CacheTTLSeconds)*time.Second,
			cfg.CacheMaxSize,
		),
		modelName: modelName,
		logger:    logger.NewMLLogger(log),
	}
}

// EstimatePlaceProbability returns a cached probability or asks the wrapped oracle.
// Failures are never cached, and requests without a race ID always go to the
// wrapped oracle.
func (c *CachedOracle) EstimatePlaceProbability(ctx context.Context, req PlaceRequest) (float64, error) {
	if req.RaceID == "" {
		return c.next.EstimatePlaceProbability(ctx, req)
	}
	key := NewCacheKey(req, c.modelName)

	if p, ok := c.cache.Get(key); ok {
		OracleRequestsTotal.WithLabelValues("cache_hit").Inc()
		c.logger.LogOracleRequest(req.RaceID, req.HorseNumber(), p, true, 0)
		return p, nil
	}

	p, err := c.next.EstimatePlaceProbability(ctx, req)
	if err != nil {
		return 0, err
	}
	c.cache.Set(key, p)
	return p, nil
}

// InvalidateRace drops cached probabilities for a race, e.g. after a scratching.
func (c *CachedOracle) InvalidateRace(raceID string) {
	c.cache.InvalidateRace(raceID)
}

// ClearCache clears all cached probabilities
func (c *CachedOracle) ClearCache() {
	c.cache.Clear()
}

// GetCacheStats returns cache statistics
func (c *CachedOracle) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}

// HealthCheck probes the wrapped oracle when it supports probing.
func (c *CachedOracle) HealthCheck(ctx context.Context) error {
	if p, ok := c.next.(Prober); ok {
		return p.HealthCheck(ctx)
	}
	return nil
}

// BaseURL returns the wrapped oracle's address, if it has one.
func (c *CachedOracle) BaseURL() string {
	if p, ok := c.next.(Prober); ok {
		return p.BaseURL()
	}
	return ""
}
