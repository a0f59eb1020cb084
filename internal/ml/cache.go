package ml

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// CacheKey represents a unique key for caching predictions
type CacheKey struct {
	MatchID      uuid.UUID
	ModelVersion string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.MatchID, k.ModelVersion)
}

// PredictionCache provides in-memory caching for ML forecasts
type PredictionCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int
	// mu serializes writers so the size check and insert stay atomic.
	mu     sync.Mutex
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPredictionCache creates a new prediction cache. A non-positive maxSize
// leaves the cache unbounded.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached forecast
func (pc *PredictionCache) Get(key CacheKey) (*ResultForecast, bool) {
	if result, found := pc.cache.Get(key.String()); found {
		if forecast, ok := result.(*ResultForecast); ok {
			pc.hits.Add(1)
			pc.updateMetrics()
			return forecast, true
		}
	}

	pc.misses.Add(1)
	pc.updateMetrics()
	return nil, false
}

// Set stores a forecast. When the cache is full after dropping expired
// entries the forecast is not stored.
func (pc *PredictionCache) Set(key CacheKey, forecast *ResultForecast) bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return false
		}
	}

	pc.cache.Set(key.String(), forecast, pc.ttl)
	return true
}

// Clear flushes the entire cache and resets the counters. The source calls
// it when the model version changes.
func (pc *PredictionCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache.Flush()
	pc.hits.Store(0)
	pc.misses.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hits.Load()
	misses = pc.misses.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	MLCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
