package ml

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForecast() *ResultForecast {
	return &ResultForecast{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2, Trained: true, ModelVersion: "v3"}
}

func TestCacheKeyString(t *testing.T) {
	key := CacheKey{
		MatchID:      uuid.MustParse("12345678-1234-5678-1234-567812345678"),
		ModelVersion: "1.0",
	}
	assert.Equal(t, "12345678-1234-5678-1234-567812345678:1.0", key.String())
}

func TestPredictionCacheGetSet(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 100)
	key := CacheKey{MatchID: uuid.New(), ModelVersion: "v3"}

	_, ok := cache.Get(key)
	assert.False(t, ok)

	require.True(t, cache.Set(key, sampleForecast()))
	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, 0.5, got.HomeWin)

	other := CacheKey{MatchID: key.MatchID, ModelVersion: "v4"}
	_, ok = cache.Get(other)
	assert.False(t, ok, "a new model version must miss")
}

func TestPredictionCacheExpiration(t *testing.T) {
	cache := NewPredictionCache(50*time.Millisecond, 100)
	key := CacheKey{MatchID: uuid.New()}
	cache.Set(key, sampleForecast())

	time.Sleep(100 * time.Millisecond)
	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestPredictionCacheMaxSize(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 2)
	assert.True(t, cache.Set(CacheKey{MatchID: uuid.New()}, sampleForecast()))
	assert.True(t, cache.Set(CacheKey{MatchID: uuid.New()}, sampleForecast()))
	assert.False(t, cache.Set(CacheKey{MatchID: uuid.New()}, sampleForecast()))
	assert.Equal(t, 2, cache.ItemCount())
}

func TestPredictionCacheStats(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 100)
	key := CacheKey{MatchID: uuid.New()}
	cache.Set(key, sampleForecast())

	cache.Get(key)
	cache.Get(key)
	cache.Get(CacheKey{MatchID: uuid.New()})

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 2.0/3.0, ratio, 1e-9)

	cache.Clear()
	hits, misses, ratio = cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, ratio)
	assert.Zero(t, cache.ItemCount())
}

func TestPredictionCacheConcurrentAccess(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 1000)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := CacheKey{MatchID: uuid.New()}
			for j := 0; j < 50; j++ {
				cache.Set(key, sampleForecast())
				cache.Get(key)
			}
		}()
	}
	wg.Wait()

	hits, _, _ := cache.Stats()
	assert.Equal(t, uint64(1000), hits)
}
