package predictor

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/racing-predictor/internal/metrics"
	"github.com/yourusername/racing-predictor/internal/models"
)

const cacheTTL = 5 * time.Minute

// resultCache memoizes predictions per (setup, history generation). The
// history length is part of the key, so an append naturally invalidates all
// prior entries without explicit eviction.
type resultCache struct {
	cache *cache.Cache

	mu     sync.RWMutex
	hits   uint64
	misses uint64
}

func newResultCache() *resultCache {
	return &resultCache{
		cache: cache.New(cacheTTL, cacheTTL*2),
	}
}

func cacheKey(setup models.RaceSetup, historyLen int) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%d",
		setup.Position, setup.VisibleRoad,
		setup.Vehicles[0], setup.Vehicles[1], setup.Vehicles[2],
		historyLen,
	)
}

func (rc *resultCache) get(setup models.RaceSetup, historyLen int) (models.PredictionResult, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if value, found := rc.cache.Get(cacheKey(setup, historyLen)); found {
		if result, ok := value.(models.PredictionResult); ok {
			rc.hits++
			metrics.CacheHitsTotal.Inc()
			return result, true
		}
	}
	rc.misses++
	metrics.CacheMissesTotal.Inc()
	return models.PredictionResult{}, false
}

func (rc *resultCache) put(setup models.RaceSetup, historyLen int, result models.PredictionResult) {
	rc.cache.Set(cacheKey(setup, historyLen), result, cache.DefaultExpiration)
}

// Stats returns cumulative hit and miss counts
func (rc *resultCache) stats() (hits, misses uint64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.hits, rc.misses
}

// CacheStats exposes the predictor cache counters for metrics reporting
func (p *Predictor) CacheStats() (hits, misses uint64) {
	return p.cache.stats()
}
