package aleph

import (
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const (
	DefaultCacheMaxBytes = 64 << 20

	cacheNumCounters = 100_000
	cacheBufferItems = 64
)

// CacheConfig controls the retrieval cache. Content addresses never change
// meaning, so a zero TTL keeps entries until they are evicted for space.
type CacheConfig struct {
	Enabled  bool
	MaxBytes int64
	TTL      time.Duration
}

func newContentCache(cfg CacheConfig) (*ristretto.Cache[string, []byte], error) {
	maxCost := cfg.MaxBytes
	if maxCost <= 0 {
		maxCost = DefaultCacheMaxBytes
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cacheNumCounters,
		MaxCost:     maxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, errors.Errorf("create content cache: %w", err)
	}
	return c, nil
}

func (a *Adapter) storeCached(address string, body []byte) {
	cost := int64(len(body))
	if cost == 0 {
		cost = 1
	}
	a.cache.SetWithTTL(address, clone(body), cost, a.cacheTTL)
	a.cache.Wait()
}
