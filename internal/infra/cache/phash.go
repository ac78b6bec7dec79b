package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/juju/loggo/v2"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/familyone/internal/usecase"
)

var logger = loggo.GetLogger("familyone.cache")

var _ usecase.HashCache = (*PerceptualHashCache)(nil)

const keyPrefix = "phash:"

// PerceptualHashCache keeps perceptual hashes in process and, when configured, in memcached.
type PerceptualHashCache struct {
	local *cache.Cache
	mc    *memcache.Client
	ttl   time.Duration
}

// NewPerceptualHashCache creates the cache. mc may be nil.
func NewPerceptualHashCache(mc *memcache.Client) *PerceptualHashCache {
	return &PerceptualHashCache{
		local: cache.New(10*time.Minute, 15*time.Minute),
		mc:    mc,
		ttl:   24 * time.Hour,
	}
}

func cacheKey(payload []byte) string {
	return fmt.Sprintf("%s%x", keyPrefix, xxh3.Hash128(payload).Bytes())
}

func (c *PerceptualHashCache) Get(ctx context.Context, payload []byte) (string, bool) {
	key := cacheKey(payload)
	if x, found := c.local.Get(key); found {
		return x.(string), true
	}
	if c.mc == nil {
		return "", false
	}

	item, err := c.mc.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			logger.Debugf("memcached get %s: %v", key, err)
		}
		return "", false
	}
	hash := string(item.Value)
	c.local.Set(key, hash, cache.DefaultExpiration)
	return hash, true
}

func (c *PerceptualHashCache) Set(ctx context.Context, payload []byte, hash string) {
	key := cacheKey(payload)
	c.local.Set(key, hash, cache.DefaultExpiration)
	if c.mc == nil {
		return
	}
	err := c.mc.Set(&memcache.Item{
		Key:        key,
		Value:      []byte(hash),
		Expiration: int32(c.ttl.Seconds()),
	})
	if err != nil {
		logger.Debugf("memcached set %s: %v", key, err)
	}
}
