package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// NoExpiration keeps an item until it is deleted or flushed.
const NoExpiration = cache.NoExpiration

type Cache interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	Flush()
	ItemCount() int
}

type goCache struct {
	internal *cache.Cache
}

// NewCache returns an in-memory cache. A zero duration passed to Set uses defaultExpiration.
func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCache{
		internal: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *goCache) Set(key string, value interface{}, duration time.Duration) {
	if duration == 0 {
		duration = cache.DefaultExpiration
	}
	c.internal.Set(key, value, duration)
}

func (c *goCache) Get(key string) (interface{}, bool) {
	return c.internal.Get(key)
}

func (c *goCache) Delete(key string) {
	c.internal.Delete(key)
}

func (c *goCache) Flush() {
	c.internal.Flush()
}

func (c *goCache) ItemCount() int {
	return c.internal.ItemCount()
}

// GetAs reads key and asserts its type; a type mismatch counts as a miss.
func GetAs[T any](c Cache, key string) (T, bool) {
	var zero T
	val, found := c.Get(key)
	if !found {
		return zero, false
	}
	typedVal, ok := val.(T)
	if !ok {
		return zero, false
	}
	return typedVal, true
}
