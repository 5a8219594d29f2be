package areacodes

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/paulstuart/go-areacodes/internal/metrics"
)

// CacheKey is the exact lookup input; floats are compared without rounding
type CacheKey struct {
	Lat       float64
	Lon       float64
	ReturnAll bool
}

// Cache is a bounded, least recently used mapping of lookups to results.
// It is safe for concurrent use.
type Cache struct {
	lru *lru.Cache[CacheKey, Result]
}

// NewCache returns a cache holding up to size entries.
// A size <= 0 uses DefaultCacheSize.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.NewWithEvict(size, func(CacheKey, Result) {
		metrics.CacheEvictionsTotal.Inc()
	})
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Cache{lru: c}
}

// Get returns the cached result and marks it most recently used
func (c *Cache) Get(key CacheKey) (Result, bool) {
	return c.lru.Get(key)
}

// Put stores a result, evicting the least recently used entry when full
func (c *Cache) Put(key CacheKey, r Result) {
	c.lru.Add(key, r)
}

// Contains reports whether key is cached without touching its recency
func (c *Cache) Contains(key CacheKey) bool {
	return c.lru.Contains(key)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
