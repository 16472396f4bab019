package pattern

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the shared pattern cache.
const DefaultCacheSize = 512

// Cache memoizes compiled patterns by their source text. Fixers and rule
// files that use the same pattern share one *Pattern. Errors are not cached.
// Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, *Pattern]
}

// NewCache returns a cache holding at most size patterns.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, *Pattern](size)
	if err != nil {
		// only returned for size <= 0
		panic(err)
	}
	return &Cache{lru: c}
}

// Compile returns the cached pattern for spec, compiling it on a miss.
func (c *Cache) Compile(spec string) (*Pattern, error) {
	if p, ok := c.lru.Get(spec); ok {
		return p, nil
	}
	p, err := Compile(spec)
	if err != nil {
		return nil, err
	}
	c.lru.Add(spec, p)
	return p, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int { return c.lru.Len() }

var shared = NewCache(DefaultCacheSize)

// Cached compiles spec through the process-wide cache.
func Cached(spec string) (*Pattern, error) {
	return shared.Compile(spec)
}
