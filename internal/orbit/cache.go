package orbit

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/litescript/ls-exoplanets/internal/catalog"
)

// DefaultCacheSize bounds the number of cached layouts.
const DefaultCacheSize = 64

type cacheKey struct {
	star string
	mode DistanceMode
}

// Cache memoizes layouts by star name and distance mode.
type Cache struct {
	engine  *Engine
	layouts *lru.Cache
}

// NewCache wraps an engine with an LRU of computed layouts.
func NewCache(engine *Engine, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create layout cache: %w", err)
	}
	return &Cache{engine: engine, layouts: l}, nil
}

// Engine returns the wrapped engine.
func (c *Cache) Engine() *Engine { return c.engine }

// Layout returns the layout for sys in the engine's current mode.
func (c *Cache) Layout(sys *catalog.StarSystem) Layout {
	if sys == nil {
		return c.engine.Layout(nil)
	}
	key := cacheKey{star: sys.StarName, mode: c.engine.Mode()}
	if v, ok := c.layouts.Get(key); ok {
		return v.(Layout)
	}
	l := c.engine.Layout(sys)
	c.layouts.Add(key, l)
	return l
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int { return c.layouts.Len() }

// Purge drops every cached layout.
func (c *Cache) Purge() { c.layouts.Purge() }
