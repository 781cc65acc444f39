package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one cached render.
type Entry struct {
	Payload    any
	RenderedAt time.Time
}

// RenderCache holds rendered page payloads keyed by request path (including
// any query string). Revalidate drops every variant of a path and bumps the
// path's generation, so a render that started before the revalidation is
// returned to its caller but never stored.
type RenderCache struct {
	mu          sync.RWMutex
	entries     map[string]Entry
	generations map[string]uint64
	group       singleflight.Group
	now         func() time.Time
}

func NewRenderCache() *RenderCache {
	return &RenderCache{
		entries:     make(map[string]Entry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

// Get returns the cached entry for key, if any.
func (c *RenderCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// GetOrRender returns the cached payload for key, or calls render and caches
// its result. Concurrent misses for the same key and generation share one
// render. Render errors are returned and nothing is cached.
func (c *RenderCache) GetOrRender(key string, render func() (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.generations[pathOf(key)]
	c.mu.RUnlock()
	if ok {
		return e.Payload, nil
	}

	flight := key + "#" + strconv.FormatUint(gen, 10)
	payload, err, _ := c.group.Do(flight, func() (any, error) {
		payload, err := render()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generations[pathOf(key)] == gen {
			c.entries[key] = Entry{Payload: payload, RenderedAt: c.now()}
		}
		c.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Revalidate marks path stale: the plain path and any query variants are
// dropped so the next read renders from storage.
func (c *RenderCache) Revalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[path]++
	for key := range c.entries {
		if pathOf(key) == path {
			delete(c.entries, key)
		}
	}
}

// Len reports how many renders are cached.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func pathOf(key string) string {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		return key[:i]
	}
	return key
}
