package metrics

import (
	"context"
	"sync"
)

// DefCache is a read-through cache over the metric definition list.
// Definitions change rarely and are read on every scoring pass and grid
// render, so cached copies are served until a definition write calls
// Invalidate. Results are cached per scope: the full list and the
// active-only list are distinct entries.
type DefCache struct {
	mu      sync.RWMutex
	byScope map[bool][]Def
	fetch   func(ctx context.Context, activeOnly bool) ([]Def, error)
}

// NewDefCache creates a DefCache backed by the given fetch function.
func NewDefCache(fetch func(ctx context.Context, activeOnly bool) ([]Def, error)) *DefCache {
	return &DefCache{
		byScope: make(map[bool][]Def),
		fetch:   fetch,
	}
}

// Get returns the definition list for a scope, fetching and caching it
// on first use. Callers must not mutate the returned slice.
func (c *DefCache) Get(ctx context.Context, activeOnly bool) ([]Def, error) {
	c.mu.RLock()
	defs, ok := c.byScope[activeOnly]
	c.mu.RUnlock()

	if ok {
		return defs, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have filled the scope while we waited.
	if defs, ok := c.byScope[activeOnly]; ok {
		return defs, nil
	}

	defs, err := c.fetch(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	c.byScope[activeOnly] = defs
	return defs, nil
}

// Invalidate drops all cached scopes. Every definition write path must
// call it so subsequent reads observe the change.
func (c *DefCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byScope = make(map[bool][]Def)
}
