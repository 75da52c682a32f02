package imagepkg

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Loader is what a Cache fills itself from. *Resolver implements it.
type Loader interface {
	Load(ctx context.Context, ref string) (*Record, error)
}

// Stats counts cache activity. Failures counts loads that returned an error;
// later hits on a failed reference are not counted again.
type Stats struct {
	Loads    int64
	Hits     int64
	Failures int64
}

type entry struct {
	rec *Record
	err error
}

// Cache memoizes decoded images for a single render. Identical reference
// strings are loaded exactly once, even when requested concurrently; failures
// are remembered as well. A Cache must not outlive its render: call Release
// when the render ends.
type Cache struct {
	loader Loader

	mu       sync.Mutex
	entries  map[string]entry
	released bool
	group    singleflight.Group

	loads    atomic.Int64
	hits     atomic.Int64
	failures atomic.Int64
}

// NewCache returns an empty cache backed by loader.
func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader, entries: make(map[string]entry)}
}

// Get returns the record for ref, loading it on first use.
func (c *Cache) Get(ctx context.Context, ref string) (*Record, error) {
	if e, ok := c.lookup(ref); ok {
		c.hits.Add(1)
		return e.rec, e.err
	}
	v, _, shared := c.group.Do(ref, func() (any, error) {
		if e, ok := c.lookup(ref); ok {
			c.hits.Add(1)
			return e, nil
		}
		c.loads.Add(1)
		rec, err := c.loader.Load(ctx, ref)
		if err != nil {
			c.failures.Add(1)
		}
		e := entry{rec: rec, err: err}
		c.store(ref, e)
		return e, nil
	})
	if shared {
		c.hits.Add(1)
	}
	e := v.(entry)
	return e.rec, e.err
}

// Stats returns load, hit and failure counts.
func (c *Cache) Stats() Stats {
	return Stats{Loads: c.loads.Load(), Hits: c.hits.Load(), Failures: c.failures.Load()}
}

// Release drops every record and deletes scratch files. It is safe to call
// more than once.
func (c *Cache) Release() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]entry)
	c.released = true
	c.mu.Unlock()

	for _, e := range entries {
		if e.rec != nil {
			removeScratch(e.rec)
		}
	}
}

func (c *Cache) lookup(ref string) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ref]
	return e, ok
}

func (c *Cache) store(ref string, e entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		if e.rec != nil {
			removeScratch(e.rec)
		}
		return
	}
	c.entries[ref] = e
}
