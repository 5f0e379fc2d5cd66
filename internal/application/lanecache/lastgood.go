// Package lanecache implements the Last-Good Lane Cache (component H): a
// per-route, per-slot TTL cache that lets the Vessel Fuser reuse the
// previous successful lane snapshot when live telemetry is missing.
package lanecache

import (
	"sync"
	"time"

	"github.com/abw750/ferryAPI3/internal/domain/ferry"
)

const DefaultTTL = 10 * time.Minute

type key struct {
	routeID int
	slot    ferry.Slot
}

type entry struct {
	lane     ferry.Lane
	observed time.Time
}

// Cache is a single coarse-locked map; updates happen at most twice per
// assembly (one per lane) so contention is not a concern.
type Cache struct {
	ttl time.Duration
	mu  sync.Mutex
	m   map[key]entry
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, m: make(map[key]entry)}
}

// Get returns the cached lane for routeID/slot if it was observed within
// the TTL of now. The returned Lane is a private copy; mutating it does
// not affect the cache.
func (c *Cache) Get(routeID int, slot ferry.Slot, now time.Time) (ferry.Lane, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key{routeID, slot}]
	if !ok || now.Sub(e.observed) > c.ttl {
		return ferry.Lane{}, false
	}
	return e.lane.Clone(), true
}

// Put stores a copy of lane (pointer fields included, via Lane.Clone) as
// the last-good observation for
// routeID/slot at observedAt. Callers must not mutate lane afterward
// expecting the cache to see the change — Put has already copied it.
func (c *Cache) Put(routeID int, slot ferry.Slot, lane ferry.Lane, observedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key{routeID, slot}] = entry{lane: lane.Clone(), observed: observedAt}
}
