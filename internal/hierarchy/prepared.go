package hierarchy

import (
	"container/list"

	"cosmogony/internal/util"
	"cosmogony/internal/zone"

	"github.com/paulmach/orb"
)

// Prepared stands in for a GEOS prepared geometry (spec.md §9): a
// candidate zone's geometry wrapped once so repeated containment tests
// against it don't redo the same bookkeeping. orb has no native
// "prepare" step, so the speedup here is narrower than GEOS's — the
// bounding box and the list of polygons are computed once, at prepare
// time — and a cached Prepared value is what spares each query a type
// switch and a bounds computation.
type Prepared struct {
	bound orb.Bound
	polys []orb.Polygon
}

func prepare(z *zone.Zone) *Prepared {
	p := &Prepared{bound: z.Bound()}
	switch g := z.Geometry.(type) {
	case orb.Polygon:
		p.polys = []orb.Polygon{g}
	case orb.MultiPolygon:
		p.polys = g
	}
	return p
}

// Contains runs the exact containment predicate, preferring bbox rejection
// before falling into the ring walk.
func (p *Prepared) Contains(pt orb.Point) bool {
	if !p.bound.Contains(pt) {
		return false
	}
	for _, poly := range p.polys {
		if util.PolygonContains(poly, pt) {
			return true
		}
	}
	return false
}

// Cache is a bounded, thread-local LRU of Prepared geometries. Every
// caller that might run concurrently with another (AssignParents' worker
// pool) must construct its own Cache rather than share one — spec.md §5
// requires the cache be thread-local "to avoid lock contention", so Cache
// carries no internal locking at all.
type Cache struct {
	capacity int
	entries  map[string]*list.Element // osm_id -> element
	order    *list.List
}

type cacheEntry struct {
	osmID    string
	prepared *Prepared
}

// NewCache creates an LRU bounded to capacity entries. A planet-scale run
// typically has k <= 20 live candidates per point (spec.md §4.6), so a
// capacity in the low thousands comfortably covers the working set of a
// single worker without letting memory grow unbounded across the run.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached Prepared geometry for z, preparing and caching
// it on a miss, and evicting the least-recently-used entry if the cache
// is full.
func (c *Cache) Get(z *zone.Zone) *Prepared {
	if el, ok := c.entries[z.OSMID]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).prepared
	}

	p := prepare(z)
	el := c.order.PushFront(&cacheEntry{osmID: z.OSMID, prepared: p})
	c.entries[z.OSMID] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).osmID)
		}
	}

	return p
}
