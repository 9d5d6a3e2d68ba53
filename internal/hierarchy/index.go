package hierarchy

import (
	"log"
	"sort"

	"cosmogony/internal/util"
	"cosmogony/internal/zone"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

const (
	rtreeMinEntries = 25
	rtreeMaxEntries = 50
	rtreeDimensions = 2
)

// Index is the spatial index the Country Resolver and Hierarchy Builder
// both query, one bounding-box lookup followed by exact containment. Index
// holds no prepared-geometry cache of its own: spec.md §5 requires that
// cache be thread-local, so each caller supplies its own Cache rather than
// sharing one through the Index (see ContainingSmallest).
type Index struct {
	tree *rtreego.Rtree
}

// BuildIndex bulk-loads zones into an R-tree in one shot via NewTree's
// variadic objects argument, rather than looping over Insert the way the
// teacher's prepareZonesForProcessing does. spec.md §4.6 calls bulk-loading
// a requirement at planet scale (a few hundred incremental inserts is fine,
// several million is not), so this is a deliberate deviation from the
// teacher's incremental pattern, not an oversight.
func BuildIndex(zones []*zone.Zone) *Index {
	objs := make([]rtreego.Spatial, 0, len(zones))
	for _, z := range zones {
		if z.Geometry == nil {
			continue
		}
		objs = append(objs, &zoneSpatial{Zone: z})
	}

	tree := rtreego.NewTree(rtreeDimensions, rtreeMinEntries, rtreeMaxEntries, objs...)

	return &Index{tree: tree}
}

// candidateRect builds a degenerate rtreego.Rect around a point, wide
// enough that floating point equality at the boundary never drops a
// candidate whose bbox touches the point exactly.
func candidateRect(pt orb.Point) rtreego.Rect {
	const epsilon = 1e-9
	rect, _ := rtreego.NewRect(
		rtreego.Point{pt[0] - epsilon, pt[1] - epsilon},
		[]float64{2 * epsilon, 2 * epsilon},
	)
	return rect
}

// Candidates returns every indexed zone whose bounding box intersects pt,
// the coarse pre-filter ahead of the exact containment test.
func (idx *Index) Candidates(pt orb.Point) []*zone.Zone {
	hits := idx.tree.SearchIntersect(candidateRect(pt))
	out := make([]*zone.Zone, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*zoneSpatial).Zone)
	}
	return out
}

// Filter decides whether a candidate zone is eligible to enclose the point
// under test; ContainingSmallest applies it, and its callers each supply
// their own (ResolveCountryCodes: country candidates only, for phase 1;
// findParent: admin_level-ordered, for phase 2).
type Filter func(candidate *zone.Zone) bool

// ContainingSmallest returns the smallest-area zone among those passing
// filter whose exact geometry contains pt, applying the tie-break order
// from spec.md §4.6/§9: smallest area first, then the candidate with the
// larger admin_level (more specific), then the lexicographically smaller
// osm_id so the result is stable across runs regardless of OSM iteration
// order. cache is the caller's own prepared-geometry cache; callers that
// run concurrently must each pass a Cache they don't share with another
// goroutine, since Cache carries no internal locking (spec.md §5).
func (idx *Index) ContainingSmallest(pt orb.Point, cache *Cache, filter Filter) *zone.Zone {
	candidates := idx.Candidates(pt)

	var winners []*zone.Zone
	for _, c := range candidates {
		if filter != nil && !filter(c) {
			continue
		}
		if !cache.Get(c).Contains(pt) {
			continue
		}
		winners = append(winners, c)
	}
	if len(winners) == 0 {
		return nil
	}

	sort.Slice(winners, func(i, j int) bool {
		return less(winners[i], winners[j])
	})

	if len(winners) > 1 && winners[0].Area() == winners[1].Area() {
		dist := util.HaversineDistance(
			winners[0].Center[0], winners[0].Center[1],
			winners[1].Center[0], winners[1].Center[1],
		)
		log.Printf("hierarchy: tie-break on equal-area candidates %s and %s, centers %.1fm apart, picked %s",
			winners[0].OSMID, winners[1].OSMID, dist, winners[0].OSMID)
	}

	return winners[0]
}

func less(a, b *zone.Zone) bool {
	aArea, bArea := a.Area(), b.Area()
	if aArea != bArea {
		return aArea < bArea
	}

	aLevel, bLevel := adminLevelOrMin(a), adminLevelOrMin(b)
	if aLevel != bLevel {
		return aLevel > bLevel
	}

	return a.OSMID < b.OSMID
}

func adminLevelOrMin(z *zone.Zone) int {
	if z.AdminLevel == nil {
		return -1
	}
	return *z.AdminLevel
}
