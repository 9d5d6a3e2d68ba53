package hierarchy

import (
	"sync"

	"cosmogony/internal/zone"
)

// AssignParents resolves Parent for every zone in zones against idx,
// spec.md §4.6: for each zone, the enclosing zone is the smallest-area
// candidate whose geometry contains the child's Center, excluding the
// zone itself and any candidate whose admin_level is not strictly
// smaller (administratively broader) than the child's.
//
// Work fans out across workers goroutines, one per CPU by default (set
// by internal/config), since each zone's parent search is independent
// once the index is built; cosmogony's own worker pool replaces the
// teacher's sourcegraph/conc dependency, dropped because nothing else in
// this pipeline needs structured-concurrency helpers beyond a plain
// bounded fan-out (see DESIGN.md). Each worker gets its own Cache, built
// once before it starts pulling jobs, so the prepared-geometry cache
// really is thread-local per spec.md §5 instead of one Cache shared (and
// raced on) across every goroutine.
//
// The returned int is how many zones had a cyclic parent link cleared,
// for the cycles_broken stat (spec.md §7).
func AssignParents(zones []*zone.Zone, idx *Index, workers, cacheSize int) int {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *zone.Zone)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache := NewCache(cacheSize)
			for z := range jobs {
				z.Parent = findParent(z, idx, cache)
			}
		}()
	}

	for _, z := range zones {
		jobs <- z
	}
	close(jobs)
	wg.Wait()

	return breakCycles(zones)
}

// findParent applies spec.md §4.6 step 2c literally: the admin_level
// exclusion only fires "when both levels are present" — a candidate or
// child missing admin_level skips the ordering check entirely rather than
// being excluded, which is also why breakCycles below is load-bearing and
// not just defensive dead code: two admin_level-less zones whose
// geometries mutually contain each other's centers really can cycle here.
func findParent(child *zone.Zone, idx *Index, cache *Cache) *zone.Zone {
	filter := func(candidate *zone.Zone) bool {
		if candidate == child {
			return false
		}
		if candidate.AdminLevel != nil && child.AdminLevel != nil {
			return *candidate.AdminLevel < *child.AdminLevel
		}
		return true
	}
	return idx.ContainingSmallest(child.Center, cache, filter)
}

// breakCycles is a three-color DFS over the parent-pointer graph (a
// functional graph: every node has out-degree <= 1). Walking from an
// unvisited zone marks each node gray as it's pushed onto the current path;
// if that walk reaches a gray node, every zone from that node onward in the
// path is part of the cycle and has Parent cleared — not just the one link
// that happened to close the loop — so a two-zone mutual-parent cycle ends
// with both zones reporting parent=null, per spec.md §8 scenario 3.
func breakCycles(zones []*zone.Zone) int {
	const (
		white = iota
		gray
		black
	)
	color := make(map[*zone.Zone]int, len(zones))
	cleared := 0

	for _, start := range zones {
		if color[start] != white {
			continue
		}

		var path []*zone.Zone
		cur := start
		for cur != nil && color[cur] == white {
			color[cur] = gray
			path = append(path, cur)
			cur = cur.Parent
		}

		if cur != nil && color[cur] == gray {
			inCycle := false
			for _, z := range path {
				if z == cur {
					inCycle = true
				}
				if inCycle {
					z.Parent = nil
					cleared++
				}
			}
		}

		for _, z := range path {
			color[z] = black
		}
	}

	return cleared
}
