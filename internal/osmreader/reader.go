// Package osmreader implements cosmogony's PBF Reader Adapter (spec.md
// §4.1): a three-pass (relations, then ways, then nodes), random-access
// traversal of an OSM PBF file that
// resolves every boundary=administrative relation into a ResolvedRelation
// with full ring coordinates. The underlying decoder,
// github.com/qedus/osmpbf, is not safe for concurrent Decode calls across
// passes, so — per spec.md §5 — the whole read path runs single-threaded
// on the calling goroutine even though the decoder itself parallelises
// blob decompression internally via Start(n).
package osmreader

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/qedus/osmpbf"
)

const (
	roleOuter       = "outer"
	roleInner       = "inner"
	roleLabel       = "label"
	roleAdminCenter = "admin_center"
)

// Stats accumulates the non-fatal data-quality counters this stage
// produces, folded into the pipeline-wide stats bundle by the caller.
type Stats struct {
	RelationsSeen      int
	RelationsSkipped   int // not boundary=administrative
	RingAssemblyFailed int
	NodesIndexed       int
	WaysIndexed        int
}

// wayRef records that the way it's attached to plays `role` in the
// relation at `relationIdx`. A way may be referenced by more than one
// relation (shared borders), so this is a slice value in wayWanted.
type wayRef struct {
	relationIdx int
	role        string
}

// Read performs the (conceptually two-pass, here three-pass because ways
// and nodes are each a full PBF sweep) traversal described in spec.md
// §4.1 and returns ResolvedRelations in ascending file-offset order
// (pass-1 discovery order), which is what downstream dense-id assignment
// relies on for determinism (spec.md §5).
func Read(path string) ([]*ResolvedRelation, Stats, error) {
	var stats Stats

	file, err := os.Open(path)
	if err != nil {
		return nil, stats, fmt.Errorf("opening PBF file: %w", err)
	}
	defer file.Close()

	log.Printf("osmreader: pass 1 — indexing boundary relations in %s", path)
	relations, wayWanted, err := indexBoundaryRelations(file, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("pass 1: %w", err)
	}
	log.Printf("osmreader: pass 1 complete, %d boundary relations, %d referenced ways", len(relations), len(wayWanted))

	if _, err := file.Seek(0, 0); err != nil {
		return nil, stats, fmt.Errorf("rewinding PBF file: %w", err)
	}

	log.Printf("osmreader: pass 2 — resolving way node references")
	pendingWays, wantedNodes, err := resolveWays(file, wayWanted, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("pass 2: %w", err)
	}

	for _, rel := range relations {
		if rel.LabelNode != nil {
			wantedNodes[rel.LabelNode.ID] = true
		}
		if rel.AdminCenterNode != nil {
			wantedNodes[rel.AdminCenterNode.ID] = true
		}
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, stats, fmt.Errorf("rewinding PBF file: %w", err)
	}

	log.Printf("osmreader: pass 3 — resolving %d node coordinates", len(wantedNodes))
	nodeCoords, nodeTags, err := resolveNodes(file, wantedNodes, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("pass 3: %w", err)
	}

	attachWaySegments(relations, wayWanted, pendingWays, nodeCoords)
	attachLabelAndAdminCenter(relations, nodeCoords, nodeTags)
	assembleRelationRings(relations, &stats)

	return relations, stats, nil
}

func indexBoundaryRelations(file *os.File, stats *Stats) ([]*ResolvedRelation, map[int64][]wayRef, error) {
	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, nil, err
	}

	var relations []*ResolvedRelation
	wayWanted := make(map[int64][]wayRef)

	for {
		obj, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decoding: %w", err)
		}

		rel, ok := obj.(*osmpbf.Relation)
		if !ok {
			continue
		}
		stats.RelationsSeen++
		if stats.RelationsSeen%100000 == 0 {
			log.Printf("osmreader: scanned %d relations, %d boundary relations found...", stats.RelationsSeen, len(relations))
		}

		if rel.Tags["boundary"] != "administrative" {
			stats.RelationsSkipped++
			continue
		}

		idx := len(relations)
		rr := &ResolvedRelation{
			ID:     rel.ID,
			Offset: idx,
			Tags:   rel.Tags,
		}
		relations = append(relations, rr)

		for _, m := range rel.Members {
			switch m.Type {
			case osmpbf.WayType:
				switch m.Role {
				case roleOuter:
					wayWanted[m.ID] = append(wayWanted[m.ID], wayRef{relationIdx: idx, role: roleOuter})
				case roleInner:
					wayWanted[m.ID] = append(wayWanted[m.ID], wayRef{relationIdx: idx, role: roleInner})
				}
			case osmpbf.NodeType:
				switch m.Role {
				case roleLabel:
					rr.LabelNode = &Node{ID: m.ID}
				case roleAdminCenter:
					rr.AdminCenterNode = &Node{ID: m.ID}
				}
			}
		}
	}

	return relations, wayWanted, nil
}

// resolveWays resolves the node-ID sequence of every way referenced by a
// boundary relation, and returns the set of node IDs those ways need
// resolved in pass 3.
func resolveWays(file *os.File, wayWanted map[int64][]wayRef, stats *Stats) (map[int64]*osmpbf.Way, map[int64]bool, error) {
	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, nil, err
	}

	pendingWays := make(map[int64]*osmpbf.Way, len(wayWanted))
	wantedNodes := make(map[int64]bool)

	for {
		obj, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decoding: %w", err)
		}

		way, ok := obj.(*osmpbf.Way)
		if !ok {
			continue
		}
		if _, needed := wayWanted[way.ID]; !needed {
			continue
		}
		stats.WaysIndexed++
		pendingWays[way.ID] = way
		for _, n := range way.NodeIDs {
			wantedNodes[n] = true
		}
	}

	return pendingWays, wantedNodes, nil
}

func resolveNodes(file *os.File, wantedNodes map[int64]bool, stats *Stats) (map[int64]orb.Point, map[int64]map[string]string, error) {
	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, nil, err
	}

	coords := make(map[int64]orb.Point, len(wantedNodes))
	tags := make(map[int64]map[string]string)

	for {
		obj, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decoding: %w", err)
		}

		node, ok := obj.(*osmpbf.Node)
		if !ok {
			continue
		}
		if !wantedNodes[node.ID] {
			continue
		}
		stats.NodesIndexed++
		coords[node.ID] = orb.Point{node.Lon, node.Lat}
		if len(node.Tags) > 0 {
			tags[node.ID] = node.Tags
		}

		if stats.NodesIndexed%1000000 == 0 {
			log.Printf("osmreader: resolved %d node coordinates...", stats.NodesIndexed)
		}
	}

	return coords, tags, nil
}

func attachWaySegments(relations []*ResolvedRelation, wayWanted map[int64][]wayRef, pendingWays map[int64]*osmpbf.Way, coords map[int64]orb.Point) {
	for wayID, refs := range wayWanted {
		way, ok := pendingWays[wayID]
		if !ok {
			continue
		}
		seg := make(segment, 0, len(way.NodeIDs))
		for _, n := range way.NodeIDs {
			pt, ok := coords[n]
			if !ok {
				continue
			}
			seg = append(seg, pt)
		}
		for _, ref := range refs {
			rel := relations[ref.relationIdx]
			switch ref.role {
			case roleOuter:
				rel.pendingOuter = append(rel.pendingOuter, seg)
			case roleInner:
				rel.pendingInner = append(rel.pendingInner, seg)
			}
		}
	}
}

func attachLabelAndAdminCenter(relations []*ResolvedRelation, coords map[int64]orb.Point, tags map[int64]map[string]string) {
	for _, rel := range relations {
		if n := rel.LabelNode; n != nil {
			n.Pt = coords[n.ID]
			n.Tags = tags[n.ID]
		}
		if n := rel.AdminCenterNode; n != nil {
			n.Pt = coords[n.ID]
			n.Tags = tags[n.ID]
		}
	}
}

func assembleRelationRings(relations []*ResolvedRelation, stats *Stats) {
	for _, rel := range relations {
		outer, leftoverOuter := assembleRings(rel.pendingOuter)
		inner, _ := assembleRings(rel.pendingInner)

		rel.OuterRings = outer
		rel.InnerRings = inner

		if len(leftoverOuter) > 0 || len(outer) == 0 {
			rel.RingAssemblyFailed = true
			stats.RingAssemblyFailed++
		}
	}
}
