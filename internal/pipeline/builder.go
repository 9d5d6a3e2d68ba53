package pipeline

import (
	"fmt"

	"cosmogony/internal/osmreader"
	"cosmogony/internal/ruleset"
	"cosmogony/internal/zone"
	"cosmogony/internal/zonetype"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// BuildZones implements the Zone Builder (spec.md §4.3): for each resolved
// relation, assemble geometry from its rings, validate and repair it, copy
// tags, and assign osm_id. Relations that aren't administrative boundaries
// with an admin_level are dropped outright, counted in stats.
func BuildZones(relations []*osmreader.ResolvedRelation, stats *Stats) []*zone.Zone {
	zones := make([]*zone.Zone, 0, len(relations))

	for _, rel := range relations {
		if rel.Tags["boundary"] != "administrative" {
			stats.RelationsSkipped++
			continue
		}
		adminLevel := parseAdminLevel(rel.Tags["admin_level"])
		if adminLevel == nil {
			stats.RelationsSkipped++
			continue
		}
		if rel.RingAssemblyFailed {
			continue
		}

		geom, ok := buildGeometry(rel.OuterRings, rel.InnerRings)
		if !ok {
			stats.GeometryDropped++
			continue
		}

		z := &zone.Zone{
			OSMID:      fmt.Sprintf("relation:%d", rel.ID),
			AdminLevel: adminLevel,
			ZoneType:   zonetype.Unknown,
			Geometry:   geom,
			Tags:       copyTags(rel.Tags),
		}
		z.Name = rel.Tags["name"]
		z.Wikidata = rel.Tags["wikidata"]

		centroid := geo.Centroid(geom)
		z.SetCenter(centroid, zone.PriorityCentroid, zone.PriorityCentroid)

		z.SetCountryCandidate(isCountryCandidate(adminLevel, rel.Tags))

		zones = append(zones, z)
		stats.LevelCounts[*adminLevel]++
	}

	return zones
}

func isCountryCandidate(adminLevel *int, tags map[string]string) bool {
	if adminLevel == nil || *adminLevel > 2 {
		return false
	}
	return tags["ISO3166-1"] != "" || tags["ISO3166-1:alpha2"] != ""
}

func parseAdminLevel(raw string) *int {
	return ruleset.ParseAdminLevel(raw)
}

func copyTags(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// buildGeometry assembles a (Multi)Polygon from a relation's outer/inner
// rings, repairing minor defects (unclosed rings, runs of duplicate
// points) the way the missing GEOS make_valid would (spec.md §9). Each
// inner ring is matched to the outer ring that geometrically contains it;
// an inner ring matching no outer is dropped rather than failing the
// whole zone.
func buildGeometry(outer, inner []orb.Ring) (orb.Geometry, bool) {
	outers := make([]orb.Ring, 0, len(outer))
	for _, r := range outer {
		if repaired, ok := repairRing(r); ok {
			outers = append(outers, repaired)
		}
	}
	if len(outers) == 0 {
		return nil, false
	}

	holesByOuter := make([][]orb.Ring, len(outers))
	for _, h := range inner {
		repaired, ok := repairRing(h)
		if !ok {
			continue
		}
		idx := findEnclosingOuter(outers, repaired)
		if idx < 0 {
			continue
		}
		holesByOuter[idx] = append(holesByOuter[idx], repaired)
	}

	if len(outers) == 1 {
		poly := append(orb.Polygon{outers[0]}, holesByOuter[0]...)
		return poly, true
	}

	mp := make(orb.MultiPolygon, 0, len(outers))
	for i, o := range outers {
		poly := append(orb.Polygon{o}, holesByOuter[i]...)
		mp = append(mp, poly)
	}
	return mp, true
}

func findEnclosingOuter(outers []orb.Ring, hole orb.Ring) int {
	if len(hole) == 0 {
		return -1
	}
	probe := hole[0]
	for i, o := range outers {
		if planar.RingContains(o, probe) {
			return i
		}
	}
	return -1
}

// repairRing is the make_valid substitute: it closes an unclosed ring and
// collapses consecutive duplicate points, and rejects anything that still
// can't form a valid ring (fewer than 4 points once closed).
func repairRing(r orb.Ring) (orb.Ring, bool) {
	if len(r) == 0 {
		return nil, false
	}

	deduped := make(orb.Ring, 0, len(r))
	for _, pt := range r {
		if len(deduped) > 0 && deduped[len(deduped)-1] == pt {
			continue
		}
		deduped = append(deduped, pt)
	}

	if len(deduped) > 0 && deduped[0] != deduped[len(deduped)-1] {
		deduped = append(deduped, deduped[0])
	}

	if len(deduped) < 4 {
		return nil, false
	}
	return deduped, true
}
