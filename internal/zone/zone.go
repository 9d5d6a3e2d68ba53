// Package zone defines cosmogony's sole first-class entity, the
// administrative Zone, and the small set of geometric helpers the rest of
// the pipeline needs to build one.
package zone

import (
	"sort"

	"cosmogony/internal/zonetype"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Zone is an administrative boundary, typed, named, geometry-bearing, with
// at most one parent. Zones are created once by the Zone Builder, mutated
// only by the Name Enricher, Zone Typer and Hierarchy Builder, and
// immutable afterwards.
type Zone struct {
	// Dense id assigned once, at encode time, in OSM iteration order.
	// It is 0 until then; the first zone's assigned id is also 0.
	ID int

	OSMID       string // "relation:<nnn>" | "way:<nnn>" | "node:<nnn>"
	AdminLevel  *int   // nil when absent from tags
	ZoneType    zonetype.Type
	Name        string
	Label       string
	ZipCodes    []string // kept sorted on output, see SortedZipCodes
	Center      orb.Point
	Geometry    orb.Geometry // orb.Polygon or orb.MultiPolygon
	Tags        map[string]string
	Parent      *Zone // in-memory pointer; never a second owner of Geometry
	Wikidata    string
	CountryCode string

	// isCountryCandidate is set by the Zone Builder when the boundary
	// itself looks like a country (admin_level <= 2, boundary=
	// administrative, an ISO tag present). The Country Resolver consumes
	// it instead of re-deriving the same predicate.
	isCountryCandidate bool

	// centerSet records whether Center has already been assigned by the
	// admin_center/label preference order, so the geometric-centroid
	// fallback in the Zone Builder never overwrites a higher-priority
	// source applied later by the enricher.
	centerSet bool
}

// IsCountryCandidate reports whether this boundary is eligible to become a
// top-level country zone under the Country Resolver's rule 1.
func (z *Zone) IsCountryCandidate() bool { return z.isCountryCandidate }

// SetCountryCandidate is called once by the Zone Builder.
func (z *Zone) SetCountryCandidate(v bool) { z.isCountryCandidate = v }

// SetCenter assigns Center respecting the preference order of spec.md §3/
// §4.4: admin_center node > label node > geometric centroid. Callers pass
// priority so a later, lower-priority call never overwrites an earlier,
// higher-priority one.
type CenterPriority int

const (
	PriorityCentroid CenterPriority = iota
	PriorityLabel
	PriorityAdminCenter
)

func (z *Zone) SetCenter(p orb.Point, priority CenterPriority, current CenterPriority) CenterPriority {
	if priority < current && z.centerSet {
		return current
	}
	z.Center = p
	z.centerSet = true
	return priority
}

// Bound returns the bounding box of Geometry, used both as the Zone's
// public bbox attribute and as the rtreego index key.
func (z *Zone) Bound() orb.Bound {
	return z.Geometry.Bound()
}

// SortedZipCodes returns ZipCodes in lexicographic order without mutating
// the Zone, per spec.md §3 ("zip_codes ... sorted on output").
func (z *Zone) SortedZipCodes() []string {
	out := make([]string, len(z.ZipCodes))
	copy(out, z.ZipCodes)
	sort.Strings(out)
	return out
}

// AddZipCode appends a postal code if it isn't already present.
func (z *Zone) AddZipCode(code string) {
	if code == "" {
		return
	}
	for _, existing := range z.ZipCodes {
		if existing == code {
			return
		}
	}
	z.ZipCodes = append(z.ZipCodes, code)
}

// MergeTagIfAbsent sets tags[key] = value only if the key isn't already
// present, implementing the "unless the zone already has that key" rule
// of the Name/Label Enricher (spec.md §4.4).
func (z *Zone) MergeTagIfAbsent(key, value string) bool {
	if z.Tags == nil {
		z.Tags = make(map[string]string)
	}
	if _, ok := z.Tags[key]; ok {
		return false
	}
	z.Tags[key] = value
	return true
}

// Area returns the geodesic area of Geometry in square meters, used for
// the Hierarchy Builder's smallest-enclosing-area comparisons (spec.md
// §4.6 step 2d). Computed with orb/geo the same way the teacher computes
// building footprint area (geo.Area(building.Outline)).
func (z *Zone) Area() float64 {
	if z.Geometry == nil {
		return 0
	}
	return geo.Area(z.Geometry)
}
