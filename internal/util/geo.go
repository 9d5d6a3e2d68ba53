// Package util holds small geometry helpers shared across cosmogony's
// pipeline stages — point-in-polygon containment and great-circle
// distance — kept separate from the heavier, stateful prepared-geometry
// cache that lives in internal/hierarchy.
package util

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const earthRadiusMeters = 6371000.0

// HaversineDistance returns the great-circle distance in meters between
// two lon/lat points, used by the Hierarchy Builder to log how far apart
// tied candidates' centers are when a tie-break needs explaining (spec.md
// §9's "must remain consistent across a run" tie-break note).
func HaversineDistance(lng1, lat1, lng2, lat2 float64) float64 {
	p1 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat1, lng1))
	p2 := s2.PointFromLatLng(s2.LatLngFromDegrees(lat2, lng2))
	angle := s1.Angle(s2.ChordAngleBetweenPoints(p1, p2).Angle())
	return angle.Radians() * earthRadiusMeters
}

// PolygonContains reports whether point lies inside polygon, honoring
// holes (inner rings). It is the planar point-in-polygon primitive the
// GEOS `contains` predicate is substituted with, per spec.md §9.
func PolygonContains(polygon orb.Polygon, point orb.Point) bool {
	if len(polygon) == 0 {
		return false
	}
	if !planar.RingContains(polygon[0], point) {
		return false
	}
	for _, hole := range polygon[1:] {
		if planar.RingContains(hole, point) {
			return false
		}
	}
	return true
}

// GeometryContains generalizes PolygonContains to either an orb.Polygon
// or an orb.MultiPolygon, since a Zone's Geometry may be either
// (spec.md §3).
func GeometryContains(geom orb.Geometry, point orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return PolygonContains(g, point)
	case orb.MultiPolygon:
		for _, p := range g {
			if PolygonContains(p, point) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
