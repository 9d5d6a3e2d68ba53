package util

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestPolygonContainsRespectsHoles(t *testing.T) {
	outer := orb.Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	hole := orb.Ring{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}}
	poly := orb.Polygon{outer, hole}

	assert.True(t, PolygonContains(poly, orb.Point{1, 1}))
	assert.False(t, PolygonContains(poly, orb.Point{5, 5}), "point inside the hole must not be contained")
	assert.False(t, PolygonContains(poly, orb.Point{20, 20}))
}

func TestGeometryContainsMultiPolygon(t *testing.T) {
	a := orb.Polygon{{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}}
	b := orb.Polygon{{{10, 10}, {10, 11}, {11, 11}, {11, 10}, {10, 10}}}
	mp := orb.MultiPolygon{a, b}

	assert.True(t, GeometryContains(mp, orb.Point{0.5, 0.5}))
	assert.True(t, GeometryContains(mp, orb.Point{10.5, 10.5}))
	assert.False(t, GeometryContains(mp, orb.Point{5, 5}))
}

func TestHaversineDistanceZeroForSamePoint(t *testing.T) {
	d := HaversineDistance(2.35, 48.85, 2.35, 48.85)
	assert.InDelta(t, 0, d, 1e-6)
}

func TestHaversineDistancePositive(t *testing.T) {
	// Paris to Lyon, roughly 390km.
	d := HaversineDistance(2.3522, 48.8566, 4.8357, 45.7640)
	assert.Greater(t, d, 380000.0)
	assert.Less(t, d, 420000.0)
}
