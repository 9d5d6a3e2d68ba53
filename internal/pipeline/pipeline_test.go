package pipeline

import (
	"testing"

	"cosmogony/internal/hierarchy"
	"cosmogony/internal/osmreader"
	"cosmogony/internal/ruleset"
	"cosmogony/internal/zone"
	"cosmogony/internal/zonetype"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{{minX, minY}, {minX, maxY}, {maxX, maxY}, {maxX, minY}, {minX, minY}}
}

func rel(id int64, tags map[string]string, outer orb.Ring) *osmreader.ResolvedRelation {
	return &osmreader.ResolvedRelation{
		ID:         id,
		Tags:       tags,
		OuterRings: []orb.Ring{outer},
	}
}

func franceLikeStore(t *testing.T) *ruleset.Store {
	t.Helper()
	store, err := ruleset.Load()
	require.NoError(t, err)
	return store
}

// Scenario: a country zone (level 2) containing a state (level 4) containing
// a city (level 8), mirroring the "Paris hierarchy" shape of spec.md §8
// scenario 6 at a synthetic scale.
func TestPipelineBuildsThreeLevelHierarchy(t *testing.T) {
	store := franceLikeStore(t)

	country := rel(2202162, map[string]string{
		"boundary": "administrative", "admin_level": "2",
		"ISO3166-1:alpha2": "FR", "name": "France",
	}, ring(0, 0, 100, 100))

	state := rel(8649, map[string]string{
		"boundary": "administrative", "admin_level": "4", "name": "Île-de-France",
	}, ring(10, 10, 60, 60))

	city := rel(7444, map[string]string{
		"boundary": "administrative", "admin_level": "8", "name": "Paris", "place": "city",
	}, ring(20, 20, 30, 30))

	relations := []*osmreader.ResolvedRelation{country, state, city}

	stats := newStats()
	zones := BuildZones(relations, stats)
	require.Len(t, zones, 3)

	countryIdx := hierarchy.BuildIndex(CountryCandidates(zones))
	ResolveCountryCodes(zones, countryIdx, stats, 16)
	TypeZones(zones, store, stats)

	fullIdx := hierarchy.BuildIndex(zones)
	hierarchy.AssignParents(zones, fullIdx, 2, 16)

	var zCountry, zState, zCity = zones[0], zones[1], zones[2]

	assert.Equal(t, zonetype.Country, zCountry.ZoneType)
	assert.Equal(t, zonetype.State, zState.ZoneType)
	assert.Equal(t, zonetype.City, zCity.ZoneType)

	assert.Nil(t, zCountry.Parent)
	require.NotNil(t, zState.Parent)
	assert.Equal(t, zCountry.OSMID, zState.Parent.OSMID)
	require.NotNil(t, zCity.Parent)
	assert.Equal(t, zState.OSMID, zCity.Parent.OSMID)
}

// spec.md §8 property 3: a cyclic input must never leave a loop in the
// parent chain; following pointers from any zone must terminate.
func TestPipelineBreaksCycles(t *testing.T) {
	// admin_level is deliberately left nil on both zones: spec.md §4.6 step
	// 2c only excludes a candidate "when both levels are present", so two
	// admin_level-less zones whose geometries mutually contain each
	// other's centers is the one case that can reach the final
	// cycle-breaking pass for real, not just defensively.
	a := &zone.Zone{OSMID: "relation:1", Geometry: orb.Polygon{ring(0, 0, 10, 10)}, Center: orb.Point{7, 7}}
	b := &zone.Zone{OSMID: "relation:2", Geometry: orb.Polygon{ring(5, 5, 15, 15)}, Center: orb.Point{7, 7}}
	zones := []*zone.Zone{a, b}

	idx := hierarchy.BuildIndex(zones)
	cleared := hierarchy.AssignParents(zones, idx, 2, 16)

	for _, z := range zones {
		seen := map[*zone.Zone]bool{}
		cur := z
		steps := 0
		for cur != nil {
			require.False(t, seen[cur], "parent chain must not revisit a zone")
			seen[cur] = true
			cur = cur.Parent
			steps++
			require.LessOrEqual(t, steps, len(zones))
		}
	}
	// spec.md §8 scenario 3: both zones in the mutual cycle report parent=null.
	assert.Nil(t, a.Parent)
	assert.Nil(t, b.Parent)
	assert.Equal(t, 2, cleared)
}

// spec.md §8 scenario 2 (Gatineau-like): a relation with no admin_center
// but a label node must take its center from the label node, and absorb
// its name:* tags.
func TestEnrichNamesUsesLabelNodeWhenNoAdminCenter(t *testing.T) {
	r := rel(99, map[string]string{"boundary": "administrative", "admin_level": "8", "name": "Gatineau"}, ring(0, 0, 10, 10))
	r.LabelNode = &osmreader.Node{
		ID:   1,
		Pt:   orb.Point{5, 5},
		Tags: map[string]string{"name:fr": "Gatineau", "name:en": "Gatineau"},
	}

	stats := newStats()
	zones := BuildZones([]*osmreader.ResolvedRelation{r}, stats)
	require.Len(t, zones, 1)

	relByOSMID := map[string]*osmreader.ResolvedRelation{zones[0].OSMID: r}
	EnrichNames(zones, relByOSMID)

	assert.Equal(t, orb.Point{5, 5}, zones[0].Center)
	assert.Equal(t, "Gatineau", zones[0].Tags["name:fr"])
}

// spec.md §8 scenario 5: a zone whose center lies inside a smaller foreign
// enclave must resolve to that enclave, not the larger surrounding country.
func TestAssignParentsPicksSmallestEnclosingEnclave(t *testing.T) {
	surrounding := rel(1, map[string]string{"boundary": "administrative", "admin_level": "2"}, ring(0, 0, 100, 100))
	enclave := rel(2, map[string]string{"boundary": "administrative", "admin_level": "2"}, ring(40, 40, 50, 50))

	stats := newStats()
	zones := BuildZones([]*osmreader.ResolvedRelation{surrounding, enclave}, stats)
	require.Len(t, zones, 2)

	child := rel(3, map[string]string{"boundary": "administrative", "admin_level": "4"}, ring(43, 43, 47, 47))
	childZones := BuildZones([]*osmreader.ResolvedRelation{child}, stats)
	zones = append(zones, childZones...)

	idx := hierarchy.BuildIndex(zones)
	hierarchy.AssignParents(zones, idx, 2, 16)

	require.NotNil(t, zones[2].Parent)
	assert.Equal(t, "relation:2", zones[2].Parent.OSMID, "child's center falls inside the enclave, not the surrounding country")
}

func TestAdminCenterMergedOnlyWhenEligible(t *testing.T) {
	r := rel(5, map[string]string{"boundary": "administrative", "admin_level": "4", "name": "Some State"}, ring(0, 0, 10, 10))
	r.AdminCenterNode = &osmreader.Node{
		ID:   2,
		Pt:   orb.Point{1, 1},
		Tags: map[string]string{"name:en": "Capital City"},
	}

	stats := newStats()
	zones := BuildZones([]*osmreader.ResolvedRelation{r}, stats)
	require.Len(t, zones, 1)
	zones[0].ZoneType = zonetype.State // not a city, no matching wikidata

	relByOSMID := map[string]*osmreader.ResolvedRelation{zones[0].OSMID: r}
	EnrichNames(zones, relByOSMID)

	_, present := zones[0].Tags["name:en"]
	assert.False(t, present, "admin_center names must not leak into a non-city, non-matching-wikidata zone")
}
