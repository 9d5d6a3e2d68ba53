package encode

import (
	"os"
	"path/filepath"
	"testing"

	"cosmogony/internal/pipeline"
	"cosmogony/internal/zone"
	"cosmogony/internal/zonetype"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleZones() []*zone.Zone {
	level := 8
	country := &zone.Zone{
		OSMID: "relation:1", ZoneType: zonetype.Country, Name: "Testland",
		Geometry: orb.Polygon{{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}},
		Center:   orb.Point{5, 5},
		Tags:     map[string]string{"name": "Testland"},
	}
	city := &zone.Zone{
		OSMID: "relation:2", AdminLevel: &level, ZoneType: zonetype.City, Name: "Testville",
		Geometry: orb.Polygon{{{1, 1}, {1, 2}, {2, 2}, {2, 1}, {1, 1}}},
		Center:   orb.Point{1.5, 1.5},
		Parent:   country,
		Tags:     map[string]string{"name": "Testville"},
		ZipCodes: []string{"00002", "00001"},
	}
	return []*zone.Zone{country, city}
}

func TestFormatForPathSelectsContainerAndGzip(t *testing.T) {
	f, gz := FormatForPath("out.jsonl.gz")
	assert.Equal(t, JSONL, f)
	assert.True(t, gz)

	f, gz = FormatForPath("out.json")
	assert.Equal(t, SingleJSON, f)
	assert.False(t, gz)
}

func TestWriteToFileAssignsDenseIDsInOrder(t *testing.T) {
	zones := sampleZones()
	dir := t.TempDir()
	out := filepath.Join(dir, "atlas.jsonl")

	stats := &pipeline.Stats{
		LevelCounts: map[int]int{8: 1}, ZoneTypeCounts: map[string]int{"city": 1, "country": 1},
		WikidataCounts: map[int]int{}, ZoneWithUnknownCountryRules: map[string]int{}, UnhandledAdminLevel: map[string]int{},
	}
	require.NoError(t, WriteToFile(out, zones, stats))

	assert.Equal(t, 0, zones[0].ID)
	assert.Equal(t, 1, zones[1].ID)

	decoded, meta, err := ReadJSONL(out)
	require.NoError(t, err)
	require.NotNil(t, meta)
	require.Len(t, decoded, 2)

	assert.Equal(t, "relation:1", decoded[0].OSMID)
	assert.Equal(t, "relation:2", decoded[1].OSMID)
	require.NotNil(t, decoded[1].Parent)
	assert.Equal(t, "relation:1", *decoded[1].Parent)
	assert.Equal(t, []string{"00001", "00002"}, decoded[1].ZipCodes)
}

func TestWriteToFileGzipRoundTrips(t *testing.T) {
	zones := sampleZones()
	dir := t.TempDir()
	out := filepath.Join(dir, "atlas.jsonl.gz")

	stats := &pipeline.Stats{
		LevelCounts: map[int]int{}, ZoneTypeCounts: map[string]int{}, WikidataCounts: map[int]int{},
		ZoneWithUnknownCountryRules: map[string]int{}, UnhandledAdminLevel: map[string]int{},
	}
	require.NoError(t, WriteToFile(out, zones, stats))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	decoded, _, err := ReadJSONL(out)
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
}
