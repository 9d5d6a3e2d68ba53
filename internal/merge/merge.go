// Package merge implements the Merger (spec.md §4.8): it unions multiple
// previously-built, non-overlapping JSONL atlases without recomputing
// hierarchy, renumbering ids into one global id space and deduplicating
// by osm_id.
package merge

import (
	"fmt"

	"cosmogony/internal/encode"
	"cosmogony/internal/pipeline"
)

// Result is a single merged atlas: the surviving zones in first-seen
// order across inputs, the summed statistics, and how many duplicate
// osm_ids were dropped.
type Result struct {
	Zones        []encode.DecodedZone
	Stats        *pipeline.Stats
	DedupDropped int
}

// Files reads each path in order and merges them, spec.md §4.8 steps 1-3.
func Files(paths []string) (*Result, error) {
	res := &Result{Stats: emptyStats()}
	seen := make(map[string]bool)

	nextID := 0
	for _, path := range paths {
		zones, stats, err := encode.ReadJSONL(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		for _, z := range zones {
			if seen[z.OSMID] {
				res.DedupDropped++
				continue
			}
			seen[z.OSMID] = true

			z.ID = nextID
			nextID++
			res.Zones = append(res.Zones, z)
		}

		if stats != nil {
			sumStats(res.Stats, stats)
		}
	}

	return res, nil
}

func emptyStats() *pipeline.Stats {
	return &pipeline.Stats{
		LevelCounts:                 make(map[int]int),
		ZoneTypeCounts:              make(map[string]int),
		WikidataCounts:              make(map[int]int),
		ZoneWithUnknownCountryRules: make(map[string]int),
		UnhandledAdminLevel:         make(map[string]int),
	}
}

// sumStats implements spec.md §4.8 step 3: "merge statistics by summing
// across inputs."
func sumStats(dst, src *pipeline.Stats) {
	for k, v := range src.LevelCounts {
		dst.LevelCounts[k] += v
	}
	for k, v := range src.ZoneTypeCounts {
		dst.ZoneTypeCounts[k] += v
	}
	for k, v := range src.WikidataCounts {
		dst.WikidataCounts[k] += v
	}
	for k, v := range src.ZoneWithUnknownCountryRules {
		dst.ZoneWithUnknownCountryRules[k] += v
	}
	for k, v := range src.UnhandledAdminLevel {
		dst.UnhandledAdminLevel[k] += v
	}
	dst.ZoneWithoutCountry += src.ZoneWithoutCountry
	dst.RelationsSeen += src.RelationsSeen
	dst.RelationsSkipped += src.RelationsSkipped
	dst.RingAssemblyFailed += src.RingAssemblyFailed
	dst.GeometryDropped += src.GeometryDropped
	dst.CyclesBroken += src.CyclesBroken
}

// WriteJSONL writes a merged Result back out in the atlas wire schema,
// preserving each zone's already-renumbered id and its parent osm_id
// untouched — spec.md §4.8 is explicit that osm_id-stored parents "need
// no remapping".
func WriteJSONL(path string, res *Result) error {
	return encode.WriteDecoded(path, res.Zones, res.Stats)
}
