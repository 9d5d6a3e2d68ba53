// Package pipeline wires the zone-building stages into the staged,
// synchronous dataflow spec.md §5 describes: each stage completes before
// the next begins, with bulk index construction happening once between
// country resolution and the full hierarchy pass.
package pipeline

import (
	"fmt"
	"log"

	"cosmogony/internal/hierarchy"
	"cosmogony/internal/osmreader"
	"cosmogony/internal/ruleset"
	"cosmogony/internal/zone"
)

// Result is everything the Output Encoder needs: the finished zones, in
// their original OSM iteration order, and the run's statistics bundle.
type Result struct {
	Zones []*zone.Zone
	Stats *Stats
}

// Options configures a single Run.
type Options struct {
	Workers           int
	PreparedCacheSize int
}

// Run executes the full pipeline against a single OSM PBF extract:
// PBF Reader → Zone Builder → Country Resolver → Zone Typer →
// Name Enricher → Hierarchy Builder, per SPEC_FULL.md §4.4.1/§4.6.1.
func Run(pbfPath string, store *ruleset.Store, opts Options) (*Result, error) {
	log.Printf("reading %s", pbfPath)
	relations, readerStats, err := osmreader.Read(pbfPath)
	if err != nil {
		return nil, fmt.Errorf("reading pbf: %w", err)
	}
	log.Printf("resolved %d boundary relations (%d skipped, %d ring failures)",
		len(relations), readerStats.RelationsSkipped, readerStats.RingAssemblyFailed)

	stats := newStats()
	stats.absorbReaderStats(readerStats)

	zones := BuildZones(relations, stats)
	log.Printf("built %d zones", len(zones))

	relByOSMID := make(map[string]*osmreader.ResolvedRelation, len(relations))
	for _, rel := range relations {
		relByOSMID[fmt.Sprintf("relation:%d", rel.ID)] = rel
	}

	countryCandidates := CountryCandidates(zones)
	log.Printf("%d country candidates", len(countryCandidates))
	countryIdx := hierarchy.BuildIndex(countryCandidates)

	ResolveCountryCodes(zones, countryIdx, stats, opts.PreparedCacheSize)
	TypeZones(zones, store, stats)
	EnrichNames(zones, relByOSMID)

	fullIdx := hierarchy.BuildIndex(zones)
	stats.CyclesBroken = hierarchy.AssignParents(zones, fullIdx, opts.Workers, opts.PreparedCacheSize)
	if stats.CyclesBroken > 0 {
		log.Printf("broke %d cyclic parent link(s)", stats.CyclesBroken)
	}

	return &Result{Zones: zones, Stats: stats}, nil
}
