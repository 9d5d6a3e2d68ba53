package pipeline

import "cosmogony/internal/osmreader"

// Stats is the ground-truth audit trail accumulated across every stage,
// emitted verbatim as the Output Encoder's meta record (spec.md §4.7/§7).
type Stats struct {
	LevelCounts                 map[int]int    `json:"level_counts"`
	ZoneTypeCounts              map[string]int `json:"zone_type_counts"`
	WikidataCounts              map[int]int    `json:"wikidata_counts"`
	ZoneWithUnknownCountryRules map[string]int `json:"zone_with_unknown_country_rules"`
	UnhandledAdminLevel         map[string]int `json:"unhandled_admin_level"`
	ZoneWithoutCountry          int            `json:"zone_without_country"`

	RelationsSeen      int `json:"relations_seen"`
	RelationsSkipped   int `json:"relations_skipped"`
	RingAssemblyFailed int `json:"ring_assembly_failed"`
	GeometryDropped    int `json:"geometry_dropped"`
	CyclesBroken       int `json:"cycles_broken"`
}

func newStats() *Stats {
	return &Stats{
		LevelCounts:                 make(map[int]int),
		ZoneTypeCounts:              make(map[string]int),
		WikidataCounts:              make(map[int]int),
		ZoneWithUnknownCountryRules: make(map[string]int),
		UnhandledAdminLevel:         make(map[string]int),
	}
}

// absorbReaderStats folds the PBF Reader Adapter's own counters into the
// pipeline-wide bundle so a single Stats value is the whole run's audit
// trail, per spec.md §7 ("the final statistics bundle is the ground-truth
// audit trail").
func (s *Stats) absorbReaderStats(rs osmreader.Stats) {
	s.RelationsSeen = rs.RelationsSeen
	s.RelationsSkipped = rs.RelationsSkipped
	s.RingAssemblyFailed = rs.RingAssemblyFailed
}
