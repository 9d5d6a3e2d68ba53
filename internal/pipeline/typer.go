package pipeline

import (
	"fmt"

	"cosmogony/internal/ruleset"
	"cosmogony/internal/zone"
	"cosmogony/internal/zonetype"
)

// TypeZones implements the Zone Typer (spec.md §4.5): applies each zone's
// country ruleset to assign zone_type, falling back to unknown and
// tallying the stats spec.md §4.2/§4.7 call for.
func TypeZones(zones []*zone.Zone, store *ruleset.Store, stats *Stats) {
	for _, z := range zones {
		if z.CountryCode == "" {
			continue
		}

		rs, ok := store.Lookup(z.CountryCode)
		if !ok {
			stats.ZoneWithUnknownCountryRules[z.CountryCode]++
		}

		z.ZoneType = rs.TypeFor(z.AdminLevel, z.Tags)

		if z.AdminLevel != nil && !rs.HasLevel(*z.AdminLevel) {
			key := fmt.Sprintf("%s:%d", z.CountryCode, *z.AdminLevel)
			stats.UnhandledAdminLevel[key]++
		}

		// spec.md §8 property 5: sum over zone_type_counts must equal the
		// number of zones with zone_type != unknown, so unknown never gets
		// its own bucket here.
		if z.ZoneType != zonetype.Unknown {
			stats.ZoneTypeCounts[string(z.ZoneType)]++
		}
		if z.Wikidata != "" && z.AdminLevel != nil {
			stats.WikidataCounts[*z.AdminLevel]++
		}
	}
}
