package pipeline

import (
	"cosmogony/internal/hierarchy"
	"cosmogony/internal/zone"
)

// ResolveCountryCodes implements the Country Resolver's attribution
// algorithm (spec.md §4.2). Country-candidate zones are attributed their
// own ISO code directly (rule 1); every other zone's country is the ISO
// code of the smallest country candidate whose geometry contains its
// center (rule 2), found through a country-only spatial index so this
// never touches non-country zones, which haven't been typed yet. The
// resolver runs as a single sequential pass, so one Cache for the whole
// call is safe to reuse across every lookup.
func ResolveCountryCodes(zones []*zone.Zone, countryIdx *hierarchy.Index, stats *Stats, cacheSize int) {
	cache := hierarchy.NewCache(cacheSize)
	for _, z := range zones {
		if z.IsCountryCandidate() {
			z.CountryCode = isoCode(z.Tags)
			continue
		}

		country := countryIdx.ContainingSmallest(z.Center, cache, func(c *zone.Zone) bool {
			return c.IsCountryCandidate()
		})
		if country == nil {
			stats.ZoneWithoutCountry++
			continue
		}
		z.CountryCode = isoCode(country.Tags)
	}
}

func isoCode(tags map[string]string) string {
	if v := tags["ISO3166-1:alpha2"]; v != "" {
		return v
	}
	return tags["ISO3166-1"]
}

// CountryCandidates filters zones down to those the Zone Builder flagged
// as eligible countries, the subset BuildIndex is called with for the
// phase-1 index (SPEC_FULL.md §4.6.1).
func CountryCandidates(zones []*zone.Zone) []*zone.Zone {
	out := make([]*zone.Zone, 0)
	for _, z := range zones {
		if z.IsCountryCandidate() {
			out = append(out, z)
		}
	}
	return out
}
