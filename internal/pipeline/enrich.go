package pipeline

import (
	"strings"

	"cosmogony/internal/osmreader"
	"cosmogony/internal/zone"
	"cosmogony/internal/zonetype"
)

// EnrichNames implements the Name/Label Enricher (spec.md §4.4). relByOSMID
// maps a zone's osm_id back to the ResolvedRelation it was built from, so
// this stage can reach the label/admin_center nodes the Zone Builder
// didn't need.
func EnrichNames(zones []*zone.Zone, relByOSMID map[string]*osmreader.ResolvedRelation) {
	for _, z := range zones {
		rel, ok := relByOSMID[z.OSMID]
		if !ok {
			continue
		}

		prio := zone.PriorityCentroid

		if rel.LabelNode != nil {
			mergeNameTags(z, rel.LabelNode.Tags)
			prio = z.SetCenter(rel.LabelNode.Pt, zone.PriorityLabel, prio)
		}

		if rel.AdminCenterNode != nil {
			// The center always prefers admin_center over label/centroid
			// regardless of tag eligibility; only the name-tag merge below
			// is gated by adminCenterEligible (spec.md §4.4).
			prio = z.SetCenter(rel.AdminCenterNode.Pt, zone.PriorityAdminCenter, prio)
			if adminCenterEligible(z, rel.AdminCenterNode.Tags) {
				mergeNameTags(z, rel.AdminCenterNode.Tags)
			}
		}
	}
}

// adminCenterEligible implements the rationale in spec.md §4.4: an
// admin_center's names are only trustworthy for the zone itself when the
// zone IS a city (so the admin_center is its own downtown), or when the
// admin_center node and the zone tag the same Wikidata entity.
func adminCenterEligible(z *zone.Zone, adminCenterTags map[string]string) bool {
	if z.ZoneType == zonetype.City {
		return true
	}
	if z.Wikidata == "" {
		return false
	}
	return adminCenterTags["wikidata"] == z.Wikidata
}

func mergeNameTags(z *zone.Zone, tags map[string]string) {
	for k, v := range tags {
		if strings.HasPrefix(k, "name:") || k == "name" {
			z.MergeTagIfAbsent(k, v)
		}
	}
}
