// Package encode implements the Output Encoder (spec.md §4.7/§6): it
// assigns dense ids in iteration order, projects each Zone into its wire
// schema, and writes either streaming JSONL or a single JSON document,
// gzip-wrapped when the output path ends in .gz.
package encode

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmogony/internal/pipeline"
	"cosmogony/internal/zone"

	"github.com/paulmach/orb/geojson"
)

// wireZone is the canonical per-zone JSON schema from spec.md §6.
type wireZone struct {
	ID          int               `json:"id"`
	OSMID       string            `json:"osm_id"`
	AdminLevel  *int              `json:"admin_level"`
	ZoneType    string            `json:"zone_type"`
	Name        string            `json:"name"`
	ZipCodes    []string          `json:"zip_codes"`
	Label       string            `json:"label"`
	Center      *geojson.Geometry `json:"center"`
	Bbox        [4]float64        `json:"bbox"`
	Geometry    *geojson.Geometry `json:"geometry"`
	Tags        map[string]string `json:"tags"`
	Parent      *string           `json:"parent"`
	Wikidata    *string           `json:"wikidata"`
	CountryCode *string           `json:"country_code"`
}

type metaRecord struct {
	Meta *pipeline.Stats `json:"meta"`
}

type jsonDocument struct {
	Zones []wireZone      `json:"zones"`
	Meta  *pipeline.Stats `json:"meta"`
}

// Format selects the output container; gzip wrapping is orthogonal and
// applied by the caller based on filename suffix.
type Format int

const (
	JSONL Format = iota
	SingleJSON
)

// FormatForPath implements spec.md §6's "output file extension drives
// encoding" rule.
func FormatForPath(path string) (format Format, gzipped bool) {
	p := path
	if strings.HasSuffix(p, ".gz") {
		gzipped = true
		p = strings.TrimSuffix(p, ".gz")
	}
	if strings.HasSuffix(p, ".jsonl") {
		return JSONL, gzipped
	}
	return SingleJSON, gzipped
}

// WriteToFile opens path (truncating any existing file), wraps it in gzip
// when the extension calls for it, and writes zones+stats in the format
// selected by FormatForPath.
func WriteToFile(path string, zones []*zone.Zone, stats *pipeline.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	format, gzipped := FormatForPath(path)

	var w io.Writer = f
	if gzipped {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	switch format {
	case JSONL:
		return writeJSONL(w, zones, stats)
	default:
		return writeSingleJSON(w, zones, stats)
	}
}

// assignIDs implements spec.md §5's "dense id assignment happens exactly
// once, at encode time, in OSM iteration order".
func assignIDs(zones []*zone.Zone) {
	for i, z := range zones {
		z.ID = i
	}
}

func writeJSONL(w io.Writer, zones []*zone.Zone, stats *pipeline.Stats) error {
	assignIDs(zones)
	enc := json.NewEncoder(w)
	for _, z := range zones {
		wz, err := toWireZone(z)
		if err != nil {
			return fmt.Errorf("encoding zone %s: %w", z.OSMID, err)
		}
		if err := enc.Encode(wz); err != nil {
			return fmt.Errorf("writing zone %s: %w", z.OSMID, err)
		}
	}
	return enc.Encode(metaRecord{Meta: stats})
}

func writeSingleJSON(w io.Writer, zones []*zone.Zone, stats *pipeline.Stats) error {
	assignIDs(zones)
	doc := jsonDocument{Zones: make([]wireZone, 0, len(zones)), Meta: stats}
	for _, z := range zones {
		wz, err := toWireZone(z)
		if err != nil {
			return fmt.Errorf("encoding zone %s: %w", z.OSMID, err)
		}
		doc.Zones = append(doc.Zones, wz)
	}
	return json.NewEncoder(w).Encode(doc)
}

func toWireZone(z *zone.Zone) (wireZone, error) {
	b := z.Bound()

	wz := wireZone{
		ID:         z.ID,
		OSMID:      z.OSMID,
		AdminLevel: z.AdminLevel,
		ZoneType:   string(z.ZoneType),
		Name:       z.Name,
		ZipCodes:   z.SortedZipCodes(),
		Label:      z.Label,
		Center:     geojson.NewGeometry(z.Center),
		Bbox:       [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
		Geometry:   geojson.NewGeometry(z.Geometry),
		Tags:       z.Tags,
	}

	if z.Parent != nil {
		parentID := z.Parent.OSMID
		wz.Parent = &parentID
	}
	if z.Wikidata != "" {
		wz.Wikidata = &z.Wikidata
	}
	if z.CountryCode != "" {
		wz.CountryCode = &z.CountryCode
	}

	return wz, nil
}
