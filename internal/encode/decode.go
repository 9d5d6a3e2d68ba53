package encode

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmogony/internal/pipeline"
)

// WriteDecoded writes an already id-assigned, already-deduplicated slice
// of DecodedZone back out in the same wire schema WriteToFile uses, for
// the Merger (spec.md §4.8), which manages its own global id counter
// instead of deriving ids from OSM iteration order.
func WriteDecoded(path string, zones []DecodedZone, stats *pipeline.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	_, gzipped := FormatForPath(path)

	var w io.Writer = f
	if gzipped {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	enc := json.NewEncoder(w)
	for _, z := range zones {
		if err := enc.Encode(z); err != nil {
			return fmt.Errorf("writing zone %s: %w", z.OSMID, err)
		}
	}
	return enc.Encode(metaRecord{Meta: stats})
}

// DecodedZone is the flat, read-back shape of a wire zone: everything the
// Merger needs (spec.md §4.8), without re-establishing in-memory Parent
// pointers, since parent is carried as an osm_id string across a merge.
type DecodedZone struct {
	ID          int               `json:"id"`
	OSMID       string            `json:"osm_id"`
	AdminLevel  *int              `json:"admin_level"`
	ZoneType    string            `json:"zone_type"`
	Name        string            `json:"name"`
	ZipCodes    []string          `json:"zip_codes"`
	Label       string            `json:"label"`
	Center      *geojsonGeometry  `json:"center"`
	Bbox        [4]float64        `json:"bbox"`
	Geometry    *geojsonGeometry  `json:"geometry"`
	Tags        map[string]string `json:"tags"`
	Parent      *string           `json:"parent"`
	Wikidata    *string           `json:"wikidata"`
	CountryCode *string           `json:"country_code"`
}

// geojsonGeometry is decoded generically (raw JSON) since the Merger never
// needs to interpret geometry, only pass it through verbatim.
type geojsonGeometry = json.RawMessage

type rawLine struct {
	Meta *pipeline.Stats `json:"meta"`
	DecodedZone
}

// ReadJSONL streams a JSONL atlas (optionally gzip-wrapped, per filename
// suffix) back into zones and its trailing meta record.
func ReadJSONL(path string) ([]DecodedZone, *pipeline.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("opening gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var zones []DecodedZone
	var stats *pipeline.Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rl rawLine
		if err := json.Unmarshal(line, &rl); err != nil {
			return nil, nil, fmt.Errorf("decoding line: %w", err)
		}
		if rl.Meta != nil {
			stats = rl.Meta
			continue
		}
		zones = append(zones, rl.DecodedZone)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	return zones, stats, nil
}
