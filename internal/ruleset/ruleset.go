// Package ruleset loads the country-scoped admin_level → zone_type rules
// that the Zone Typer applies (spec.md §4.2, §4.5). All rulesets are
// embedded at build time from internal/ruleset/data — "no external file
// required at runtime", per spec.md §6.
package ruleset

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"cosmogony/internal/zonetype"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var dataFS embed.FS

// Override is a single per-tag exception evaluated before falling back to
// the admin_level → zone_type map, e.g. "place=city promotes a level-8
// suburb to city" (spec.md §4.5).
type Override struct {
	AdminLevel int    `yaml:"admin_level"`
	Tag        string `yaml:"tag"`
	Equals     string `yaml:"equals"`
	ZoneType   string `yaml:"zone_type"`
}

// raw mirrors the on-disk YAML schema documented in SPEC_FULL.md §4.2.
type raw struct {
	CountryCode string         `yaml:"country_code"`
	Levels      map[int]string `yaml:"levels"`
	Overrides   []Override     `yaml:"overrides"`
}

// Ruleset is one country's resolved admin_level → zone_type mapping plus
// its ordered tag overrides.
type Ruleset struct {
	CountryCode string
	Levels      map[int]zonetype.Type
	Overrides   []Override
}

// Store is the process-wide, read-only-after-init table of rulesets,
// keyed by upper-case ISO-3166-1 alpha-2 country code. It is the "Global
// state" of spec.md §9: "the embedded ruleset tree is process-wide
// immutable state initialised once before any stage runs."
type Store struct {
	rulesets map[string]*Ruleset
	fallback *Ruleset
}

// Load parses every embedded *.yml file into a Store. It is called once
// from main before the pipeline starts; a malformed embedded file is a
// programmer error and is fatal, not a per-zone data-quality issue.
func Load() (*Store, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("reading embedded ruleset directory: %w", err)
	}

	s := &Store{rulesets: make(map[string]*Ruleset, len(entries))}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		rs, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		if strings.EqualFold(rs.CountryCode, "default") || rs.CountryCode == "" {
			s.fallback = rs
			continue
		}
		s.rulesets[strings.ToUpper(rs.CountryCode)] = rs
	}

	return s, nil
}

func parse(data []byte) (*Ruleset, error) {
	var r raw
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	levels := make(map[int]zonetype.Type, len(r.Levels))
	for level, typ := range r.Levels {
		levels[level] = zonetype.ParseType(typ)
	}

	return &Ruleset{
		CountryCode: r.CountryCode,
		Levels:      levels,
		Overrides:   r.Overrides,
	}, nil
}

// Lookup returns the ruleset for an ISO-3166-1 alpha-2 code, a bool
// reporting whether a country-specific ruleset existed (false means the
// generic fallback, if any, was used — callers tally this in
// zone_with_unknown_country_rules per spec.md §4.2).
func (s *Store) Lookup(countryCode string) (*Ruleset, bool) {
	if rs, ok := s.rulesets[strings.ToUpper(countryCode)]; ok {
		return rs, true
	}
	return s.fallback, false
}

// TypeFor resolves a zone's type given its admin_level and tags, applying
// overrides before falling back to the level map, then Unknown
// (spec.md §4.5).
func (r *Ruleset) TypeFor(adminLevel *int, tags map[string]string) zonetype.Type {
	if r == nil || adminLevel == nil {
		return zonetype.Unknown
	}

	for _, ov := range r.Overrides {
		if ov.AdminLevel != *adminLevel {
			continue
		}
		if tags[ov.Tag] == ov.Equals {
			return zonetype.ParseType(ov.ZoneType)
		}
	}

	if t, ok := r.Levels[*adminLevel]; ok {
		return t
	}
	return zonetype.Unknown
}

// HasLevel reports whether the ruleset has any rule (level or override)
// mentioning adminLevel, used to populate unhandled_admin_level stats.
func (r *Ruleset) HasLevel(adminLevel int) bool {
	if r == nil {
		return false
	}
	if _, ok := r.Levels[adminLevel]; ok {
		return true
	}
	for _, ov := range r.Overrides {
		if ov.AdminLevel == adminLevel {
			return true
		}
	}
	return false
}

// ParseAdminLevel converts an OSM admin_level tag string into an int
// pointer, returning nil for missing or malformed values — an admin_level
// is optional per the Zone data model (spec.md §3).
func ParseAdminLevel(tag string) *int {
	if tag == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(tag))
	if err != nil {
		return nil
	}
	return &n
}
