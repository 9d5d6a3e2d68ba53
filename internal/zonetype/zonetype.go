// Package zonetype defines the closed set of libpostal-style administrative
// zone types cosmogony assigns to OSM boundary relations.
package zonetype

// Type is a closed sum over the seven semantic zone types plus Unknown.
// It is data selected by a country ruleset, never a class hierarchy (see
// the "Polymorphism over zone types" design note).
type Type string

const (
	Suburb        Type = "suburb"
	CityDistrict  Type = "city_district"
	City          Type = "city"
	StateDistrict Type = "state_district"
	State         Type = "state"
	CountryRegion Type = "country_region"
	Country       Type = "country"
	Unknown       Type = "unknown"
)

// All enumerates the seven named types, excluding Unknown.
var All = []Type{Suburb, CityDistrict, City, StateDistrict, State, CountryRegion, Country}

// Valid reports whether t is one of the seven named types or Unknown.
func Valid(t Type) bool {
	if t == Unknown {
		return true
	}
	for _, known := range All {
		if t == known {
			return true
		}
	}
	return false
}

// ParseType converts a ruleset string into a Type, falling back to Unknown
// for anything not in the closed set rather than erroring — an unrecognised
// ruleset value is a data-quality issue to be counted, not a fatal error.
func ParseType(s string) Type {
	t := Type(s)
	if Valid(t) {
		return t
	}
	return Unknown
}
