package schema

import "strings"

// GeoSpec describes a Census geography level: its API name and the parent
// levels that must be supplied when querying it.
type GeoSpec struct {
	APIName  string
	Requires []GeoLevel
}

// GeographyHierarchy defines supported geography levels, their API names and
// required parent geographies.
var GeographyHierarchy = map[GeoLevel]GeoSpec{
	USLevel:       {APIName: "us", Requires: nil},
	StateLevel:    {APIName: "state", Requires: nil},
	CountyLevel:   {APIName: "county", Requires: []GeoLevel{StateLevel}},
	PlaceLevel:    {APIName: "place", Requires: []GeoLevel{StateLevel}},
	DistrictLevel: {APIName: "congressional district", Requires: []GeoLevel{StateLevel}},
	ZCTALevel:     {APIName: "zip code tabulation area", Requires: nil}, // state scoping is optional for ZCTAs
	MetroLevel:    {APIName: "metropolitan statistical area/micropolitan statistical area", Requires: nil},
	TractLevel:    {APIName: "tract", Requires: []GeoLevel{StateLevel, CountyLevel}},
}

// GeographyAliases maps common user terms to the canonical keys in GeographyHierarchy.
var GeographyAliases = map[string]GeoLevel{
	"nation": USLevel, "country": USLevel, "united states": USLevel,
	"states":   StateLevel,
	"counties": CountyLevel,
	"city":     PlaceLevel, "town": PlaceLevel, "cities": PlaceLevel,
	"zip": ZCTALevel, "zip code": ZCTALevel, "zcta": ZCTALevel,
	"metro area":   MetroLevel,
	"census tract": TractLevel,
}

// AncestorChain lists the identifier fields that compose an entity's stable
// identity key, parent-to-child, ending at the level itself.
// For example a county's chain is [state, county].
func AncestorChain(level GeoLevel) []GeoLevel {
	spec, ok := GeographyHierarchy[level]
	if !ok {
		return nil
	}
	chain := make([]GeoLevel, 0, len(spec.Requires)+1)
	chain = append(chain, spec.Requires...)
	return append(chain, level)
}

// NormalizeGeoLevel lowercases the input and resolves aliases to a canonical
// level. The boolean reports whether the result is a known hierarchy level.
func NormalizeGeoLevel(raw string) (GeoLevel, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	level := GeoLevel(lowered)
	if alias, ok := GeographyAliases[lowered]; ok {
		level = alias
	}
	_, known := GeographyHierarchy[level]
	return level, known
}

// GeoIdentifierFields lists every field that identifies geography rather than
// carrying a statistical value. Used to skip identifier columns when scanning
// rows for display variables.
var GeoIdentifierFields = map[string]struct{}{
	"us": {}, "state": {}, "county": {}, "place": {}, "tract": {},
	"congressional district": {}, "zip code tabulation area": {},
	"metropolitan statistical area/micropolitan statistical area": {},
}

// IsGeoIdentifier reports whether a row key is a geography identifier field.
func IsGeoIdentifier(key string) bool {
	_, ok := GeoIdentifierFields[key]
	return ok
}
