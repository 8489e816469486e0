package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeGeoLevel tests level normalization and alias resolution.
func TestNormalizeGeoLevel(t *testing.T) {
	tests := []struct {
		input string
		want  GeoLevel
		known bool
	}{
		{"state", StateLevel, true},
		{"STATE", StateLevel, true},
		{"  county  ", CountyLevel, true},
		{"nation", USLevel, true},
		{"country", USLevel, true},
		{"cities", PlaceLevel, true},
		{"town", PlaceLevel, true},
		{"zip", ZCTALevel, true},
		{"zcta", ZCTALevel, true},
		{"zip code tabulation area", ZCTALevel, true},
		{"census tract", TractLevel, true},
		{"metro area", MetroLevel, true},
		{"galaxy", GeoLevel("galaxy"), false},
		{"", GeoLevel(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := NormalizeGeoLevel(tt.input)
			assert.Equal(t, tt.known, known)
			if tt.known {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// TestAncestorChain tests identity chain construction.
func TestAncestorChain(t *testing.T) {
	assert.Equal(t, []GeoLevel{StateLevel}, AncestorChain(StateLevel))
	assert.Equal(t, []GeoLevel{StateLevel, CountyLevel}, AncestorChain(CountyLevel))
	assert.Equal(t, []GeoLevel{StateLevel, CountyLevel, TractLevel}, AncestorChain(TractLevel))
	assert.Equal(t, []GeoLevel{ZCTALevel}, AncestorChain(ZCTALevel))
	assert.Nil(t, AncestorChain(GeoLevel("unknown")))
}

// TestIsGeoIdentifier tests identifier field detection.
func TestIsGeoIdentifier(t *testing.T) {
	assert.True(t, IsGeoIdentifier("state"))
	assert.True(t, IsGeoIdentifier("county"))
	assert.True(t, IsGeoIdentifier("zip code tabulation area"))
	assert.False(t, IsGeoIdentifier("B01003_001E"))
	assert.False(t, IsGeoIdentifier(NameField))
}

// TestGeographyHierarchyIntegrity checks parent levels exist in the hierarchy.
func TestGeographyHierarchyIntegrity(t *testing.T) {
	for level, spec := range GeographyHierarchy {
		assert.NotEmpty(t, spec.APIName, "level %s has no API name", level)
		for _, parent := range spec.Requires {
			_, ok := GeographyHierarchy[parent]
			assert.True(t, ok, "level %s requires unknown parent %s", level, parent)
		}
	}
}

// TestStateFIPSMap spot-checks well-known codes.
func TestStateFIPSMap(t *testing.T) {
	assert.Equal(t, "06", StateFIPSMap["california"])
	assert.Equal(t, "48", StateFIPSMap["texas"])
	assert.Equal(t, "11", StateFIPSMap["district of columbia"])
	assert.Equal(t, "72", StateFIPSMap["puerto rico"])
}

// TestVariableLabel tests label fallback.
func TestVariableLabel(t *testing.T) {
	assert.Equal(t, "Total Population", VariableLabel("B01003_001E"))
	assert.Equal(t, "B99999_001E", VariableLabel("B99999_001E"))
}
