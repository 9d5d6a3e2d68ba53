package ruleset

import (
	"testing"

	"cosmogony/internal/zonetype"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedsFrance(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	rs, ok := store.Lookup("fr")
	require.True(t, ok)
	assert.Equal(t, "FR", rs.CountryCode)
	assert.Equal(t, zonetype.Country, rs.TypeFor(intPtr(2), nil))
	assert.Equal(t, zonetype.State, rs.TypeFor(intPtr(4), nil))
}

func TestLookupFallsBackToDefault(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	rs, ok := store.Lookup("ZZ")
	assert.False(t, ok)
	require.NotNil(t, rs)
	assert.Equal(t, zonetype.Country, rs.TypeFor(intPtr(2), nil))
	assert.Equal(t, zonetype.Unknown, rs.TypeFor(intPtr(99), nil))
}

func TestOverrideTakesPrecedenceOverLevel(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)

	rs, _ := store.Lookup("FR")

	// Without the place=city tag, level 8 resolves via the plain map.
	assert.Equal(t, zonetype.City, rs.TypeFor(intPtr(8), nil))

	// With place=city the FR level-8 override matches, and it happens to
	// yield the same type as the plain map.
	tags := map[string]string{"place": "city"}
	assert.Equal(t, zonetype.City, rs.TypeFor(intPtr(8), tags))

	// DE maps level 6 to state_district, and its place=city override
	// turns that into city, so only an evaluated override gives city.
	de, ok := store.Lookup("DE")
	require.True(t, ok)
	assert.Equal(t, zonetype.StateDistrict, de.TypeFor(intPtr(6), nil))
	assert.Equal(t, zonetype.City, de.TypeFor(intPtr(6), tags))
}

func TestHasLevel(t *testing.T) {
	store, err := Load()
	require.NoError(t, err)
	rs, _ := store.Lookup("FR")

	assert.True(t, rs.HasLevel(8))
	assert.False(t, rs.HasLevel(42))
}

func TestParseAdminLevel(t *testing.T) {
	assert.Nil(t, ParseAdminLevel(""))
	assert.Nil(t, ParseAdminLevel("not-a-number"))
	require.NotNil(t, ParseAdminLevel("8"))
	assert.Equal(t, 8, *ParseAdminLevel(" 8 "))
}

func intPtr(v int) *int { return &v }
