package locations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/astral-forecast/internal/errors"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Göteborg":          "goteborg",
		"Östersund":         "ostersund",
		"Luleå":             "lulea",
		"  Malmö ":          "malmo",
		"Västra  Götaland":  "vastra-gotaland",
		"abisko":            "abisko",
		"Kiruna_C":          "kiruna-c",
		"":                  "",
		"!!!":               "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "slug of %q", in)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Göteborg", "göteborg", "GOTEBORG", "goteborg"} {
		loc, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, "Göteborg", loc.Name)
		assert.Equal(t, "goteborg", loc.Slug)
	}

	_, err := Lookup("Reykjavik")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = Lookup("")
	require.Error(t, err)
}

func TestCatalogIntegrity(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, len(Names()))

	seen := make(map[string]bool)
	for i, loc := range all {
		assert.Equal(t, Names()[i], loc.Name)
		assert.NotEmpty(t, loc.Slug)
		assert.False(t, seen[loc.Slug], "duplicate slug %s", loc.Slug)
		seen[loc.Slug] = true

		// Sweden spans roughly 55-69°N, 11-24°E
		assert.InDelta(t, 62, loc.Latitude, 7.5, loc.Name)
		assert.InDelta(t, 17.5, loc.Longitude, 6.5, loc.Name)
	}

	// All returns a copy
	all[0].Name = "changed"
	assert.NotEqual(t, "changed", All()[0].Name)
}

func TestQuery(t *testing.T) {
	t.Parallel()

	loc, err := Lookup("Abisko")
	require.NoError(t, err)
	assert.Equal(t, "68.3495,18.8312", loc.Query())
}
