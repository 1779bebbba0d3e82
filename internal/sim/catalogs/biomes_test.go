package catalogs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBiomes(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "biomes.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadBiomesSkipsMalformedEntries(t *testing.T) {
	p := writeBiomes(t, `
biomes:
  - id: grassland
    tile: grass
    glyph: '"'
    walkable: true
    transparent: true
  - id: broken_no_glyph
    tile: rock
  - tile: sand
    glyph: "."
`)
	cat, err := LoadBiomes(p, nil)
	require.NoError(t, err)

	assert.Len(t, cat.Defs, 1)
	assert.Contains(t, cat.Defs, "grassland")
	assert.NotContains(t, cat.Defs, "broken_no_glyph")
}

func TestLoadBiomesAddsGrasslandFallback(t *testing.T) {
	p := writeBiomes(t, `
biomes:
  - id: ocean
    tile: water
    glyph: "~"
`)
	cat, err := LoadBiomes(p, nil)
	require.NoError(t, err)

	// The fallback target must always resolve.
	def := cat.Lookup("no_such_biome")
	assert.Equal(t, DefaultBiomeID, def.ID)
}

func TestLoadBiomesEmptyFileErrors(t *testing.T) {
	p := writeBiomes(t, `biomes: []`)
	_, err := LoadBiomes(p, nil)
	assert.Error(t, err)
}

func TestLoadBiomesOrDefaultDegrades(t *testing.T) {
	cat := LoadBiomesOrDefault(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NotNil(t, cat)

	def := cat.Lookup("forest")
	assert.Equal(t, "forest", def.ID)
	assert.True(t, def.Walkable)
}

func TestDefaultBiomesCoverDefaultMatrix(t *testing.T) {
	cat := DefaultBiomes()
	for _, id := range []string{
		"deep_ocean", "ocean", "beach", "desert", "grassland", "marsh",
		"scrubland", "forest", "swamp", "taiga", "mountains", "snow_peak",
		"water_deep_fresh", "water_shallow_fresh",
	} {
		assert.Contains(t, cat.Defs, id, "biome %s missing from defaults", id)
	}
}
