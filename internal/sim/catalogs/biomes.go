package catalogs

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// BiomeDef maps a biome id to the tile parameters the generator
// materializes. Immutable after load.
type BiomeDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	TileType    string `yaml:"tile"`
	Glyph       string `yaml:"glyph"`
	Walkable    bool   `yaml:"walkable"`
	Transparent bool   `yaml:"transparent"`
	Color       string `yaml:"color"`

	// Harvestable placed on roughly ResourcePermille/1000 of tiles.
	Resource         string `yaml:"resource"`
	ResourcePermille int    `yaml:"resource_permille"`

	// Decoration glyph (trees, cacti, reeds) replacing the base glyph on
	// roughly DecorPermille/1000 of tiles. Decorated tiles block sight.
	DecorGlyph    string `yaml:"decor_glyph"`
	DecorPermille int    `yaml:"decor_permille"`
}

type BiomeCatalog struct {
	Defs map[string]BiomeDef
}

// DefaultBiomeID is the lookup fallback for unknown ids.
const DefaultBiomeID = "grassland"

func DefaultBiomes() *BiomeCatalog {
	defs := []BiomeDef{
		{ID: "deep_ocean", Name: "Deep Ocean", TileType: "water", Glyph: "≈", Transparent: true, Color: "navy"},
		{ID: "ocean", Name: "Ocean", TileType: "water", Glyph: "~", Transparent: true, Color: "blue"},
		{ID: "water_deep_fresh", Name: "Deep Fresh Water", TileType: "water", Glyph: "≈", Transparent: true, Color: "teal"},
		{ID: "water_shallow_fresh", Name: "Shallow Fresh Water", TileType: "water", Glyph: "~", Transparent: true, Color: "cyan", Resource: "reeds", ResourcePermille: 40},
		{ID: "beach", Name: "Beach", TileType: "sand", Glyph: ".", Walkable: true, Transparent: true, Color: "yellow", Resource: "driftwood", ResourcePermille: 15},
		{ID: "desert", Name: "Desert", TileType: "sand", Glyph: ".", Walkable: true, Transparent: true, Color: "gold", DecorGlyph: "φ", DecorPermille: 8},
		{ID: "grassland", Name: "Grassland", TileType: "grass", Glyph: "\"", Walkable: true, Transparent: true, Color: "green", Resource: "herbs", ResourcePermille: 25, DecorGlyph: "τ", DecorPermille: 10},
		{ID: "marsh", Name: "Marsh", TileType: "mud", Glyph: ",", Walkable: true, Transparent: true, Color: "olive", Resource: "reeds", ResourcePermille: 60},
		{ID: "scrubland", Name: "Scrubland", TileType: "dirt", Glyph: ";", Walkable: true, Transparent: true, Color: "tan", DecorGlyph: "♣", DecorPermille: 20},
		{ID: "forest", Name: "Forest", TileType: "grass", Glyph: "\"", Walkable: true, Transparent: true, Color: "darkgreen", Resource: "wood", ResourcePermille: 80, DecorGlyph: "♠", DecorPermille: 180},
		{ID: "swamp", Name: "Swamp", TileType: "mud", Glyph: ",", Walkable: true, Transparent: true, Color: "darkolive", Resource: "moss", ResourcePermille: 70, DecorGlyph: "♣", DecorPermille: 90},
		{ID: "taiga", Name: "Taiga", TileType: "snow", Glyph: "'", Walkable: true, Transparent: true, Color: "silver", Resource: "wood", ResourcePermille: 50, DecorGlyph: "↑", DecorPermille: 120},
		{ID: "mountains", Name: "Mountains", TileType: "rock", Glyph: "^", Walkable: false, Transparent: false, Color: "gray", Resource: "ore", ResourcePermille: 35},
		{ID: "snow_peak", Name: "Snow Peak", TileType: "snow", Glyph: "▲", Walkable: false, Transparent: false, Color: "white"},
	}
	cat := &BiomeCatalog{Defs: make(map[string]BiomeDef, len(defs))}
	for _, d := range defs {
		cat.Defs[d.ID] = d
	}
	return cat
}

// LoadBiomes reads biomes.yaml. Entries missing required fields are
// skipped with a warning; a file that yields no usable entries is an error.
func LoadBiomes(path string, logger *log.Logger) (*BiomeCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Biomes []BiomeDef `yaml:"biomes"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("biomes.yaml: %w", err)
	}

	cat := &BiomeCatalog{Defs: make(map[string]BiomeDef, len(doc.Biomes))}
	for i, d := range doc.Biomes {
		if d.ID == "" || d.Glyph == "" || d.TileType == "" {
			if logger != nil {
				logger.Printf("biomes: skipping malformed entry %d (id=%q)", i, d.ID)
			}
			continue
		}
		cat.Defs[d.ID] = d
	}
	if len(cat.Defs) == 0 {
		return nil, fmt.Errorf("biomes.yaml: no usable entries")
	}
	if _, ok := cat.Defs[DefaultBiomeID]; !ok {
		if logger != nil {
			logger.Printf("biomes: no %q entry, adding built-in fallback", DefaultBiomeID)
		}
		cat.Defs[DefaultBiomeID] = DefaultBiomes().Defs[DefaultBiomeID]
	}
	return cat, nil
}

// LoadBiomesOrDefault degrades to the built-in set when the file is
// missing or unreadable.
func LoadBiomesOrDefault(path string, logger *log.Logger) *BiomeCatalog {
	cat, err := LoadBiomes(path, logger)
	if err != nil {
		if logger != nil {
			logger.Printf("biomes: %v (using built-in defaults)", err)
		}
		return DefaultBiomes()
	}
	return cat
}

// Lookup never fails: unknown ids resolve to the grassland fallback.
func (c *BiomeCatalog) Lookup(id string) BiomeDef {
	if d, ok := c.Defs[id]; ok {
		return d
	}
	return c.Defs[DefaultBiomeID]
}
