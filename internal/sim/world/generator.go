package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"wildmarch/internal/sim/catalogs"
	"wildmarch/internal/sim/tuning"
	"wildmarch/internal/sim/world/logic/mathx"
)

// moistureSeedOffset decorrelates the moisture field from elevation.
const moistureSeedOffset = 0x51ab

// Salts for the per-tile placement rolls so decorations, resources and
// terrain draw from independent streams of the same seed.
const (
	decorSalt    = 0x7d
	resourceSalt = 0x1f3
)

// Generator synthesizes chunks. Pure function of (seed, coordinate,
// config): no clock, no shared mutable state, no dependence on the order
// chunks are requested in.
type Generator struct {
	seed   int64
	cfg    tuning.Config
	class  *Classifier
	biomes *catalogs.BiomeCatalog
	elev   opensimplex.Noise
	moist  opensimplex.Noise
}

func NewGenerator(seed int64, cfg tuning.Config, biomes *catalogs.BiomeCatalog) *Generator {
	if biomes == nil {
		biomes = catalogs.DefaultBiomes()
	}
	return &Generator{
		seed:   seed,
		cfg:    cfg,
		class:  NewClassifier(cfg),
		biomes: biomes,
		// Elevation stays signed so the sea can sit below zero; moisture
		// is normalized into [0,1].
		elev:  opensimplex.New(seed),
		moist: opensimplex.NewNormalized(seed + moistureSeedOffset),
	}
}

func (g *Generator) Seed() int64 { return g.seed }

// Generate builds the chunk at k. Two calls with the same (seed, k) on
// the same configuration produce byte-identical tile grids.
func (g *Generator) Generate(k ChunkKey) *Chunk {
	ch := newChunk(k, g.cfg.ChunkSize)
	origin := k.Origin(g.cfg.ChunkSize)
	for y := 0; y < ch.Size; y++ {
		for x := 0; x < ch.Size; x++ {
			wx := origin.X + x
			wy := origin.Y + y
			elev := fbm(g.elev, float64(wx), float64(wy), g.cfg.Elevation)
			moist := fbm(g.moist, float64(wx), float64(wy), g.cfg.Moisture)
			def := g.biomes.Lookup(g.class.Classify(elev, moist))
			ch.Tiles[ch.index(x, y)] = g.materialize(def, wx, wy)
		}
	}
	ch.dirty = true
	_ = ch.Digest() // initialize digest
	return ch
}

func (g *Generator) materialize(def catalogs.BiomeDef, wx, wy int) Tile {
	t := Tile{
		Type:        def.TileType,
		Walkable:    def.Walkable,
		Transparent: def.Transparent,
		Glyph:       def.Glyph,
	}
	if def.DecorPermille > 0 && def.DecorGlyph != "" &&
		mathx.Hash2(g.seed+decorSalt, wx, wy)%1000 < uint64(def.DecorPermille) {
		t.Glyph = def.DecorGlyph
		t.Transparent = false
	}
	if def.ResourcePermille > 0 && def.Resource != "" &&
		mathx.Hash2(g.seed+resourceSalt, wx, wy)%1000 < uint64(def.ResourcePermille) {
		t.Resource = def.Resource
	}
	return t
}

func fbm(n opensimplex.Noise, x, y float64, p tuning.NoiseParams) float64 {
	freq := p.Frequency
	amp := 1.0
	sum := 0.0
	norm := 0.0
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}
	for i := 0; i < octaves; i++ {
		sum += amp * n.Eval2(x*freq, y*freq)
		norm += amp
		freq *= p.Lacunarity
		amp *= p.Gain
	}
	return sum / norm
}
