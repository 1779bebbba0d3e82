package world

import (
	"crypto/sha256"
	"encoding/binary"
)

// Vec2i is a world-space position in tile units.
type Vec2i struct {
	X int
	Y int
}

// ChunkKey identifies a fixed-size square region. Comparable, used as a
// map key.
type ChunkKey struct {
	CX int
	CY int
}

// Tile is the unit of terrain. Tiles are mutated in place inside a
// chunk's grid (harvesting, door toggling), never by replacing the chunk.
type Tile struct {
	Type        string
	Walkable    bool
	Transparent bool
	Glyph       string
	Resource    string // harvestable id, empty when none
}

// Chunk owns a dense Size x Size tile grid. Exactly one Chunk instance
// exists per coordinate for the life of a session; eviction clears the
// Loaded flag but never destroys the chunk.
type Chunk struct {
	Key    ChunkKey
	Size   int
	Tiles  []Tile
	Loaded bool

	// Mutated flips on the first post-generation tile write and survives
	// eviction and save round-trips.
	Mutated bool

	// Spawned holds ids of ephemeral resources dependents attached to
	// this chunk, kept for bookkeeping/diagnostics only.
	Spawned []string

	dirty bool
	hash  [32]byte
}

func newChunk(k ChunkKey, size int) *Chunk {
	return &Chunk{
		Key:   k,
		Size:  size,
		Tiles: make([]Tile, size*size),
	}
}

func (c *Chunk) index(x, y int) int {
	// x fastest, then y
	return x + y*c.Size
}

// clampLocal pins an offset into the grid. Out-of-range offsets are
// caller bugs; clamping keeps them from crashing the session.
func (c *Chunk) clampLocal(v int) int {
	if v < 0 {
		return 0
	}
	if v >= c.Size {
		return c.Size - 1
	}
	return v
}

func (c *Chunk) At(x, y int) Tile {
	return c.Tiles[c.index(c.clampLocal(x), c.clampLocal(y))]
}

func (c *Chunk) Set(x, y int, t Tile) {
	i := c.index(c.clampLocal(x), c.clampLocal(y))
	if c.Tiles[i] == t {
		return
	}
	c.Tiles[i] = t
	c.dirty = true
}

// Digest hashes the tile grid deterministically. Cached until the next
// tile write.
func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [8]byte
		writeStr := func(s string) {
			binary.LittleEndian.PutUint64(tmp[:], uint64(len(s)))
			h.Write(tmp[:])
			h.Write([]byte(s))
		}
		writeBool := func(b bool) {
			if b {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
		for _, t := range c.Tiles {
			writeStr(t.Type)
			writeBool(t.Walkable)
			writeBool(t.Transparent)
			writeStr(t.Glyph)
			writeStr(t.Resource)
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}
