package world

import "wildmarch/internal/sim/world/logic/mathx"

// WorldToChunk maps a world position to its chunk coordinate by
// component-wise floor division. True floor, not truncation: negative
// positions must map to negative chunk coordinates without a doubled
// band at the origin.
func WorldToChunk(pos Vec2i, size int) ChunkKey {
	return ChunkKey{
		CX: mathx.FloorDiv(pos.X, size),
		CY: mathx.FloorDiv(pos.Y, size),
	}
}

// ChunkToLocal maps a world position to its offset inside chunk k,
// clamped into [0, size-1].
func ChunkToLocal(pos Vec2i, k ChunkKey, size int) Vec2i {
	return Vec2i{
		X: mathx.Clamp(pos.X-k.CX*size, 0, size-1),
		Y: mathx.Clamp(pos.Y-k.CY*size, 0, size-1),
	}
}

// Origin returns the world position of the chunk's (0,0) tile.
func (k ChunkKey) Origin(size int) Vec2i {
	return Vec2i{X: k.CX * size, Y: k.CY * size}
}

// Contains reports whether a world position falls inside chunk k. Shared
// by lifecycle dependents so each does not reimplement the math.
func (k ChunkKey) Contains(pos Vec2i, size int) bool {
	return WorldToChunk(pos, size) == k
}
