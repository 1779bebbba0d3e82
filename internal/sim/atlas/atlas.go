// Package atlas routes tile access across the session's maps. The
// overworld runs in chunk mode behind a streamer; dungeon floors are
// fixed-size grids produced elsewhere and bypass streaming entirely.
package atlas

import (
	"fmt"
	"log"

	"wildmarch/internal/sim/world"
)

type Map struct {
	ID      string
	Chunked bool

	streamer *world.Streamer
	grid     *StaticGrid
}

// StaticGrid is a non-chunked map: a dungeon floor handed over by the
// (external) floor generator.
type StaticGrid struct {
	W, H  int
	Tiles []world.Tile
}

func NewStaticGrid(w, h int, fill world.Tile) *StaticGrid {
	g := &StaticGrid{W: w, H: h, Tiles: make([]world.Tile, w*h)}
	for i := range g.Tiles {
		g.Tiles[i] = fill
	}
	return g
}

func (g *StaticGrid) clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

func (g *StaticGrid) At(pos world.Vec2i) world.Tile {
	return g.Tiles[g.clamp(pos.X, g.W)+g.clamp(pos.Y, g.H)*g.W]
}

func (g *StaticGrid) Set(pos world.Vec2i, t world.Tile) {
	g.Tiles[g.clamp(pos.X, g.W)+g.clamp(pos.Y, g.H)*g.W] = t
}

type Atlas struct {
	maps   map[string]*Map
	logger *log.Logger
}

func New(logger *log.Logger) *Atlas {
	return &Atlas{maps: map[string]*Map{}, logger: logger}
}

// RegisterChunked enables chunk mode for a map, backed by the streamer.
func (a *Atlas) RegisterChunked(id string, s *world.Streamer) *Map {
	m := &Map{ID: id, Chunked: true, streamer: s}
	a.maps[id] = m
	return m
}

// RegisterStatic registers a non-chunked map.
func (a *Atlas) RegisterStatic(id string, g *StaticGrid) *Map {
	m := &Map{ID: id, grid: g}
	a.maps[id] = m
	return m
}

func (a *Atlas) Lookup(id string) (*Map, bool) {
	m, ok := a.maps[id]
	return m, ok
}

func (a *Atlas) GetTile(mapID string, pos world.Vec2i) (world.Tile, error) {
	m, ok := a.maps[mapID]
	if !ok {
		return world.Tile{}, fmt.Errorf("atlas: unknown map %q", mapID)
	}
	if m.Chunked {
		return m.streamer.GetTile(pos), nil
	}
	return m.grid.At(pos), nil
}

func (a *Atlas) SetTile(mapID string, pos world.Vec2i, t world.Tile) error {
	m, ok := a.maps[mapID]
	if !ok {
		return fmt.Errorf("atlas: unknown map %q", mapID)
	}
	if m.Chunked {
		m.streamer.SetTile(pos, t)
		return nil
	}
	m.grid.Set(pos, t)
	return nil
}

// Step reports the player's position after a movement update. Only
// chunk-mode maps stream; static maps are a no-op.
func (a *Atlas) Step(mapID string, player world.Vec2i) error {
	m, ok := a.maps[mapID]
	if !ok {
		return fmt.Errorf("atlas: unknown map %q", mapID)
	}
	if m.Chunked {
		m.streamer.UpdateActive(player)
	}
	return nil
}

func (m *Map) Streamer() *world.Streamer { return m.streamer }
