package atlas

import (
	"testing"

	"wildmarch/internal/sim/tuning"
	"wildmarch/internal/sim/world"
)

func TestChunkedMapStreams(t *testing.T) {
	s := world.NewStreamer(42, tuning.Default(), nil, nil)
	a := New(nil)
	a.RegisterChunked("overworld", s)

	if err := a.Step("overworld", world.Vec2i{X: 0, Y: 0}); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s.ActiveCount() != 49 {
		t.Fatalf("active = %d, want 49", s.ActiveCount())
	}

	tile, err := a.GetTile("overworld", world.Vec2i{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("get tile: %v", err)
	}
	tile.Glyph = "@"
	if err := a.SetTile("overworld", world.Vec2i{X: 5, Y: 5}, tile); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	got, _ := a.GetTile("overworld", world.Vec2i{X: 5, Y: 5})
	if got != tile {
		t.Fatal("write through atlas did not land in the streamer")
	}
}

func TestStaticMapBypassesStreaming(t *testing.T) {
	floor := world.Tile{Type: "floor", Walkable: true, Transparent: true, Glyph: "."}
	g := NewStaticGrid(10, 8, floor)
	a := New(nil)
	a.RegisterStatic("dungeon_1", g)

	// Movement on a static map never touches a streamer.
	if err := a.Step("dungeon_1", world.Vec2i{X: 4, Y: 4}); err != nil {
		t.Fatalf("step: %v", err)
	}

	tile, err := a.GetTile("dungeon_1", world.Vec2i{X: 3, Y: 2})
	if err != nil {
		t.Fatalf("get tile: %v", err)
	}
	if tile != floor {
		t.Fatalf("tile = %+v, want fill", tile)
	}

	door := world.Tile{Type: "door", Walkable: true, Transparent: false, Glyph: "+"}
	if err := a.SetTile("dungeon_1", world.Vec2i{X: 3, Y: 2}, door); err != nil {
		t.Fatalf("set tile: %v", err)
	}
	got, _ := a.GetTile("dungeon_1", world.Vec2i{X: 3, Y: 2})
	if got != door {
		t.Fatal("static grid write lost")
	}
}

func TestStaticGridClampsAccess(t *testing.T) {
	g := NewStaticGrid(4, 4, world.Tile{Type: "floor", Glyph: "."})
	edge := world.Tile{Type: "wall", Glyph: "#"}
	g.Set(world.Vec2i{X: 3, Y: 3}, edge)

	if got := g.At(world.Vec2i{X: 99, Y: 99}); got != edge {
		t.Fatalf("out-of-range read = %+v, want clamped corner", got)
	}
}

func TestUnknownMapErrors(t *testing.T) {
	a := New(nil)
	if _, err := a.GetTile("nope", world.Vec2i{}); err == nil {
		t.Fatal("want error for unknown map")
	}
	if err := a.Step("nope", world.Vec2i{}); err == nil {
		t.Fatal("want error for unknown map")
	}
}
