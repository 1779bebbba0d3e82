package world

import (
	"fmt"
	"log"
	"sort"

	"wildmarch/internal/persistence/snapshot"
	"wildmarch/internal/sim/catalogs"
	"wildmarch/internal/sim/encoding"
	"wildmarch/internal/sim/tuning"
)

// Streamer owns the two chunk maps: the active set (resident for
// gameplay) and the long-term cache (every chunk generated this session,
// evicted or not, so previously-mutated terrain is never regenerated).
//
// Accessed only from the simulation goroutine. The streamer is the sole
// mutator of both maps; everything else reads tiles or writes through
// SetTile.
type Streamer struct {
	seed int64
	cfg  tuning.Config
	gen  *Generator

	active map[ChunkKey]*Chunk
	cache  map[ChunkKey]*Chunk

	observers []LifecycleObserver
	logger    *log.Logger
}

func NewStreamer(seed int64, cfg tuning.Config, biomes *catalogs.BiomeCatalog, logger *log.Logger) *Streamer {
	return &Streamer{
		seed:   seed,
		cfg:    cfg,
		gen:    NewGenerator(seed, cfg, biomes),
		active: map[ChunkKey]*Chunk{},
		cache:  map[ChunkKey]*Chunk{},
		logger: logger,
	}
}

func (s *Streamer) Seed() int64           { return s.seed }
func (s *Streamer) ChunkSize() int        { return s.cfg.ChunkSize }
func (s *Streamer) Config() tuning.Config { return s.cfg }

// Register adds a lifecycle observer. Observers are invoked
// synchronously, in registration order, during load and unload.
func (s *Streamer) Register(o LifecycleObserver) {
	s.observers = append(s.observers, o)
}

// GetChunk returns the single instance for k: the active one if
// resident, a reactivated cached one, or a freshly generated chunk.
// Never returns nil; generation always succeeds.
func (s *Streamer) GetChunk(k ChunkKey) *Chunk {
	if ch, ok := s.active[k]; ok {
		return ch
	}
	if ch, ok := s.cache[k]; ok {
		ch.Loaded = true
		s.active[k] = ch
		s.notifyLoaded(k)
		return ch
	}
	ch := s.gen.Generate(k)
	ch.Loaded = true
	s.cache[k] = ch
	s.active[k] = ch
	s.notifyLoaded(k)
	return ch
}

// GetTile reads the tile at a world position, resolving the chunk
// through the cache so the identity invariant holds.
func (s *Streamer) GetTile(pos Vec2i) Tile {
	k := WorldToChunk(pos, s.cfg.ChunkSize)
	local := ChunkToLocal(pos, k, s.cfg.ChunkSize)
	return s.GetChunk(k).At(local.X, local.Y)
}

// SetTile is the sole mutation surface for terrain. The write lands in
// the one shared chunk instance, so active set and cache never diverge.
func (s *Streamer) SetTile(pos Vec2i, t Tile) {
	k := WorldToChunk(pos, s.cfg.ChunkSize)
	local := ChunkToLocal(pos, k, s.cfg.ChunkSize)
	ch := s.GetChunk(k)
	prev := ch.At(local.X, local.Y)
	ch.Set(local.X, local.Y, t)
	if prev != t {
		ch.Mutated = true
	}
}

// UpdateActive is called once per movement step with the player's world
// position. It loads the square window of chunks within LoadRadius
// (Chebyshev, inclusive) of the player's chunk, then evicts active
// chunks whose Euclidean distance exceeds UnloadRadius. The wider,
// circular unload margin is deliberate: chunks leave later than they
// arrive, so the boundary does not thrash. All loads complete before
// any eviction runs.
func (s *Streamer) UpdateActive(player Vec2i) {
	center := WorldToChunk(player, s.cfg.ChunkSize)

	r := s.cfg.LoadRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			s.GetChunk(ChunkKey{CX: center.CX + dx, CY: center.CY + dy})
		}
	}

	ur2 := s.cfg.UnloadRadius * s.cfg.UnloadRadius
	var evict []ChunkKey
	for k := range s.active {
		dx := k.CX - center.CX
		dy := k.CY - center.CY
		if dx*dx+dy*dy > ur2 {
			evict = append(evict, k)
		}
	}
	sortKeys(evict)
	for _, k := range evict {
		s.Unload(k)
	}
}

// Unload evicts a chunk from the active set. The chunk stays in the
// long-term cache with its mutations intact.
func (s *Streamer) Unload(k ChunkKey) {
	ch, ok := s.active[k]
	if !ok {
		return
	}
	delete(s.active, k)
	ch.Loaded = false
	s.notifyUnloaded(k)
}

// Clear empties both maps. New-game reset only: during normal play this
// would break regeneration of already-mutated chunks, which is
// acceptable solely because a new game brings a new seed.
func (s *Streamer) Clear() {
	s.active = map[ChunkKey]*Chunk{}
	s.cache = map[ChunkKey]*Chunk{}
}

// Reset clears everything and rebuilds the generator for a new seed.
func (s *Streamer) Reset(seed int64) {
	s.Clear()
	s.seed = seed
	s.gen = NewGenerator(seed, s.cfg, s.gen.biomes)
	if s.logger != nil {
		s.logger.Printf("streamer reset: seed %d", seed)
	}
}

// NoteSpawn records an ephemeral resource id on the chunk that produced
// it, for bookkeeping and diagnostics.
func (s *Streamer) NoteSpawn(k ChunkKey, id string) {
	ch := s.GetChunk(k)
	ch.Spawned = append(ch.Spawned, id)
}

func (s *Streamer) ActiveCount() int { return len(s.active) }
func (s *Streamer) CachedCount() int { return len(s.cache) }

func (s *Streamer) IsActive(k ChunkKey) bool {
	_, ok := s.active[k]
	return ok
}

func (s *Streamer) IsCached(k ChunkKey) bool {
	_, ok := s.cache[k]
	return ok
}

// ActiveKeys returns the active set in deterministic order.
func (s *Streamer) ActiveKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.active))
	for k := range s.active {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// MutatedCount reports how many cached chunks carry player mutations.
func (s *Streamer) MutatedCount() int {
	n := 0
	for _, ch := range s.cache {
		if ch.Mutated {
			n++
		}
	}
	return n
}

// Export snapshots every chunk in the long-term cache, not just the
// active set, so mutations the player walked away from are kept.
func (s *Streamer) Export() []snapshot.ChunkV1 {
	keys := make([]ChunkKey, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	sortKeys(keys)

	out := make([]snapshot.ChunkV1, 0, len(keys))
	for _, k := range keys {
		ch := s.cache[k]
		var palette []snapshot.TileV1
		index := map[Tile]uint16{}
		ids := make([]uint16, len(ch.Tiles))
		for i, t := range ch.Tiles {
			id, ok := index[t]
			if !ok {
				id = uint16(len(palette))
				index[t] = id
				palette = append(palette, snapshot.TileV1{
					Type:        t.Type,
					Walkable:    t.Walkable,
					Transparent: t.Transparent,
					Glyph:       t.Glyph,
					Resource:    t.Resource,
				})
			}
			ids[i] = id
		}
		out = append(out, snapshot.ChunkV1{
			CX:      k.CX,
			CY:      k.CY,
			Mutated: ch.Mutated,
			Palette: palette,
			Tiles:   encoding.EncodeRLE(ids),
		})
	}
	return out
}

// Import clears the cache and repopulates it from a save payload without
// activating anything: the player's restored position decides which
// chunks go active on the next UpdateActive.
func (s *Streamer) Import(chunks []snapshot.ChunkV1) error {
	size := s.cfg.ChunkSize

	// Decode everything before touching the cache so a corrupt payload
	// cannot leave a half-cleared session behind.
	decoded := make([]*Chunk, 0, len(chunks))
	for _, sc := range chunks {
		ids, err := encoding.DecodeRLE(sc.Tiles, size*size)
		if err != nil {
			return fmt.Errorf("chunk (%d,%d): %w", sc.CX, sc.CY, err)
		}
		ch := newChunk(ChunkKey{CX: sc.CX, CY: sc.CY}, size)
		for i, id := range ids {
			if int(id) >= len(sc.Palette) {
				return fmt.Errorf("chunk (%d,%d): palette index %d out of range", sc.CX, sc.CY, id)
			}
			t := sc.Palette[id]
			ch.Tiles[i] = Tile{
				Type:        t.Type,
				Walkable:    t.Walkable,
				Transparent: t.Transparent,
				Glyph:       t.Glyph,
				Resource:    t.Resource,
			}
		}
		ch.Mutated = sc.Mutated
		ch.dirty = true
		_ = ch.Digest()
		decoded = append(decoded, ch)
	}

	s.Clear()
	for _, ch := range decoded {
		s.cache[ch.Key] = ch
	}
	if s.logger != nil {
		s.logger.Printf("imported %d chunks into the long-term cache", len(decoded))
	}
	return nil
}

func (s *Streamer) notifyLoaded(k ChunkKey) {
	for _, o := range s.observers {
		o.ChunkLoaded(k)
	}
}

func (s *Streamer) notifyUnloaded(k ChunkKey) {
	for _, o := range s.observers {
		o.ChunkUnloaded(k)
	}
}

func sortKeys(keys []ChunkKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CY < keys[j].CY
	})
}
