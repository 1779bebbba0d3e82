package world

import (
	"log"
	"sort"
)

// LifecycleObserver receives chunk lifecycle notifications. Callbacks run
// synchronously on the simulation goroutine, during the UpdateActive
// call that triggered them, so dependent cleanup finishes before the
// caller's movement step returns.
type LifecycleObserver interface {
	ChunkLoaded(k ChunkKey)
	ChunkUnloaded(k ChunkKey)
}

// Spawn is an ephemeral resource (enemy, structure, hazard) a dependent
// subsystem attached to a chunk, tagged with the chunk that produced it.
type Spawn struct {
	ID          string
	Kind        string
	Pos         Vec2i
	SourceChunk ChunkKey
}

// SpawnRegistry is the reusable lifecycle dependent: it tracks spawns by
// id and sweeps everything tagged with a chunk when that chunk unloads.
// Reactivation does not respawn swept entries; per-visit content is
// consumed, and re-seeding is the owning subsystem's call.
type SpawnRegistry struct {
	name   string
	spawns map[string]Spawn
	logger *log.Logger

	purged int // lifetime count, diagnostics
}

func NewSpawnRegistry(name string, logger *log.Logger) *SpawnRegistry {
	return &SpawnRegistry{
		name:   name,
		spawns: map[string]Spawn{},
		logger: logger,
	}
}

func (r *SpawnRegistry) Track(sp Spawn) {
	r.spawns[sp.ID] = sp
}

func (r *SpawnRegistry) Has(id string) bool {
	_, ok := r.spawns[id]
	return ok
}

func (r *SpawnRegistry) Len() int { return len(r.spawns) }

func (r *SpawnRegistry) PurgedTotal() int { return r.purged }

func (r *SpawnRegistry) ChunkLoaded(ChunkKey) {}

func (r *SpawnRegistry) ChunkUnloaded(k ChunkKey) {
	removed := r.Purge(k)
	if len(removed) > 0 && r.logger != nil {
		r.logger.Printf("%s: purged %d spawns for chunk (%d,%d): %v", r.name, len(removed), k.CX, k.CY, removed)
	}
}

// Purge removes every spawn whose source chunk is k and returns the
// removed ids in deterministic order. Pure bookkeeping sweep; no chunk
// data is touched.
func (r *SpawnRegistry) Purge(k ChunkKey) []string {
	var removed []string
	for id, sp := range r.spawns {
		if sp.SourceChunk == k {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	for _, id := range removed {
		delete(r.spawns, id)
	}
	r.purged += len(removed)
	return removed
}
