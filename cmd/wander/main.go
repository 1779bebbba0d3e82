package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"wildmarch/internal/persistence/indexdb"
	"wildmarch/internal/persistence/journal"
	"wildmarch/internal/persistence/snapshot"
	"wildmarch/internal/sim/atlas"
	"wildmarch/internal/sim/catalogs"
	"wildmarch/internal/sim/tuning"
	"wildmarch/internal/sim/world"
	"wildmarch/internal/sim/world/logic/mathx"
)

func main() {
	var (
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting a fresh session)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		steps      = flag.Int("steps", 200, "movement steps to simulate")
		stride     = flag.Int("stride", 8, "tiles moved per step")
		loadLatest = flag.Bool("load_latest_save", false, "resume from the newest indexed save")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite save index")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[wander] ", log.LstdFlags|log.Lmicroseconds)

	cfg := tuning.LoadOrDefault(filepath.Join(*configDir, "tuning.yaml"), logger)
	biomes := catalogs.LoadBiomesOrDefault(filepath.Join(*configDir, "biomes.yaml"), logger)

	var ix *indexdb.SaveIndex
	if !*disableDB {
		opened, err := indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Printf("save index unavailable: %v (continuing without)", err)
		} else {
			ix = opened
			defer ix.Close()
		}
	}

	sessionID := uuid.NewString()
	streamer := world.NewStreamer(*seed, cfg, biomes, logger)

	if *loadLatest && ix != nil {
		if err := resume(streamer, ix, cfg, logger); err != nil {
			logger.Printf("resume: %v (starting fresh)", err)
		}
	}

	chunkJournal := journal.NewChunkJournal(*dataDir)
	defer chunkJournal.Close()
	streamer.Register(chunkJournal)

	hazards := world.NewSpawnRegistry("hazards", logger)
	streamer.Register(hazards)

	maps := atlas.New(logger)
	maps.RegisterChunked("overworld", streamer)

	walkSeed := streamer.Seed()
	player := world.Vec2i{}
	harvested := 0
	spawnSeq := 0

	for step := 0; step < *steps; step++ {
		switch mathx.Hash2(walkSeed+0x77, step, 0) % 4 {
		case 0:
			player.X += *stride
		case 1:
			player.X -= *stride
		case 2:
			player.Y += *stride
		default:
			player.Y -= *stride
		}

		if err := maps.Step("overworld", player); err != nil {
			logger.Fatalf("step: %v", err)
		}

		t, err := maps.GetTile("overworld", player)
		if err != nil {
			logger.Fatalf("get tile: %v", err)
		}
		if t.Resource != "" {
			t.Resource = ""
			if err := maps.SetTile("overworld", player, t); err != nil {
				logger.Fatalf("set tile: %v", err)
			}
			harvested++
		}

		if step%7 == 0 {
			k := world.WorldToChunk(player, streamer.ChunkSize())
			id := fmt.Sprintf("hz_%04d", spawnSeq)
			hazards.Track(world.Spawn{
				ID:          id,
				Kind:        "ember_wisp",
				Pos:         player,
				SourceChunk: k,
			})
			streamer.NoteSpawn(k, id)
			spawnSeq++
		}
	}

	save := snapshot.SaveV1{
		Header: snapshot.Header{
			Version:   snapshot.Version,
			SessionID: sessionID,
			Seed:      streamer.Seed(),
			ChunkSize: streamer.ChunkSize(),
			SavedAt:   time.Now().Unix(),
		},
		Chunks: streamer.Export(),
	}
	savePath := filepath.Join(*dataDir, "saves", sessionID+".save.zst")
	if err := snapshot.Write(savePath, save); err != nil {
		logger.Fatalf("write save: %v", err)
	}
	if ix != nil {
		err := ix.RecordSave(indexdb.SaveRow{
			SessionID: sessionID,
			Path:      savePath,
			Seed:      save.Header.Seed,
			ChunkSize: save.Header.ChunkSize,
			Chunks:    len(save.Chunks),
			Mutated:   streamer.MutatedCount(),
			Digest:    save.Digest(),
		})
		if err != nil {
			logger.Printf("index save: %v", err)
		}
	}

	logger.Printf("session %s done: pos=(%d,%d) active=%d cached=%d mutated=%d harvested=%d spawns_purged=%d save=%s",
		sessionID, player.X, player.Y,
		streamer.ActiveCount(), streamer.CachedCount(), streamer.MutatedCount(),
		harvested, hazards.PurgedTotal(), savePath)
}

// resume restores seed and long-term cache from the newest save. The
// seed is applied before chunk import so unvisited regions regenerate
// identically; nothing goes active until the first movement step.
func resume(s *world.Streamer, ix *indexdb.SaveIndex, cfg tuning.Config, logger *log.Logger) error {
	row, ok, err := ix.Latest()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no saves indexed")
	}
	save, err := snapshot.Read(row.Path)
	if err != nil {
		return err
	}
	if save.Header.ChunkSize != cfg.ChunkSize {
		return fmt.Errorf("save chunk size %d does not match configured %d", save.Header.ChunkSize, cfg.ChunkSize)
	}
	s.Reset(save.Header.Seed)
	if err := s.Import(save.Chunks); err != nil {
		return err
	}
	logger.Printf("resumed session %s: %d chunks (%d mutated), seed %d",
		save.Header.SessionID, len(save.Chunks), row.Mutated, save.Header.Seed)
	return nil
}
