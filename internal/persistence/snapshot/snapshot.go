package snapshot

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Version is bumped whenever the payload layout changes. Readers reject
// unknown versions instead of guessing.
const Version = 1

type Header struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	Seed      int64  `json:"seed"`
	ChunkSize int    `json:"chunk_size"`
	SavedAt   int64  `json:"saved_at_unix"`
}

// SaveV1 is the persisted payload for the chunk subsystem: every chunk in
// the long-term cache, active or not, so mutations the player walked away
// from are kept.
type SaveV1 struct {
	Header Header    `json:"header"`
	Chunks []ChunkV1 `json:"chunks"`
}

// ChunkV1 stores the tile grid as a per-chunk palette plus run-length
// encoded palette indices; chunks are dominated by runs of one biome.
type ChunkV1 struct {
	CX      int      `json:"cx"`
	CY      int      `json:"cy"`
	Mutated bool     `json:"mutated,omitempty"`
	Palette []TileV1 `json:"palette"`
	Tiles   string   `json:"tiles_rle"`
}

type TileV1 struct {
	Type        string `json:"type"`
	Walkable    bool   `json:"walkable"`
	Transparent bool   `json:"transparent"`
	Glyph       string `json:"glyph"`
	Resource    string `json:"resource,omitempty"`
}

// Digest hashes the full payload deterministically (chunks are expected to
// be sorted by coordinate by the exporter).
func (s SaveV1) Digest() string {
	h := sha256.New()
	var tmp [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(v)))
		h.Write(tmp[:])
	}
	writeStr := func(v string) {
		writeInt(len(v))
		h.Write([]byte(v))
	}
	writeBool := func(v bool) {
		if v {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	writeInt(int(s.Header.Seed))
	writeInt(s.Header.ChunkSize)
	for _, ch := range s.Chunks {
		writeInt(ch.CX)
		writeInt(ch.CY)
		for _, t := range ch.Palette {
			writeStr(t.Type)
			writeBool(t.Walkable)
			writeBool(t.Transparent)
			writeStr(t.Glyph)
			writeStr(t.Resource)
		}
		writeStr(ch.Tiles)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func Write(path string, save SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	// Plain-text header line first so tooling can identify a save without
	// decoding the gob body.
	hb, _ := json.Marshal(save.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&save); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func Read(path string) (SaveV1, error) {
	var save SaveV1
	f, err := os.Open(path)
	if err != nil {
		return save, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return save, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&save); err != nil {
		return save, fmt.Errorf("gob decode: %w", err)
	}
	if save.Header.Version != Version {
		return save, fmt.Errorf("unsupported save version %d (want %d)", save.Header.Version, Version)
	}
	return save, nil
}
