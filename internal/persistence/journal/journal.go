// Package journal appends chunk lifecycle events to hourly-rotated,
// zstd-compressed JSONL files for offline diagnostics. It never feeds
// back into generation.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"wildmarch/internal/sim/world"
)

type Writer struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewWriter(baseDir, prefix string) *Writer {
	return &Writer{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	dir := filepath.Dir(w.pathForHour(hour))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *Writer) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *Writer) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// ChunkEvent is one journal line.
type ChunkEvent struct {
	AtUnixMs int64  `json:"at_unix_ms"`
	Event    string `json:"event"` // "chunk_loaded" | "chunk_unloaded"
	CX       int    `json:"cx"`
	CY       int    `json:"cy"`
}

// ChunkJournal adapts a Writer into a streamer lifecycle observer.
type ChunkJournal struct{ w *Writer }

func NewChunkJournal(dataDir string) *ChunkJournal {
	return &ChunkJournal{w: NewWriter(filepath.Join(dataDir, "chunks"), "chunks")}
}

func (j *ChunkJournal) ChunkLoaded(k world.ChunkKey) {
	_ = j.w.Write(ChunkEvent{AtUnixMs: time.Now().UnixMilli(), Event: "chunk_loaded", CX: k.CX, CY: k.CY})
}

func (j *ChunkJournal) ChunkUnloaded(k world.ChunkKey) {
	_ = j.w.Write(ChunkEvent{AtUnixMs: time.Now().UnixMilli(), Event: "chunk_unloaded", CX: k.CX, CY: k.CY})
}

func (j *ChunkJournal) Close() error { return j.w.Close() }
