// Package indexdb keeps a small sqlite index of written saves so a
// session can find the newest payload without scanning the data dir.
// The index is a read model only; losing it never loses terrain.
package indexdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

type SaveIndex struct {
	mu sync.Mutex
	db *sql.DB
}

type SaveRow struct {
	ID        int64
	SessionID string
	Path      string
	Seed      int64
	ChunkSize int
	Chunks    int
	Mutated   int
	Digest    string
	CreatedAt string
}

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	path        TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	chunk_size  INTEGER NOT NULL,
	chunks      INTEGER NOT NULL,
	mutated     INTEGER NOT NULL,
	digest      TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS saves_created ON saves(created_at);
`

func Open(path string) (*SaveIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SaveIndex{db: db}, nil
}

func (ix *SaveIndex) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.db.Close()
}

func (ix *SaveIndex) RecordSave(row SaveRow) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	_, err := ix.db.Exec(
		`INSERT INTO saves (session_id, path, seed, chunk_size, chunks, mutated, digest) VALUES (?,?,?,?,?,?,?)`,
		row.SessionID, row.Path, row.Seed, row.ChunkSize, row.Chunks, row.Mutated, row.Digest,
	)
	return err
}

// Latest returns the newest recorded save, ok=false when the index is
// empty.
func (ix *SaveIndex) Latest() (SaveRow, bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	var row SaveRow
	err := ix.db.QueryRow(
		`SELECT id, session_id, path, seed, chunk_size, chunks, mutated, digest, created_at
		 FROM saves ORDER BY id DESC LIMIT 1`,
	).Scan(&row.ID, &row.SessionID, &row.Path, &row.Seed, &row.ChunkSize, &row.Chunks, &row.Mutated, &row.Digest, &row.CreatedAt)
	if err == sql.ErrNoRows {
		return SaveRow{}, false, nil
	}
	if err != nil {
		return SaveRow{}, false, err
	}
	return row, true, nil
}

func (ix *SaveIndex) List() ([]SaveRow, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	rows, err := ix.db.Query(
		`SELECT id, session_id, path, seed, chunk_size, chunks, mutated, digest, created_at
		 FROM saves ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveRow
	for rows.Next() {
		var r SaveRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Path, &r.Seed, &r.ChunkSize, &r.Chunks, &r.Mutated, &r.Digest, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
