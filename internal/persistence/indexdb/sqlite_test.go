package indexdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *SaveIndex {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestLatestEmpty(t *testing.T) {
	ix := openTest(t)
	_, ok, err := ix.Latest()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordAndLatest(t *testing.T) {
	ix := openTest(t)

	require.NoError(t, ix.RecordSave(SaveRow{
		SessionID: "s1", Path: "/tmp/s1.save.zst", Seed: 42, ChunkSize: 32,
		Chunks: 49, Mutated: 2, Digest: "aaa",
	}))
	require.NoError(t, ix.RecordSave(SaveRow{
		SessionID: "s2", Path: "/tmp/s2.save.zst", Seed: 42, ChunkSize: 32,
		Chunks: 98, Mutated: 5, Digest: "bbb",
	}))

	row, ok, err := ix.Latest()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s2", row.SessionID)
	assert.Equal(t, 98, row.Chunks)
	assert.Equal(t, int64(42), row.Seed)
	assert.NotEmpty(t, row.CreatedAt)

	rows, err := ix.List()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0].SessionID)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
