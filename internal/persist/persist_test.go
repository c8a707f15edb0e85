package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirageos/backend/internal/vfs"
)

func sampleSnapshot() *vfs.Snapshot {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	return &vfs.Snapshot{
		Root:      vfs.DefaultTree(now),
		Corrupted: true,
		SavedAt:   now,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(sampleSnapshot()))

	loaded, err := fs.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.Corrupted)
	assert.Equal(t, "/", loaded.Root.Path)
	welcome := loaded.Root.Children["Documents"].Children["welcome.txt"]
	require.NotNil(t, welcome)
	assert.Equal(t, "/Documents/welcome.txt", welcome.Path)
}

func TestFileStoreMissingSnapshot(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))

	loaded, err := fs.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded, "a missing snapshot is not an error")
}

func TestFileStoreCorruptBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snap.json")
	fs := NewFileStore(path)

	require.NoError(t, fs.Save(sampleSnapshot()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	fs := NewFileStore(path)

	first := sampleSnapshot()
	first.Corrupted = false
	require.NoError(t, fs.Save(first))
	require.NoError(t, fs.Save(sampleSnapshot()))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Corrupted, "last writer wins")
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	loaded, err := m.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, m.Save(sampleSnapshot()))
	loaded, err = m.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.Corrupted)
}
