// Package persist implements snapshot persistence for the virtual file tree.
//
// The whole tree is one serialized blob under a fixed key: a single file on
// the host. The store overwrites it after every mutation (write-through,
// last-writer-wins); an absent or unparseable blob falls back to the default
// tree at startup.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/mirageos/backend/internal/vfs"
)

// FileStore persists the snapshot as a JSON blob at a fixed path.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed persister at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the snapshot. Returns (nil, nil) when no snapshot
// has been written yet.
func (f *FileStore) Load() (*vfs.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap vfs.Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save encodes and atomically replaces the snapshot: write to a temp file in
// the same directory, then rename over the target so a crash mid-write never
// leaves a truncated blob.
func (f *FileStore) Save(snap *vfs.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Memory is an in-process persister for tests and ephemeral runs.
type Memory struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemory creates an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{}
}

// Load decodes the stored blob, (nil, nil) when nothing was saved.
func (m *Memory) Load() (*vfs.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return nil, nil
	}
	var snap vfs.Snapshot
	if err := sonic.Unmarshal(m.blob, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save encodes the snapshot into the in-memory blob.
func (m *Memory) Save(snap *vfs.Snapshot) error {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blob = data
	m.mu.Unlock()
	return nil
}
