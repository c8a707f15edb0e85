package vfs

import (
	"math/rand"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/shared/paths"
)

// jsonPersister round-trips every snapshot through the real JSON encoding, so
// reload tests see exactly what a file-backed persister would hand back.
type jsonPersister struct {
	blob []byte
}

func (j *jsonPersister) Load() (*Snapshot, error) {
	if j.blob == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := sonic.Unmarshal(j.blob, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (j *jsonPersister) Save(snap *Snapshot) error {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return err
	}
	j.blob = data
	return nil
}

func TestEncodedReloadAcceptsInsertsEverywhere(t *testing.T) {
	p := &jsonPersister{}
	s := NewStore(p, logging.Nop())
	require.True(t, s.CreateDirectory("/Documents", "Empty"))

	restored := NewStore(p, logging.Nop())
	checkInvariants(t, restored.Root())

	// Every directory that came back from the blob, the seeded-empty ones
	// included, must accept a new child.
	var dirs []string
	restored.Root().Walk(func(n *Node) {
		if n.IsDir() && !paths.IsProtected(n.Path) {
			dirs = append(dirs, n.Path)
		}
	})
	require.NotEmpty(t, dirs)
	for _, dir := range dirs {
		assert.True(t, restored.CreateFile(dir, "added.txt", "hello"),
			"insert into %s after reload", dir)
	}

	content, ok := restored.ReadFile("/Downloads/added.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", content)
	checkInvariants(t, restored.Root())
}

func TestEncodedReloadAcceptsStructuralMutations(t *testing.T) {
	p := &jsonPersister{}
	s := NewStore(p, logging.Nop())
	require.True(t, s.WriteFile("/Documents/welcome.txt", "persisted"))

	restored := NewStore(p, logging.Nop())

	require.True(t, restored.MoveNode("/Documents/welcome.txt", "/Downloads"))
	require.True(t, restored.CopyNode("/Desktop/readme.txt", "/Downloads"))
	require.True(t, restored.CreateDirectory("/Downloads", "Sub"))
	require.True(t, restored.RenameNode("/Downloads/Sub", "Renamed"))

	content, ok := restored.ReadFile("/Downloads/welcome.txt")
	require.True(t, ok)
	assert.Equal(t, "persisted", content)
	checkInvariants(t, restored.Root())
}

func TestEncodedReloadSurvivesCorruption(t *testing.T) {
	p := &jsonPersister{}
	s := NewStore(p, logging.Nop())
	require.True(t, s.CreateDirectory("/Documents", "Empty"))

	restored := NewStore(p, logging.Nop()).WithRand(rand.New(rand.NewSource(3)))
	restored.Corrupt()

	assert.True(t, restored.Corrupted())
	checkInvariants(t, restored.Root())
}
