package vfs

import "time"

// Snapshot is the persisted form of the store: the whole tree plus the
// corruption flag, overwritten after every mutation.
type Snapshot struct {
	Root      *Node     `json:"root"`
	Corrupted bool      `json:"corrupted"`
	SavedAt   time.Time `json:"saved_at"`
}

// Persister stores the single snapshot blob under a fixed key.
//
// Save must complete (or fail) before returning and must not retain the
// snapshot; the store calls it while holding its write lock. Load returns
// (nil, nil) when no snapshot exists yet.
type Persister interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}
