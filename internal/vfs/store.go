package vfs

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/shared/paths"
)

// Observer receives store events for metrics collection.
type Observer interface {
	RecordMutation(op string, ok bool)
	SetCorrupted(corrupted bool)
}

// Store owns the single root of the virtual file tree.
//
// Every mutation deep-copies the whole tree, applies the change to the copy
// and swaps it in atomically; a failed operation leaves the original tree
// untouched. Readers therefore never observe a half-applied edit. Each
// successful swap is written through to the persister.
type Store struct {
	mu        sync.RWMutex
	root      *Node
	corrupted bool
	persister Persister
	logger    *logging.Logger
	observer  Observer
	now       func() time.Time
	rng       *rand.Rand
}

// NewStore creates a store from the persisted snapshot, falling back to the
// built-in default tree when the snapshot is absent or unreadable.
func NewStore(persister Persister, logger *logging.Logger) *Store {
	s := &Store{
		persister: persister,
		logger:    logger,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	snap, err := persister.Load()
	if err != nil || snap == nil || snap.Root == nil || !snap.Root.IsDir() {
		if err != nil {
			logger.Warn("snapshot unreadable, seeding default tree", zap.Error(err))
		}
		s.root = DefaultTree(s.now())
		return s
	}

	s.root = snap.Root
	s.root.normalize()
	s.corrupted = snap.Corrupted
	return s
}

// WithClock overrides the store's time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// WithRand overrides the corruption engine's randomness. Used by tests.
func (s *Store) WithRand(rng *rand.Rand) *Store {
	s.rng = rng
	return s
}

// WithObserver attaches a metrics observer.
func (s *Store) WithObserver(obs Observer) *Store {
	s.observer = obs
	obs.SetCorrupted(s.corrupted)
	return s
}

// NormalizePath exposes absolute-mode path normalization for external
// collaborators.
func (s *Store) NormalizePath(p string) string {
	return paths.Normalize(p)
}

// Corrupted reports the process-wide corruption flag: set by protected-path
// rejections and the corruption engine, cleared only by Reset.
func (s *Store) Corrupted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corrupted
}

// Root returns a deep copy of the whole tree.
func (s *Store) Root() *Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.Clone()
}

// GetNode returns a deep copy of the node at path, traversing segment by
// segment from the root. Returns false if any intermediate segment is
// missing or is a file.
func (s *Store) GetNode(path string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node := lookup(s.root, paths.Normalize(path))
	if node == nil {
		return nil, false
	}
	return node.Clone(), true
}

// GetDirectory is GetNode filtered to directories.
func (s *Store) GetDirectory(path string) (*Node, bool) {
	node, ok := s.GetNode(path)
	if !ok || !node.IsDir() {
		return nil, false
	}
	return node, true
}

// ReadFile returns the content of the file at path.
func (s *Store) ReadFile(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node := lookup(s.root, paths.Normalize(path))
	if node == nil || node.IsDir() {
		return "", false
	}
	return node.Content, true
}

// WriteFile replaces the content of an existing file, recomputing its size
// and bumping its modified time. Rejected under the protected prefix.
func (s *Store) WriteFile(path, content string) bool {
	path = paths.Normalize(path)
	if s.rejectProtected("write", path) {
		return false
	}

	return s.mutate("write", func(root *Node) bool {
		node := lookup(root, path)
		if node == nil || node.IsDir() {
			return false
		}
		node.Content = content
		node.Size = ContentSize(content)
		node.Modified = s.now()
		return true
	})
}

// CreateFile inserts a new file under parentPath. Fails when the parent is
// not a directory or already has a child with that name.
func (s *Store) CreateFile(parentPath, name, content string) bool {
	parentPath = paths.Normalize(parentPath)
	if !validName(name) {
		return false
	}

	return s.mutate("create_file", func(root *Node) bool {
		parent := lookup(root, parentPath)
		if parent == nil || !parent.IsDir() {
			return false
		}
		if _, exists := parent.Children[name]; exists {
			return false
		}
		parent.Children[name] = NewFile(parent.Path, name, content, s.now())
		parent.Modified = s.now()
		return true
	})
}

// CreateDirectory inserts a new empty directory under parentPath.
func (s *Store) CreateDirectory(parentPath, name string) bool {
	parentPath = paths.Normalize(parentPath)
	if !validName(name) {
		return false
	}

	return s.mutate("create_directory", func(root *Node) bool {
		parent := lookup(root, parentPath)
		if parent == nil || !parent.IsDir() {
			return false
		}
		if _, exists := parent.Children[name]; exists {
			return false
		}
		parent.Children[name] = NewDirectory(parent.Path, name, s.now())
		parent.Modified = s.now()
		return true
	})
}

// DeleteNode removes the node at path from its parent directory. Rejected
// under the protected prefix; the root cannot be deleted.
func (s *Store) DeleteNode(path string) bool {
	path = paths.Normalize(path)
	if path == paths.Root {
		return false
	}
	if s.rejectProtected("delete", path) {
		return false
	}

	parentPath, name := paths.Split(path)
	return s.mutate("delete", func(root *Node) bool {
		parent := lookup(root, parentPath)
		if parent == nil || !parent.IsDir() {
			return false
		}
		if _, exists := parent.Children[name]; !exists {
			return false
		}
		delete(parent.Children, name)
		parent.Modified = s.now()
		return true
	})
}

// RenameNode gives the node at path a new name, re-keys it in its parent and
// rewrites every descendant path. Rejected under the protected prefix or on
// a sibling collision.
func (s *Store) RenameNode(path, newName string) bool {
	path = paths.Normalize(path)
	if path == paths.Root || !validName(newName) {
		return false
	}
	if s.rejectProtected("rename", path) {
		return false
	}

	parentPath, name := paths.Split(path)
	return s.mutate("rename", func(root *Node) bool {
		parent := lookup(root, parentPath)
		if parent == nil || !parent.IsDir() {
			return false
		}
		node, exists := parent.Children[name]
		if !exists {
			return false
		}
		if _, collision := parent.Children[newName]; collision && newName != name {
			return false
		}
		delete(parent.Children, name)
		node.Name = newName
		node.Rebase(parent.Path)
		node.Modified = s.now()
		parent.Children[newName] = node
		parent.Modified = s.now()
		return true
	})
}

// MoveNode detaches the node at sourcePath and attaches it under
// newParentPath, rewriting the whole subtree's paths. Rejected when the
// source is protected, the destination has a same-named child, the
// destination is the source's current parent, or the destination lies inside
// the moved subtree.
func (s *Store) MoveNode(sourcePath, newParentPath string) bool {
	sourcePath = paths.Normalize(sourcePath)
	newParentPath = paths.Normalize(newParentPath)
	if sourcePath == paths.Root {
		return false
	}
	if s.rejectProtected("move", sourcePath) {
		return false
	}

	oldParentPath, name := paths.Split(sourcePath)
	return s.mutate("move", func(root *Node) bool {
		oldParent := lookup(root, oldParentPath)
		if oldParent == nil || !oldParent.IsDir() {
			return false
		}
		node, exists := oldParent.Children[name]
		if !exists {
			return false
		}

		if newParentPath == oldParentPath {
			return false
		}
		if newParentPath == sourcePath || paths.IsDescendant(newParentPath, sourcePath) {
			return false
		}

		dest := lookup(root, newParentPath)
		if dest == nil || !dest.IsDir() {
			return false
		}
		if _, collision := dest.Children[name]; collision {
			return false
		}

		delete(oldParent.Children, name)
		node.Rebase(dest.Path)
		dest.Children[name] = node
		oldParent.Modified = s.now()
		dest.Modified = s.now()
		return true
	})
}

// CopyNode deep-duplicates the subtree at sourcePath under
// destParentPath. A name collision is resolved with a " (copy)" suffix
// before the file extension rather than rejected. Fails only when the
// source or destination directory is missing, or the destination lies
// inside the source subtree.
func (s *Store) CopyNode(sourcePath, destParentPath string) bool {
	sourcePath = paths.Normalize(sourcePath)
	destParentPath = paths.Normalize(destParentPath)

	return s.mutate("copy", func(root *Node) bool {
		src := lookup(root, sourcePath)
		if src == nil {
			return false
		}
		if destParentPath == sourcePath || paths.IsDescendant(destParentPath, sourcePath) {
			return false
		}
		dest := lookup(root, destParentPath)
		if dest == nil || !dest.IsDir() {
			return false
		}

		name := paths.CopyName(src.Name, func(candidate string) bool {
			_, taken := dest.Children[candidate]
			return taken
		})

		dup := src.Clone()
		dup.Name = name
		dup.Rebase(dest.Path)
		dup.Modified = s.now()
		dest.Children[name] = dup
		dest.Modified = s.now()
		return true
	})
}

// Reset replaces the whole tree with the built-in default layout and clears
// the corruption flag. The only recovery path after Corrupt.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = DefaultTree(s.now())
	s.corrupted = false
	s.persistLocked()
	if s.observer != nil {
		s.observer.RecordMutation("reset", true)
		s.observer.SetCorrupted(false)
	}
	s.logger.Info("tree reset to defaults")
}

// mutate clones the tree, applies fn to the clone and swaps it in when fn
// succeeds. Write-through persistence happens inside the same critical
// section so the snapshot always matches the in-memory swap.
func (s *Store) mutate(op string, fn func(root *Node) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.root.Clone()
	ok := fn(next)
	if ok {
		s.root = next
		s.persistLocked()
	}

	if s.observer != nil {
		s.observer.RecordMutation(op, ok)
	}
	s.logger.Debug("store mutation", zap.String("op", op), zap.Bool("ok", ok))
	return ok
}

// rejectProtected refuses structural mutation under the protected prefix and
// flips the persistent corruption flag so the tampering attempt is
// observable, even though the mutation itself never happens.
func (s *Store) rejectProtected(op, path string) bool {
	if !paths.IsProtected(path) {
		return false
	}

	s.mu.Lock()
	s.corrupted = true
	s.persistLocked()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.RecordMutation(op, false)
		s.observer.SetCorrupted(true)
	}
	s.logger.Warn("protected subtree mutation rejected",
		zap.String("op", op),
		zap.String("path", path),
	)
	return true
}

// persistLocked writes the current tree through to the persister. Caller
// holds the write lock. A failed write is logged, not surfaced: the
// in-memory swap already happened and stays authoritative.
func (s *Store) persistLocked() {
	snap := &Snapshot{
		Root:      s.root,
		Corrupted: s.corrupted,
		SavedAt:   s.now(),
	}
	if err := s.persister.Save(snap); err != nil {
		s.logger.Error("snapshot write failed", zap.Error(err))
	}
}

// lookup descends from root one segment at a time. Returns nil when a
// segment is missing or the traversal would descend through a file.
func lookup(root *Node, path string) *Node {
	if path == paths.Root {
		return root
	}

	node := root
	for _, seg := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if !node.IsDir() {
			return nil
		}
		child, ok := node.Children[seg]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// validName accepts non-empty child names without path separators.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, "/")
}
