package vfs

import (
	"encoding/base64"
	"sort"
	"time"

	"github.com/mirageos/backend/internal/shared/paths"
)

// Kind discriminates the node union.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// BinaryPrefix marks file content as base64-encoded binary. Everything else
// is treated as plain text.
const BinaryPrefix = "base64:"

// Node is one entry in the virtual file tree: a file with opaque string
// content, or a directory with named children. The root is a directory with
// empty name and path "/".
type Node struct {
	Kind     Kind             `json:"kind"`
	Name     string           `json:"name"`
	Path     string           `json:"path"`
	Content  string           `json:"content,omitempty"`
	Size     int64            `json:"size"`
	Modified time.Time        `json:"modified"`
	Children map[string]*Node `json:"children,omitempty"`
}

// NewFile creates a file node under parentPath.
func NewFile(parentPath, name, content string, now time.Time) *Node {
	return &Node{
		Kind:     KindFile,
		Name:     name,
		Path:     paths.Join(parentPath, name),
		Content:  content,
		Size:     ContentSize(content),
		Modified: now,
	}
}

// NewDirectory creates an empty directory node under parentPath.
func NewDirectory(parentPath, name string, now time.Time) *Node {
	return &Node{
		Kind:     KindDirectory,
		Name:     name,
		Path:     paths.Join(parentPath, name),
		Modified: now,
		Children: make(map[string]*Node),
	}
}

// newRoot creates an empty root directory.
func newRoot(now time.Time) *Node {
	return &Node{
		Kind:     KindDirectory,
		Path:     paths.Root,
		Modified: now,
		Children: make(map[string]*Node),
	}
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// ContentSize derives a file size from its content: byte length for plain
// text, a decoded-length estimate for base64-marked binary. Directory size
// is 0 by convention and never computed from here.
func ContentSize(content string) int64 {
	if len(content) >= len(BinaryPrefix) && content[:len(BinaryPrefix)] == BinaryPrefix {
		return int64(base64.StdEncoding.DecodedLen(len(content) - len(BinaryPrefix)))
	}
	return int64(len(content))
}

// Clone returns a full deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	dup := *n
	if n.Children != nil {
		dup.Children = make(map[string]*Node, len(n.Children))
		for name, child := range n.Children {
			dup.Children[name] = child.Clone()
		}
	}
	return &dup
}

// normalize re-allocates children maps lost to omitempty when the snapshot
// was encoded. Every directory must carry a non-nil map before mutations run.
func (n *Node) normalize() {
	if n.IsDir() && n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	for _, child := range n.Children {
		child.normalize()
	}
}

// Rebase moves the subtree rooted at n under parentPath, rewriting its own
// path and every descendant's path so the path-consistency invariant holds.
func (n *Node) Rebase(parentPath string) {
	n.Path = paths.Join(parentPath, n.Name)
	for _, child := range n.Children {
		child.Rebase(n.Path)
	}
}

// Walk visits n and every descendant in depth-first order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// ChildNames returns the node's child names sorted lexicographically. The
// children map itself carries no iteration-order guarantee.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
