// Package paths provides pure path resolution for the virtual file tree.
//
// All tree paths are POSIX-style: absolute, "/"-separated, no trailing slash
// except the root itself. Resolution is purely syntactic — no tree lookup
// ever happens here.
package paths

import (
	"fmt"
	"strings"
)

// Root is the path of the tree root.
const Root = "/"

// Protected is the top-level prefix whose subtree rejects structural mutation.
const Protected = "/System"

// Well-known top-level directories seeded into a fresh tree.
const (
	Desktop   = "/Desktop"
	Documents = "/Documents"
	Downloads = "/Downloads"
	System    = Protected
)

// Resolve normalizes input against cwd. Absolute input ignores cwd; relative
// input accumulates onto cwd's segments. "." is dropped, ".." pops one
// segment and no-ops at the root. Total: never fails, always returns an
// absolute normalized path.
func Resolve(input, cwd string) string {
	var acc []string
	if !strings.HasPrefix(input, "/") {
		acc = split(cwd)
	}

	for _, seg := range strings.Split(input, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(acc) > 0 {
				acc = acc[:len(acc)-1]
			}
		default:
			acc = append(acc, seg)
		}
	}

	return join(acc)
}

// Normalize resolves p in absolute mode.
func Normalize(p string) string {
	return Resolve(p, Root)
}

// IsProtected reports whether p lies on or under the protected prefix.
// p must already be normalized.
func IsProtected(p string) bool {
	return p == Protected || strings.HasPrefix(p, Protected+"/")
}

// Join appends a child name to a normalized parent path.
func Join(parent, name string) string {
	if parent == Root {
		return Root + name
	}
	return parent + "/" + name
}

// Split returns the parent path and base name of a normalized non-root path.
func Split(p string) (parent, name string) {
	idx := strings.LastIndex(p, "/")
	name = p[idx+1:]
	parent = p[:idx]
	if parent == "" {
		parent = Root
	}
	return parent, name
}

// IsDescendant reports whether p lies strictly inside the subtree rooted at
// ancestor. Both paths must be normalized.
func IsDescendant(p, ancestor string) bool {
	if ancestor == Root {
		return p != Root
	}
	return strings.HasPrefix(p, ancestor+"/")
}

// CopyName derives a free sibling name for a copy of name: "x.txt" becomes
// "x (copy).txt", then "x (copy 2).txt" and so on, until taken reports the
// candidate as free. The extension is everything after the last dot, absent
// when there is no dot.
func CopyName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}

	base, ext := name, ""
	if idx := strings.LastIndex(name, "."); idx > 0 {
		base, ext = name[:idx], name[idx:]
	}

	for n := 1; ; n++ {
		var candidate string
		if n == 1 {
			candidate = base + " (copy)" + ext
		} else {
			candidate = fmt.Sprintf("%s (copy %d)%s", base, n, ext)
		}
		if !taken(candidate) {
			return candidate
		}
	}
}

func split(p string) []string {
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}

func join(segs []string) string {
	if len(segs) == 0 {
		return Root
	}
	return Root + strings.Join(segs, "/")
}
