package vfs

import (
	"time"

	"github.com/mirageos/backend/internal/shared/paths"
)

const welcomeText = `Welcome to MirageOS!

This is your personal file space. Try the terminal:
  ls            list the current directory
  cat <file>    print a file
  help          list every command
`

const readmeText = "Files placed on the desktop show up on your home screen.\n"

// DefaultTree builds the built-in tree a fresh install starts from:
// Desktop / Documents / Downloads user space plus the protected System
// partition with its seed files.
func DefaultTree(now time.Time) *Node {
	root := newRoot(now)

	desktop := NewDirectory(paths.Root, "Desktop", now)
	desktop.Children["readme.txt"] = NewFile(desktop.Path, "readme.txt", readmeText, now)

	documents := NewDirectory(paths.Root, "Documents", now)
	documents.Children["welcome.txt"] = NewFile(documents.Path, "welcome.txt", welcomeText, now)

	downloads := NewDirectory(paths.Root, "Downloads", now)

	system := NewDirectory(paths.Root, "System", now)
	system.Children["config.sys"] = NewFile(system.Path, "config.sys",
		"boot=mirage\nshell=/System/bin/msh\naccent=teal\n", now)
	system.Children["kernel.bin"] = NewFile(system.Path, "kernel.bin",
		BinaryPrefix+"TWlyYWdlT1Mga2VybmVsIGltYWdl", now)

	bin := NewDirectory(system.Path, "bin", now)
	bin.Children["msh"] = NewFile(bin.Path, "msh", BinaryPrefix+"bXNoIGJpbmFyeQ==", now)
	system.Children["bin"] = bin

	for _, dir := range []*Node{desktop, documents, downloads, system} {
		root.Children[dir.Name] = dir
	}
	return root
}
