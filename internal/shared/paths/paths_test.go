package paths

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		input string
		cwd   string
		want  string
	}{
		{"absolute", "/Documents/notes", "/Desktop", "/Documents/notes"},
		{"relative", "notes", "/Documents", "/Documents/notes"},
		{"relative from root", "Documents", "/", "/Documents"},
		{"dot dropped", "./a/./b", "/", "/a/b"},
		{"dotdot pops", "a/b/../c", "/", "/a/c"},
		{"dotdot against cwd", "..", "/Documents/sub", "/Documents"},
		{"dotdot underflow", "../../..", "/", "/"},
		{"dotdot underflow absolute", "/..", "/Documents", "/"},
		{"empty segments", "/a//b///c", "/", "/a/b/c"},
		{"trailing slash", "/a/b/", "/", "/a/b"},
		{"empty input", "", "/Documents", "/Documents"},
		{"root", "/", "/Documents", "/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.input, tc.cwd); got != tc.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tc.input, tc.cwd, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, p := range []string{"/", "/a", "/a/b/c", "/Documents/welcome.txt"} {
		normalized := Normalize(p)
		if again := Normalize(normalized); again != normalized {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", p, normalized, again)
		}
		// Round-trip: resolving an already-absolute path from any cwd is a no-op.
		if got := Resolve(normalized, "/somewhere/else"); got != normalized {
			t.Errorf("Resolve(%q, cwd) = %q, want %q", normalized, got, normalized)
		}
	}
}

func TestIsProtected(t *testing.T) {
	cases := map[string]bool{
		"/System":            true,
		"/System/config.sys": true,
		"/System/bin/msh":    true,
		"/":                  false,
		"/Documents":         false,
		"/SystemBackup":      false,
	}
	for p, want := range cases {
		if got := IsProtected(p); got != want {
			t.Errorf("IsProtected(%q) = %v, want %v", p, got, want)
		}
	}
}

func TestJoinSplit(t *testing.T) {
	if got := Join("/", "a"); got != "/a" {
		t.Errorf("Join(/, a) = %q", got)
	}
	if got := Join("/a/b", "c"); got != "/a/b/c" {
		t.Errorf("Join(/a/b, c) = %q", got)
	}

	parent, name := Split("/a/b/c")
	if parent != "/a/b" || name != "c" {
		t.Errorf("Split(/a/b/c) = %q, %q", parent, name)
	}
	parent, name = Split("/a")
	if parent != "/" || name != "a" {
		t.Errorf("Split(/a) = %q, %q", parent, name)
	}
}

func TestIsDescendant(t *testing.T) {
	if !IsDescendant("/a/b", "/a") {
		t.Error("expected /a/b to be a descendant of /a")
	}
	if IsDescendant("/a", "/a") {
		t.Error("a path is not its own descendant")
	}
	if IsDescendant("/ab", "/a") {
		t.Error("prefix match must respect segment boundaries")
	}
	if !IsDescendant("/x", "/") {
		t.Error("everything but the root descends from the root")
	}
}

func TestCopyName(t *testing.T) {
	taken := func(existing ...string) func(string) bool {
		set := make(map[string]bool)
		for _, e := range existing {
			set[e] = true
		}
		return func(name string) bool { return set[name] }
	}

	if got := CopyName("a.txt", taken()); got != "a.txt" {
		t.Errorf("free name should pass through, got %q", got)
	}
	if got := CopyName("a.txt", taken("a.txt")); got != "a (copy).txt" {
		t.Errorf("first collision = %q, want %q", got, "a (copy).txt")
	}
	if got := CopyName("a.txt", taken("a.txt", "a (copy).txt")); got != "a (copy 2).txt" {
		t.Errorf("second collision = %q, want %q", got, "a (copy 2).txt")
	}
	if got := CopyName("noext", taken("noext")); got != "noext (copy)" {
		t.Errorf("extensionless collision = %q, want %q", got, "noext (copy)")
	}
	if got := CopyName(".hidden", taken(".hidden")); got != ".hidden (copy)" {
		t.Errorf("dotfile collision = %q, want %q", got, ".hidden (copy)")
	}
}
