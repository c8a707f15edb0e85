package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinePlain(t *testing.T) {
	p := ParseLine("ls /Documents")
	assert.Equal(t, []string{"ls /Documents"}, p.Stages)
	assert.Empty(t, p.Redirect)
}

func TestParseLinePipes(t *testing.T) {
	p := ParseLine("cat a.txt | grep foo | wc")
	assert.Equal(t, []string{"cat a.txt", "grep foo", "wc"}, p.Stages)
	assert.Empty(t, p.Redirect)
}

func TestParseLineRedirect(t *testing.T) {
	p := ParseLine("echo hi > out.txt")
	assert.Equal(t, []string{"echo hi"}, p.Stages)
	assert.Equal(t, "out.txt", p.Redirect)
}

func TestParseLinePipesAndRedirect(t *testing.T) {
	p := ParseLine("cat a | grep b > /Documents/out.txt")
	assert.Equal(t, []string{"cat a", "grep b"}, p.Stages)
	assert.Equal(t, "/Documents/out.txt", p.Redirect)
}

func TestParseLineMultipleRedirects(t *testing.T) {
	// Everything after the first ">" is the target, rejoined.
	p := ParseLine("echo hi > a > b")
	assert.Equal(t, []string{"echo hi"}, p.Stages)
	assert.Equal(t, "a > b", p.Redirect)
}

func TestParseLineTrimsStages(t *testing.T) {
	p := ParseLine("  echo hi   |   wc  ")
	assert.Equal(t, []string{"echo hi", "wc"}, p.Stages)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "hello", StripMarkup(Highlight("hello")))
	assert.Equal(t, "dir/", StripMarkup(Dirname("dir/")))
	assert.Equal(t, "plain", StripMarkup("plain"))
}
