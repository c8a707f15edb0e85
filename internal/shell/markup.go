package shell

import "regexp"

// Display markup is plain ANSI. It exists only for the final display: stage
// output is stripped to plain text before feeding the next stage's stdin or
// a redirection target.

const (
	ansiReset     = "\x1b[0m"
	ansiHighlight = "\x1b[1;31m"
	ansiDir       = "\x1b[1;34m"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Highlight wraps s in the match highlight used by grep.
func Highlight(s string) string {
	return ansiHighlight + s + ansiReset
}

// Dirname wraps s in the directory color used by ls.
func Dirname(s string) string {
	return ansiDir + s + ansiReset
}

// StripMarkup reduces display text to plain text.
func StripMarkup(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
