package shell

import "strings"

// Pipeline is one tokenized command line: ordered stages separated by "|"
// and an optional redirection target after the first ">".
type Pipeline struct {
	Stages   []string
	Redirect string
}

// ParseLine tokenizes a raw command line. Everything before the first ">" is
// the main command; everything after is the redirection target (rejoined
// when the line carries more than one ">"). The main command splits on "|"
// into trimmed stages.
func ParseLine(line string) Pipeline {
	main := line
	redirect := ""

	if idx := strings.Index(line, ">"); idx >= 0 {
		main = line[:idx]
		redirect = strings.TrimSpace(line[idx+1:])
	}

	var stages []string
	for _, stage := range strings.Split(main, "|") {
		stages = append(stages, strings.TrimSpace(stage))
	}

	return Pipeline{Stages: stages, Redirect: redirect}
}
