package shell

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/shared/paths"
	"github.com/mirageos/backend/internal/vfs"
)

// Assistant is the external AI collaborator behind the "ai" command. The
// call is awaited; cancellation is the collaborator's concern.
type Assistant interface {
	Handle(ctx context.Context, prompt string) (string, error)
}

// Observer receives executed command names for metrics collection.
type Observer interface {
	RecordCommand(name string)
}

// Interpreter executes command lines against the tree store: tokenizes a
// line into piped stages, runs each builtin in order threading stage output
// into the next stage's stdin, then prints or redirects the result.
//
// The interpreter owns the shell-visible state: the current directory and
// the output history.
type Interpreter struct {
	store     *vfs.Store
	assistant Assistant
	logger    *logging.Logger
	observer  Observer
	builtins  map[string]Builtin

	mu           sync.Mutex
	cwd          string
	history      []string
	historyLimit int

	now func() time.Time
	rng *rand.Rand
}

// NewInterpreter creates a shell bound to store. assistant may be nil; the
// "ai" command then reports the collaborator as unavailable.
func NewInterpreter(store *vfs.Store, assistant Assistant, logger *logging.Logger) *Interpreter {
	sh := &Interpreter{
		store:        store,
		assistant:    assistant,
		logger:       logger,
		cwd:          paths.Root,
		historyLimit: 1000,
		now:          time.Now,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	sh.builtins = builtinTable()
	return sh
}

// WithHistoryLimit caps the output history length.
func (sh *Interpreter) WithHistoryLimit(limit int) *Interpreter {
	if limit > 0 {
		sh.historyLimit = limit
	}
	return sh
}

// WithObserver attaches a metrics observer.
func (sh *Interpreter) WithObserver(obs Observer) *Interpreter {
	sh.observer = obs
	return sh
}

// WithRand overrides the randomness used by ping and fortune. Used by tests.
func (sh *Interpreter) WithRand(rng *rand.Rand) *Interpreter {
	sh.rng = rng
	return sh
}

// Cwd returns the interpreter's current directory.
func (sh *Interpreter) Cwd() string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.cwd
}

// History returns a copy of the visible output log.
func (sh *Interpreter) History() []string {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	out := make([]string, len(sh.history))
	copy(out, sh.history)
	return out
}

// Execute runs one raw command line and returns its display output (empty
// for silent operations such as a successful redirect or cd).
func (sh *Interpreter) Execute(ctx context.Context, line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}

	// "ai ..." bypasses piping and redirection entirely.
	if len(line) > 3 && strings.EqualFold(line[:3], "ai ") {
		return sh.runAssistant(ctx, strings.TrimSpace(line[3:]))
	}

	pipeline := ParseLine(line)

	var stdin string
	var output string
	for _, stage := range pipeline.Stages {
		fields := strings.Fields(stage)
		if len(fields) == 0 {
			output = ""
			stdin = ""
			continue
		}

		name := strings.ToLower(fields[0])
		if name == "clear" {
			// Deliberate escape from the pipe/redirect model: wipe the
			// history and abort the rest of the pipeline.
			sh.clearHistory()
			return ""
		}

		if sh.observer != nil {
			sh.observer.RecordCommand(name)
		}

		builtin, ok := sh.builtins[name]
		if !ok {
			output = fmt.Sprintf("%s: command not found", fields[0])
		} else {
			output = builtin(sh, fields[1:], stdin)
		}
		stdin = StripMarkup(output)
	}

	sh.logger.Debug("pipeline executed",
		zap.Int("stages", len(pipeline.Stages)),
		zap.Bool("redirected", pipeline.Redirect != ""),
	)

	if pipeline.Redirect != "" {
		return sh.redirect(pipeline.Redirect, StripMarkup(output))
	}

	if output != "" {
		sh.appendHistory(output)
	}
	return output
}

// redirect writes content to the resolved target, creating the file when it
// does not exist yet. Failures name their reason instead of a generic error.
func (sh *Interpreter) redirect(target, content string) string {
	path := paths.Resolve(target, sh.Cwd())

	if paths.IsProtected(path) {
		// Route through the store so the rejection flips the corruption flag.
		sh.store.WriteFile(path, content)
		return fmt.Sprintf("cannot write to %s: protected system path", path)
	}

	if node, ok := sh.store.GetNode(path); ok {
		if node.IsDir() {
			return fmt.Sprintf("cannot write to %s: is a directory", path)
		}
		if !sh.store.WriteFile(path, content) {
			return fmt.Sprintf("cannot write to %s", path)
		}
		return ""
	}

	parentPath, name := paths.Split(path)
	if _, ok := sh.store.GetDirectory(parentPath); !ok {
		return fmt.Sprintf("cannot write to %s: no such directory %s", path, parentPath)
	}
	if !sh.store.CreateFile(parentPath, name, content) {
		return fmt.Sprintf("cannot write to %s", path)
	}
	return ""
}

func (sh *Interpreter) runAssistant(ctx context.Context, prompt string) string {
	if sh.assistant == nil {
		return "ai: assistant is not available"
	}

	reply, err := sh.assistant.Handle(ctx, prompt)
	if err != nil {
		sh.logger.Warn("assistant request failed", zap.Error(err))
		return fmt.Sprintf("ai: %v", err)
	}
	if reply != "" {
		sh.appendHistory(reply)
	}
	return reply
}

func (sh *Interpreter) appendHistory(entry string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.history = append(sh.history, entry)
	if len(sh.history) > sh.historyLimit {
		sh.history = sh.history[len(sh.history)-sh.historyLimit:]
	}
}

func (sh *Interpreter) clearHistory() {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.history = sh.history[:0]
}

func (sh *Interpreter) setCwd(path string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.cwd = path
}

// resolve normalizes a path argument against the current directory.
func (sh *Interpreter) resolve(arg string) string {
	return paths.Resolve(arg, sh.Cwd())
}
