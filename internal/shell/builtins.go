package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mirageos/backend/internal/shared/paths"
)

// Builtin is one dispatch-table entry: pure-ish function of arguments, stdin
// and the interpreter state, returning display text. Errors are display text
// too; a failing builtin never aborts the pipeline.
type Builtin func(sh *Interpreter, args []string, stdin string) string

func builtinTable() map[string]Builtin {
	return map[string]Builtin{
		"help":     cmdHelp,
		"echo":     cmdEcho,
		"pwd":      cmdPwd,
		"cd":       cmdCd,
		"ls":       cmdLs,
		"cat":      cmdCat,
		"mkdir":    cmdMkdir,
		"touch":    cmdTouch,
		"rm":       cmdRm,
		"mv":       cmdMv,
		"cp":       cmdCp,
		"grep":     cmdGrep,
		"wc":       cmdWc,
		"head":     cmdHead,
		"date":     cmdDate,
		"whoami":   cmdWhoami,
		"ping":     cmdPing,
		"ipconfig": cmdIpconfig,
		"cowsay":   cmdCowsay,
		"fortune":  cmdFortune,
	}
}

func cmdHelp(sh *Interpreter, args []string, stdin string) string {
	names := make([]string, 0, len(sh.builtins)+1)
	for name := range sh.builtins {
		names = append(names, name)
	}
	names = append(names, "clear")
	sort.Strings(names)
	return "available commands: " + strings.Join(names, ", ")
}

func cmdEcho(sh *Interpreter, args []string, stdin string) string {
	return strings.Join(args, " ")
}

func cmdPwd(sh *Interpreter, args []string, stdin string) string {
	return sh.Cwd()
}

func cmdCd(sh *Interpreter, args []string, stdin string) string {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	}

	path := sh.resolve(target)
	if _, ok := sh.store.GetDirectory(path); !ok {
		if _, exists := sh.store.GetNode(path); exists {
			return fmt.Sprintf("cd: %s: not a directory", target)
		}
		return fmt.Sprintf("cd: %s: no such directory", target)
	}
	sh.setCwd(path)
	return ""
}

func cmdLs(sh *Interpreter, args []string, stdin string) string {
	target := sh.Cwd()
	if len(args) > 0 {
		target = sh.resolve(args[0])
	}

	dir, ok := sh.store.GetDirectory(target)
	if !ok {
		if _, exists := sh.store.GetNode(target); exists {
			return fmt.Sprintf("ls: %s: not a directory", target)
		}
		return fmt.Sprintf("ls: %s: no such file or directory", target)
	}

	var lines []string
	for _, name := range dir.ChildNames() {
		if dir.Children[name].IsDir() {
			lines = append(lines, Dirname(name+"/"))
		} else {
			lines = append(lines, name)
		}
	}
	return strings.Join(lines, "\n")
}

func cmdCat(sh *Interpreter, args []string, stdin string) string {
	if len(args) == 0 {
		return stdin
	}

	path := sh.resolve(args[0])
	content, ok := sh.store.ReadFile(path)
	if !ok {
		if node, exists := sh.store.GetNode(path); exists && node.IsDir() {
			return fmt.Sprintf("cat: %s: is a directory", args[0])
		}
		return fmt.Sprintf("cat: %s: no such file", args[0])
	}
	return content
}

func cmdMkdir(sh *Interpreter, args []string, stdin string) string {
	if len(args) == 0 {
		return "usage: mkdir <directory>"
	}

	path := sh.resolve(args[0])
	if _, exists := sh.store.GetNode(path); exists {
		return fmt.Sprintf("mkdir: %s: already exists", args[0])
	}

	parent, name := paths.Split(path)
	if !sh.store.CreateDirectory(parent, name) {
		return fmt.Sprintf("mkdir: cannot create directory %s", args[0])
	}
	return ""
}

func cmdTouch(sh *Interpreter, args []string, stdin string) string {
	if len(args) == 0 {
		return "usage: touch <file>"
	}

	path := sh.resolve(args[0])
	if _, exists := sh.store.GetNode(path); exists {
		return fmt.Sprintf("touch: %s: already exists", args[0])
	}

	parent, name := paths.Split(path)
	if !sh.store.CreateFile(parent, name, "") {
		return fmt.Sprintf("touch: cannot create file %s", args[0])
	}
	return ""
}

func cmdRm(sh *Interpreter, args []string, stdin string) string {
	if len(args) == 0 {
		return "usage: rm <path>"
	}

	if !sh.store.DeleteNode(sh.resolve(args[0])) {
		return fmt.Sprintf("rm: cannot remove %s", args[0])
	}
	return ""
}

func cmdMv(sh *Interpreter, args []string, stdin string) string {
	if len(args) < 2 {
		return "usage: mv <source> <directory>"
	}

	if !sh.store.MoveNode(sh.resolve(args[0]), sh.resolve(args[1])) {
		return fmt.Sprintf("mv: cannot move %s to %s", args[0], args[1])
	}
	return ""
}

func cmdCp(sh *Interpreter, args []string, stdin string) string {
	if len(args) < 2 {
		return "usage: cp <source> <directory>"
	}

	if !sh.store.CopyNode(sh.resolve(args[0]), sh.resolve(args[1])) {
		return fmt.Sprintf("cp: cannot copy %s to %s", args[0], args[1])
	}
	return ""
}

func cmdGrep(sh *Interpreter, args []string, stdin string) string {
	if len(args) == 0 {
		return "usage: grep <pattern> [file]"
	}

	pattern := args[0]
	input := stdin
	if len(args) > 1 {
		path := sh.resolve(args[1])
		content, ok := sh.store.ReadFile(path)
		if !ok {
			return fmt.Sprintf("grep: %s: no such file", args[1])
		}
		input = content
	}

	var matches []string
	for _, line := range strings.Split(input, "\n") {
		if strings.Contains(line, pattern) {
			matches = append(matches, strings.ReplaceAll(line, pattern, Highlight(pattern)))
		}
	}
	return strings.Join(matches, "\n")
}

func cmdWc(sh *Interpreter, args []string, stdin string) string {
	input := stdin
	label := ""
	if len(args) > 0 {
		path := sh.resolve(args[0])
		content, ok := sh.store.ReadFile(path)
		if !ok {
			return fmt.Sprintf("wc: %s: no such file", args[0])
		}
		input = content
		label = " " + args[0]
	}

	lines, words, bytes := 0, len(strings.Fields(input)), len(input)
	if input != "" {
		lines = strings.Count(input, "\n") + 1
	}
	return fmt.Sprintf("%d %d %d%s", lines, words, bytes, label)
}

func cmdHead(sh *Interpreter, args []string, stdin string) string {
	input := stdin
	if len(args) > 0 {
		path := sh.resolve(args[0])
		content, ok := sh.store.ReadFile(path)
		if !ok {
			return fmt.Sprintf("head: %s: no such file", args[0])
		}
		input = content
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	return strings.Join(lines, "\n")
}

func cmdDate(sh *Interpreter, args []string, stdin string) string {
	return sh.now().Format("Mon Jan _2 15:04:05 MST 2006")
}

func cmdWhoami(sh *Interpreter, args []string, stdin string) string {
	return "guest"
}

func cmdPing(sh *Interpreter, args []string, stdin string) string {
	host := "mirage.local"
	if len(args) > 0 {
		host = args[0]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PING %s: 56 data bytes\n", host)
	total := 0
	for seq := 0; seq < 4; seq++ {
		ms := 8 + sh.rng.Intn(40)
		total += ms
		fmt.Fprintf(&b, "64 bytes from %s: icmp_seq=%d time=%dms\n", host, seq, ms)
	}
	fmt.Fprintf(&b, "--- %s ping statistics ---\n4 packets transmitted, 4 received, 0%% packet loss, avg %dms", host, total/4)
	return b.String()
}

func cmdIpconfig(sh *Interpreter, args []string, stdin string) string {
	return strings.Join([]string{
		"Mirage Virtual Adapter eth0:",
		"   IPv4 Address. . . . . . : 10.32.0.7",
		"   Subnet Mask . . . . . . : 255.255.255.0",
		"   Default Gateway . . . . : 10.32.0.1",
		"   DNS Server. . . . . . . : 10.32.0.53",
	}, "\n")
}

func cmdCowsay(sh *Interpreter, args []string, stdin string) string {
	message := strings.Join(args, " ")
	if message == "" {
		message = strings.TrimSpace(stdin)
	}
	if message == "" {
		message = "moo"
	}

	border := strings.Repeat("-", len(message)+2)
	return strings.Join([]string{
		" " + border,
		"< " + message + " >",
		" " + border,
		`        \   ^__^`,
		`         \  (oo)\_______`,
		`            (__)\       )\/\`,
		`                ||----w |`,
		`                ||     ||`,
	}, "\n")
}

var fortunes = []string{
	"A bug in the hand is better than one as yet undetected.",
	"You will find the missing semicolon where you least expect it.",
	"The filesystem you save today may save you tomorrow.",
	"He who pipes to /dev/null hears no complaints.",
	"A clean desktop is a sign of a cluttered Downloads folder.",
	"Reboot early, reboot often.",
}

func cmdFortune(sh *Interpreter, args []string, stdin string) string {
	return fortunes[sh.rng.Intn(len(fortunes))]
}
