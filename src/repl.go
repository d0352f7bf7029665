package noodles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/lmorg/readline"
)

// readline reports Ctrl+C as an error with this text
const readlineInterrupt = "Ctrl+C"

// History file constants
const (
	replMaxHistoryLines = 1000 // Maximum number of history entries to keep
)

// replKeywords are offered by tab completion alongside the names in scope
var replKeywords = []string{
	"var", "const", "function", "return", "if", "else", "when",
	"true", "false", "null", "undefined", "Infinity", "NaN",
	"exit", "quit",
}

// REPL provides an interactive Read-Eval-Print Loop
type REPL struct {
	n       *Noodles
	out     io.Writer
	pending []string // Lines of an unfinished multi-line input

	promptColor *color.Color
	equalsColor *color.Color
}

// NewREPL creates a REPL evaluating into n and writing results to out
func NewREPL(n *Noodles, out io.Writer) *REPL {
	if out == nil {
		out = os.Stdout
	}
	r := &REPL{
		n:           n,
		out:         out,
		promptColor: color.New(color.FgHiYellow),
		equalsColor: color.New(color.FgHiGreen),
	}
	if !n.Config().Color || !supportsColor(out) {
		r.promptColor.DisableColor()
		r.equalsColor.DisableColor()
	}
	return r
}

// Prompt returns the prompt for the next line: the main prompt, or a
// continuation prompt while a block or array is still open
func (r *REPL) Prompt() string {
	if len(r.pending) > 0 {
		return r.promptColor.Sprint("...") + " "
	}
	return r.promptColor.Sprint("noodles>") + " "
}

// HandleLine feeds one line of input. It returns false once the session
// should end.
func (r *REPL) HandleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(r.pending) == 0 {
		switch strings.ToLower(trimmed) {
		case "exit", "quit":
			return false
		case "":
			return true
		}
	}

	r.pending = append(r.pending, line)
	input := strings.Join(r.pending, "\n")
	if !isComplete(input) {
		return true
	}
	r.pending = nil

	values, err := r.n.EvaluateREPL(input)
	if err != nil {
		r.n.ReportError(err, input)
		return true
	}
	if len(values) > 0 {
		r.displayResult(values[len(values)-1])
	}
	return true
}

func (r *REPL) displayResult(v Value) {
	if _, ok := v.(Undefined); ok {
		return
	}
	text := v.String()
	if s, ok := v.(String); ok {
		text = fmt.Sprintf("%q", string(s))
	}
	fmt.Fprintf(r.out, "%s %s\n", r.equalsColor.Sprint("="), text)
}

// Run reads lines with readline until exit, quit or end of input
func (r *REPL) Run() error {
	rl := readline.NewInstance()
	rl.TabCompleter = r.complete
	history := newReplHistory(replHistoryFilePath())
	rl.History = history

	for {
		rl.SetPrompt(r.Prompt())
		line, err := rl.Readline()
		if err != nil {
			if err.Error() == readlineInterrupt {
				r.pending = nil
				continue
			}
			break
		}
		if !r.HandleLine(line) {
			break
		}
	}
	return history.save()
}

// complete offers keywords and visible names that extend the word under the
// cursor
func (r *REPL) complete(line []rune, pos int, _ readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
	start := pos
	for start > 0 && !isWhitespaceRune(line[start-1]) && !strings.ContainsRune(nameStops, line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	candidates := append(append([]string{}, replKeywords...), r.n.State().Names()...)
	sort.Strings(candidates)
	var suggestions []string
	for i, name := range candidates {
		if i > 0 && candidates[i-1] == name {
			continue
		}
		if strings.HasPrefix(name, prefix) && name != prefix {
			suggestions = append(suggestions, name[len(prefix):])
		}
	}
	return prefix, suggestions, nil, readline.TabDisplayGrid
}

// isComplete reports whether every `{` and `[` of input has been closed
func isComplete(input string) bool {
	depth := 0
	for c := NewCursor(input, "", nil); !c.AtEnd(); {
		if next, ok := skipQuoted(c); ok {
			c = next
			continue
		}
		if c.HasPrefix("//") {
			c = SkipWhitespace(c)
			continue
		}
		switch {
		case c.HasPrefix("\\"):
			c = c.AdvanceRune()
		case c.HasPrefix("{"), c.HasPrefix("["):
			depth++
		case c.HasPrefix("}"), c.HasPrefix("]"):
			depth--
		}
		c = c.AdvanceRune()
	}
	return depth <= 0
}

// replHistory keeps REPL history in memory and persists it to a file
type replHistory struct {
	path  string
	lines []string
}

func newReplHistory(path string) *replHistory {
	h := &replHistory{path: path}
	if path == "" {
		return h
	}
	f, err := os.Open(path)
	if err != nil {
		return h // File doesn't exist or can't be read
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			h.lines = append(h.lines, line)
		}
	}
	return h
}

// Write appends a line, skipping blanks and repeats of the previous entry
func (h *replHistory) Write(line string) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsRune(line, '\n') {
		return len(h.lines), nil
	}
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
	}
	return len(h.lines), nil
}

// GetLine returns the entry at index i
func (h *replHistory) GetLine(i int) (string, error) {
	if i < 0 || i >= len(h.lines) {
		return "", fmt.Errorf("history index %d out of range", i)
	}
	return h.lines[i], nil
}

// Len returns the number of entries
func (h *replHistory) Len() int {
	return len(h.lines)
}

// Dump returns every entry
func (h *replHistory) Dump() interface{} {
	return h.lines
}

func (h *replHistory) save() error {
	if h.path == "" {
		return nil
	}
	lines := h.lines
	if len(lines) > replMaxHistoryLines {
		lines = lines[len(lines)-replMaxHistoryLines:]
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(h.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// replHistoryFilePath returns the path to ~/.noodles/history
func replHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".noodles", "history")
}
