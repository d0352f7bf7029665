package noodles

import (
	"strings"
	"unicode/utf8"
)

// Cursor is an immutable view over the remaining source text. Every parse
// step consumes a prefix and hands back a new Cursor; the original is never
// modified, so failed alternatives backtrack by simply reusing the old value.
type Cursor struct {
	input    string
	line     int
	column   int
	offset   int
	filename string
	state    *ExecutionState
	refs     *referenceRecorder
}

// referenceRecorder collects the variable names resolved while parsing
type referenceRecorder struct {
	names []string
	seen  map[string]bool
}

func newReferenceRecorder() *referenceRecorder {
	return &referenceRecorder{seen: make(map[string]bool)}
}

func (r *referenceRecorder) record(name string) {
	if r.seen[name] {
		return
	}
	r.seen[name] = true
	r.names = append(r.names, name)
}

// NewCursor creates a cursor at the start of source
func NewCursor(source, filename string, state *ExecutionState) Cursor {
	return Cursor{
		input:    source,
		line:     1,
		column:   1,
		filename: filename,
		state:    state,
	}
}

// cursorAt creates a cursor over text that starts at pos in the original source
func cursorAt(text string, pos SourcePosition, state *ExecutionState) Cursor {
	return Cursor{
		input:    text,
		line:     pos.Line,
		column:   pos.Column,
		offset:   pos.Offset,
		filename: pos.Filename,
		state:    state,
	}
}

// Rest returns the unconsumed input
func (c Cursor) Rest() string { return c.input }

// AtEnd reports whether all input has been consumed
func (c Cursor) AtEnd() bool { return c.input == "" }

// Line returns the current 1-based line
func (c Cursor) Line() int { return c.line }

// Column returns the current 1-based column, counted in characters
func (c Cursor) Column() int { return c.column }

// Offset returns the byte offset from the start of the source
func (c Cursor) Offset() int { return c.offset }

// State returns the interpreter state the cursor consults while parsing
func (c Cursor) State() *ExecutionState { return c.state }

// Position snapshots the cursor location
func (c Cursor) Position() *SourcePosition {
	return &SourcePosition{
		Line:     c.line,
		Column:   c.column,
		Offset:   c.offset,
		Filename: c.filename,
	}
}

// Peek returns the next rune without consuming it
func (c Cursor) Peek() (rune, int) {
	if c.input == "" {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.input)
}

// HasPrefix reports whether the remaining input starts with s
func (c Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.input, s)
}

// Advance consumes n bytes, keeping line and column in step. n is rounded
// up to the next code point boundary so a slice never splits a character.
func (c Cursor) Advance(n int) Cursor {
	if n > len(c.input) {
		n = len(c.input)
	}
	for n < len(c.input) && !utf8.RuneStart(c.input[n]) {
		n++
	}
	consumed := c.input[:n]
	for _, r := range consumed {
		if r == '\n' {
			c.line++
			c.column = 1
		} else {
			c.column++
		}
	}
	c.offset += n
	c.input = c.input[n:]
	return c
}

// AdvanceRune consumes one character
func (c Cursor) AdvanceRune() Cursor {
	_, size := c.Peek()
	return c.Advance(size)
}

// Consume advances past prefix if present
func (c Cursor) Consume(prefix string) (Cursor, bool) {
	if !c.HasPrefix(prefix) {
		return c, false
	}
	return c.Advance(len(prefix)), true
}

// Until returns the text between c and a later cursor over the same input
func (c Cursor) Until(end Cursor) string {
	n := end.offset - c.offset
	if n < 0 || n > len(c.input) {
		return ""
	}
	return c.input[:n]
}

// Limit returns a cursor over only the first n bytes of the remaining input
func (c Cursor) Limit(n int) Cursor {
	if n < len(c.input) {
		c.input = c.input[:n]
	}
	return c
}

// WithState returns a cursor that consults a different state
func (c Cursor) WithState(state *ExecutionState) Cursor {
	c.state = state
	return c
}

func (c Cursor) withRecorder(r *referenceRecorder) Cursor {
	c.refs = r
	return c
}

func (c Cursor) recordReference(name string) {
	if c.refs != nil {
		c.refs.record(name)
	}
}

// anchor captures where the text under the cursor starts, for re-parsing later
func (c Cursor) anchor() SourcePosition {
	return SourcePosition{Line: c.line, Column: c.column, Offset: c.offset, Filename: c.filename}
}
