package noodles

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JohnCGriffin/overflow"
)

// Terminator reports whether the input under the cursor ends the construct
// being scanned. Callers compose them to stop implicit strings and names.
type Terminator func(Cursor) bool

// isWhitespaceRune reports layout characters. Parentheses count as
// whitespace: they only ever add weight to the precedence signal.
func isWhitespaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '(', ')':
		return true
	}
	return false
}

// SkipWhitespace consumes whitespace and // comments. It never fails.
func SkipWhitespace(c Cursor) Cursor {
	c, _ = CountWhitespace(c)
	return c
}

// CountWhitespace consumes whitespace and // comments, returning the number
// of characters consumed.
func CountWhitespace(c Cursor) (Cursor, int) {
	width := 0
	for !c.AtEnd() {
		if c.HasPrefix("//") {
			start := c
			for !c.AtEnd() && !c.HasPrefix("\n") {
				c = c.AdvanceRune()
			}
			width += utf8.RuneCountInString(start.Until(c))
			continue
		}
		r, size := c.Peek()
		if !isWhitespaceRune(r) {
			break
		}
		c = c.Advance(size)
		width++
	}
	return c, width
}

// isStatementTerminator matches `!` (but not `!=`) and the debug terminator `?`
func isStatementTerminator(c Cursor) bool {
	if c.HasPrefix("?") {
		return true
	}
	return c.HasPrefix("!") && !c.HasPrefix("!=")
}

// anyTerminator matches when any of ts matches. Nil entries are ignored.
func anyTerminator(ts ...Terminator) Terminator {
	return func(c Cursor) bool {
		for _, t := range ts {
			if t != nil && t(c) {
				return true
			}
		}
		return false
	}
}

// prefixTerminator matches any of the given literal prefixes
func prefixTerminator(prefixes ...string) Terminator {
	return func(c Cursor) bool {
		for _, p := range prefixes {
			if c.HasPrefix(p) {
				return true
			}
		}
		return false
	}
}

// nameStops are the punctuation characters that end a name outside of its
// first character
const nameStops = ".,[]{}:+-*/%^<>=!&|;?"

// nameTerminator ends identifiers used for variable and function lookup
func nameTerminator(c Cursor) bool {
	r, _ := c.Peek()
	return strings.ContainsRune(nameStops, r)
}

// Identifier scans a maximal run of non-whitespace characters, also stopping
// where term matches. The first character is always taken, so the result is
// never empty unless the input starts with whitespace or is exhausted.
func Identifier(c Cursor, term Terminator) (Cursor, string, error) {
	start := c
	for !c.AtEnd() {
		r, size := c.Peek()
		if isWhitespaceRune(r) {
			break
		}
		if c.offset != start.offset && term != nil && term(c) {
			break
		}
		c = c.Advance(size)
	}
	if c.offset == start.offset {
		return start, "", &ParseError{Kind: ParseEmptyIdentifier, Position: start.Position()}
	}
	return c, start.Until(c), nil
}

// BindingName scans a name that declares, assigns, calls or reads a binding.
// Unlike Identifier it never starts on punctuation, so `{a` or `}` do not
// name anything.
func BindingName(c Cursor) (Cursor, string, error) {
	if r, _ := c.Peek(); strings.ContainsRune(nameStops, r) || r == '(' || r == ')' {
		return c, "", noMatch(c, fmt.Sprintf("a name cannot start with %q", r))
	}
	return Identifier(c, nameTerminator)
}

// Chunk scans a run of non-whitespace characters
func Chunk(c Cursor) (Cursor, string, error) {
	return Identifier(c, nil)
}

// TerminatedChunk scans up to the first unescaped match of term (or the end
// of input). A backslash escapes the next character. The unescaped text is
// returned; an empty chunk is a NoMatch.
func TerminatedChunk(c Cursor, term Terminator) (Cursor, string, error) {
	start := c
	var b strings.Builder
	for !c.AtEnd() {
		if term != nil && term(c) {
			break
		}
		r, size := c.Peek()
		c = c.Advance(size)
		if r == '\\' && !c.AtEnd() {
			escaped, escSize := c.Peek()
			c = c.Advance(escSize)
			b.WriteRune(escaped)
			continue
		}
		b.WriteRune(r)
	}
	if c.offset == start.offset {
		return start, "", noMatch(start, "empty chunk")
	}
	return c, b.String(), nil
}

// keyword consumes word when it is followed by a boundary (whitespace, the
// end of input, or a non-word character)
func keyword(c Cursor, word string) (Cursor, bool) {
	if !c.HasPrefix(word) {
		return c, false
	}
	next := c.Advance(len(word))
	if next.AtEnd() {
		return next, true
	}
	r, _ := next.Peek()
	if isWordRune(r) {
		return c, false
	}
	return next, true
}

func isWordRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= utf8.RuneSelf
}

// skipStatementTerminator consumes one run of `!` or a single `?`. The bool
// reports whether the debug terminator was used.
func skipStatementTerminator(c Cursor) (Cursor, bool, error) {
	if next, ok := c.Consume("?"); ok {
		return next, true, nil
	}
	if !isStatementTerminator(c) {
		return c, false, unexpectedToken(c, "expected statement terminator")
	}
	for isStatementTerminator(c) && c.HasPrefix("!") {
		c = c.Advance(1)
	}
	return c, false, nil
}

// skipQuoted steps over a quoted string if one starts at c. Unterminated
// quotes are treated as ordinary characters.
func skipQuoted(c Cursor) (Cursor, bool) {
	if r, _ := c.Peek(); r != '"' && r != '\'' {
		return c, false
	}
	next, _, err := parseQuotedString(c)
	if err != nil {
		return c, false
	}
	return next, true
}

// scanBlock finds the brace matching the `{` under the cursor. It returns
// the cursor after the closing brace and a cursor spanning only the body.
// Quoted strings and comments are skipped while counting depth.
func scanBlock(c Cursor) (Cursor, Cursor, error) {
	start, ok := c.Consume("{")
	if !ok {
		return c, c, noMatch(c, "expected '{'")
	}
	depth := 1
	for cur := start; !cur.AtEnd(); {
		if next, ok := skipQuoted(cur); ok {
			cur = next
			continue
		}
		if cur.HasPrefix("//") {
			cur = SkipWhitespace(cur)
			continue
		}
		switch {
		case cur.HasPrefix("\\"):
			cur = cur.AdvanceRune()
		case cur.HasPrefix("{"):
			depth = overflow.Addp(depth, 1)
		case cur.HasPrefix("}"):
			depth = overflow.Subp(depth, 1)
			if depth == 0 {
				return cur.Advance(1), start.Limit(cur.Offset() - start.Offset()), nil
			}
		}
		cur = cur.AdvanceRune()
	}
	return c, c, unexpectedToken(c, "unterminated block")
}

// scanExpressionSource returns the raw text of an expression running up to
// the next statement terminator, or term, outside of brackets and strings
func scanExpressionSource(c Cursor, term Terminator) (Cursor, string) {
	start := c
	depth := 0
	for !c.AtEnd() {
		if depth == 0 && (isStatementTerminator(c) || term != nil && term(c)) {
			break
		}
		if next, ok := skipQuoted(c); ok {
			c = next
			continue
		}
		switch {
		case c.HasPrefix("\\"):
			c = c.AdvanceRune()
		case c.HasPrefix("{"), c.HasPrefix("["):
			depth = overflow.Addp(depth, 1)
		case c.HasPrefix("}"), c.HasPrefix("]"):
			if depth == 0 {
				return c, start.Until(c)
			}
			depth = overflow.Subp(depth, 1)
		}
		c = c.AdvanceRune()
	}
	return c, start.Until(c)
}
