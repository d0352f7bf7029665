package noodles

import (
	"github.com/JohnCGriffin/overflow"
)

// hoist is a declaration with a negative line life time found ahead of
// execution. Its initializer is evaluated when the first line of its window
// is reached.
type hoist struct {
	header      declarationHeader
	line        int
	initializer Cursor
	bound       bool
}

// visibleFrom is the first line the binding exists on
func (h *hoist) visibleFrom() int {
	return h.line + h.header.life.Lines
}

// scanHoists finds the hoisted declarations among the statements of body
// without evaluating anything. Statements start at the beginning of body,
// after a terminator run and after a closing brace; nested blocks are
// skipped and scanned when they run.
func scanHoists(body Cursor) []*hoist {
	var hoists []*hoist
	c := body
	depth := 0
	atStart := true
	for !c.AtEnd() {
		if atStart && depth == 0 {
			atStart = false
			if c = SkipWhitespace(c); c.AtEnd() {
				break
			}
			if next, h, err := parseDeclarationHeader(c); err == nil && h.life.Hoisted() {
				hoists = append(hoists, &hoist{header: h, line: c.Line(), initializer: next})
			}
			continue
		}
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
			depth = overflow.Addp(depth, 1)
		case c.HasPrefix("}"), c.HasPrefix("]"):
			if depth > 0 {
				depth = overflow.Subp(depth, 1)
			}
			atStart = depth == 0 && c.HasPrefix("}")
		case depth == 0 && isStatementTerminator(c):
			atStart = true
		}
		c = c.AdvanceRune()
	}
	return hoists
}

// bindHoists binds every hoisted declaration whose window has been reached
// by the statement starting on line
func (e *Executor) bindHoists(state *ExecutionState, hoists []*hoist, line int) error {
	for _, h := range hoists {
		if h.bound || line < h.visibleFrom() || line >= h.line {
			continue
		}
		h.bound = true
		_, expr, err := ParseExpression(h.initializer, nil)
		if err != nil {
			return asSyntaxError(err)
		}
		value, err := e.evalExpr(state, expr)
		if err != nil {
			return withPosition(err, h.initializer.Position())
		}
		state.DeclareHoisted(h.header.name, value, h.header.mut, h.header.life, h.line)
		e.logger.DebugCat(CatScope, "hoisted %s %s from line %d = %s", h.header.mut, h.header.name, h.line, value)
	}
	return nil
}
