package noodles

import (
	"strings"
)

// statementResult is what evaluating one statement leaves behind
type statementResult struct {
	value    Value
	produced bool
	returned bool
}

// statementParser parses one statement form and evaluates it
type statementParser func(e *Executor, c Cursor, produced *[]Value) (Cursor, statementResult, error)

type statementForm struct {
	name  string
	parse statementParser
}

// statementForms is filled in init: the forms reach executeStatement through
// function calls, which would otherwise be an initialization cycle
var statementForms []statementForm

func init() {
	statementForms = []statementForm{
		{"declaration", (*Executor).declarationStatement},
		{"assignment", (*Executor).assignmentStatement},
		{"block", (*Executor).blockStatement},
		{"conditional", (*Executor).conditionalStatement},
		{"when", (*Executor).whenStatement},
		{"function definition", (*Executor).functionStatement},
		{"return", (*Executor).returnStatement},
		{"call", (*Executor).callStatement},
		{"expression", (*Executor).expressionStatement},
	}
}

// executeStatement tries each statement form in order at c. The first form
// that parses is evaluated before anything after it is looked at.
func (e *Executor) executeStatement(c Cursor, produced *[]Value) (Cursor, statementResult, error) {
	c.State().SetLine(c.Line())
	for _, form := range statementForms {
		next, res, err := form.parse(e, c, produced)
		if err == nil {
			e.logger.DebugCat(CatStatement, "line %d: %s", c.Line(), form.name)
			return next, res, nil
		}
		if !isParseError(err) {
			return c, statementResult{}, err
		}
	}
	return c, statementResult{}, &SyntaxError{Err: &ParseError{
		Kind:     ParseUnexpectedToken,
		Message:  "no statement matches",
		Position: c.Position(),
	}}
}

// endStatement consumes the terminator of a single-line statement. The bool
// reports the debug terminator `?`.
func (e *Executor) endStatement(c Cursor) (Cursor, bool, error) {
	c = SkipWhitespace(c)
	if c.AtEnd() && e.eofTerminates {
		return c, false, nil
	}
	return skipStatementTerminator(c)
}

// debugValue reports a statement's value for the `?` terminator
func (e *Executor) debugValue(line int, label string, v Value) {
	if label != "" {
		label += " = "
	}
	e.logger.NoticeCat(CatStatement, "line %d: %s%s", line, label, describeValue(v))
}

// describeValue shows a value with its type for debug output
func describeValue(v Value) string {
	if s, ok := v.(String); ok {
		return `"` + string(s) + `" (string)`
	}
	return v.String() + " (" + TypeOf(v) + ")"
}

// declarationHeader is everything of a declaration before its initializer
type declarationHeader struct {
	name string
	mut  Mutability
	life LifeTime
}

// parseDeclarationHeader reads `var|const var|const name [<life>] =` and
// leaves the cursor at the initializer
func parseDeclarationHeader(c Cursor) (Cursor, declarationHeader, error) {
	var h declarationHeader
	qualifiers := make([]bool, 2)
	for i := range qualifiers {
		if next, ok := keyword(c, "const"); ok {
			qualifiers[i] = true
			c = next
		} else if next, ok := keyword(c, "var"); ok {
			c = next
		} else {
			return c, h, noMatch(c, "expected var or const")
		}
		var width int
		if c, width = CountWhitespace(c); width == 0 {
			return c, h, noMatch(c, "expected whitespace")
		}
	}
	switch {
	case qualifiers[0] && qualifiers[1]:
		h.mut = ConstConst
	case qualifiers[0]:
		h.mut = ConstVar
	case qualifiers[1]:
		h.mut = VarConst
	}

	c, name, err := BindingName(c)
	if err != nil {
		return c, h, err
	}
	h.name = name
	c = SkipWhitespace(c)
	if c.HasPrefix("<") {
		if c, h.life, err = ParseLifeTime(c); err != nil {
			return c, h, err
		}
		c = SkipWhitespace(c)
	}
	c, ok := consumeAssign(c)
	if !ok {
		return c, h, noMatch(c, "expected '='")
	}
	return SkipWhitespace(c), h, nil
}

func (e *Executor) declarationStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, h, err := parseDeclarationHeader(c)
	if err != nil {
		return start, statementResult{}, err
	}
	c, expr, err := ParseExpression(c, nil)
	if err != nil {
		return start, statementResult{}, err
	}
	afterStmt, debug, err := e.endStatement(c)
	if err != nil {
		return start, statementResult{}, err
	}

	// a hoisted binding was bound by the statements before this line and
	// ends here
	if h.life.Hoisted() {
		e.logger.DebugCat(CatScope, "hoisted %s ends at line %d", h.name, start.Line())
		return afterStmt, statementResult{}, nil
	}

	e.traceTree("declaration of "+h.name, expr)
	state := c.State()
	value, err := e.evalExpr(state, expr)
	if err != nil {
		return start, statementResult{}, err
	}
	state.Declare(h.name, value, h.mut, h.life)
	e.logger.DebugCat(CatScope, "declared %s %s%s = %s", h.mut, h.name, lifeSuffix(h.life), value)
	if debug {
		e.debugValue(start.Line(), h.name, value)
	}
	return afterStmt, statementResult{}, nil
}

func lifeSuffix(l LifeTime) string {
	if l.Kind == LifeInfinity {
		return ""
	}
	return " " + l.String()
}

// consumeAssign consumes a lone `=`, refusing `==` and `=>`
func consumeAssign(c Cursor) (Cursor, bool) {
	if !c.HasPrefix("=") || c.HasPrefix("==") || c.HasPrefix("=>") {
		return c, false
	}
	return c.Advance(1), true
}

// assignment operators, longest first
var assignOps = []struct {
	token string
	op    Operator
	step  bool
}{
	{"++", OpAdd, true},
	{"--", OpSub, true},
	{"+=", OpAdd, false},
	{"-=", OpSub, false},
	{"*=", OpMul, false},
	{"/=", OpDiv, false},
	{"%=", OpMod, false},
	{"^=", OpPow, false},
}

// assignment is a parsed assignment statement
type assignment struct {
	name      string
	accessors []Accessor
	plain     bool
	step      bool
	op        Operator
	value     Expr
}

func (e *Executor) assignmentStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, name, err := BindingName(c)
	if err != nil {
		return start, statementResult{}, err
	}
	c, accessors, err := parsePostfix(c)
	if err != nil {
		return start, statementResult{}, err
	}
	a := &assignment{name: name, accessors: accessors}
	c = SkipWhitespace(c)

	if next, ok := consumeAssign(c); ok {
		a.plain = true
		c = next
	} else {
		matched := false
		for _, op := range assignOps {
			if next, ok := c.Consume(op.token); ok {
				a.op, a.step, matched = op.op, op.step, true
				c = next
				break
			}
		}
		if !matched {
			return start, statementResult{}, noMatch(c, "expected assignment operator")
		}
	}
	if !a.step {
		if c, a.value, err = ParseExpression(SkipWhitespace(c), nil); err != nil {
			return start, statementResult{}, err
		}
	}
	afterStmt, debug, err := e.endStatement(c)
	if err != nil {
		return start, statementResult{}, err
	}

	value, err := e.assign(c.State(), a)
	if err != nil {
		return start, statementResult{}, err
	}
	if debug {
		e.debugValue(start.Line(), name, value)
	}
	return afterStmt, statementResult{}, nil
}

// assign evaluates an assignment and returns the stored value
func (e *Executor) assign(state *ExecutionState, a *assignment) (Value, error) {
	var rhs Value = Undefined{}
	if a.value != nil {
		v, err := e.evalExpr(state, a.value)
		if err != nil {
			return nil, err
		}
		rhs = v
	}

	v, exists := state.LookupVariable(a.name)
	if len(a.accessors) == 0 {
		if !exists {
			if !a.plain {
				return nil, &RuntimeError{Kind: KindVariableNotFound, Name: a.name}
			}
			state.Declare(a.name, rhs, VarVar, LifeTime{})
			e.logger.DebugCat(CatScope, "implicitly declared %s", a.name)
			return rhs, nil
		}
		if a.plain {
			if !v.Mutability.Reassignable() {
				return nil, typeError(nil, "cannot reassign %s declared %s", a.name, v.Mutability)
			}
			v.Value = rhs
			return rhs, nil
		}
		if !v.Mutability.Editable() {
			return nil, typeError(nil, "cannot modify %s declared %s", a.name, v.Mutability)
		}
		updated, err := compound(a, v.Value, rhs)
		if err != nil {
			return nil, err
		}
		v.Value = updated
		return updated, nil
	}

	if !exists {
		return nil, &RuntimeError{Kind: KindVariableNotFound, Name: a.name}
	}
	if !v.Mutability.Editable() {
		return nil, typeError(nil, "cannot modify %s declared %s", a.name, v.Mutability)
	}
	container := v.Value
	for _, acc := range a.accessors[:len(a.accessors)-1] {
		key, err := e.accessorKey(state, acc)
		if err != nil {
			return nil, err
		}
		if container, err = readProperty(container, key, nil); err != nil {
			return nil, err
		}
	}
	key, err := e.accessorKey(state, a.accessors[len(a.accessors)-1])
	if err != nil {
		return nil, err
	}
	obj, ok := container.(*Object)
	if !ok {
		return nil, typeError(nil, "cannot set property %s of %s", key, TypeOf(container))
	}
	if a.plain {
		obj.Set(key, rhs)
		return rhs, nil
	}
	updated, err := compound(a, obj.Lookup(key), rhs)
	if err != nil {
		return nil, err
	}
	obj.Set(key, updated)
	return updated, nil
}

// compound applies a compound or step operator to the current value
func compound(a *assignment, current, rhs Value) (Value, error) {
	if a.step {
		if _, ok := current.(BigInt); ok {
			rhs = NewBigInt(1)
		} else {
			rhs = Number(1)
		}
	}
	return BinaryOp(a.op, current, rhs)
}

func (e *Executor) blockStatement(c Cursor, produced *[]Value) (Cursor, statementResult, error) {
	next, body, err := scanBlock(c)
	if err != nil {
		return c, statementResult{}, err
	}
	res, err := e.runBlock(body, produced)
	if err != nil {
		return c, statementResult{}, err
	}
	if res != nil {
		return next, *res, nil
	}
	return next, statementResult{}, nil
}

// branch is one guarded body of a conditional or watch. A nil guard is the
// trailing else.
type branch struct {
	guard     Expr
	guardText string
	guardPos  SourcePosition
	body      Cursor
}

// parseBranches parses `kw guard {..} [else kw guard {..}]* [else {..}]`
func parseBranches(c Cursor, kw string, recorder *referenceRecorder) (Cursor, []branch, error) {
	start := c
	var branches []branch
	guarded := func(c Cursor) (Cursor, branch, error) {
		next, ok := keyword(c, kw)
		if !ok {
			return c, branch{}, noMatch(c, "expected "+kw)
		}
		guardStart := SkipWhitespace(next)
		afterGuard, guard, err := ParseExpression(guardStart.withRecorder(recorder), prefixTerminator("{"))
		if err != nil {
			return c, branch{}, err
		}
		afterGuard = afterGuard.withRecorder(nil)
		afterBody, body, err := scanBlock(SkipWhitespace(afterGuard))
		if err != nil {
			return c, branch{}, err
		}
		text := strings.TrimSpace(guardStart.Until(afterGuard))
		return afterBody, branch{guard: guard, guardText: text, guardPos: guardStart.anchor(), body: body}, nil
	}

	c, first, err := guarded(c)
	if err != nil {
		return start, nil, err
	}
	branches = append(branches, first)
	for {
		afterElse, ok := keyword(SkipWhitespace(c), "else")
		if !ok {
			return c, branches, nil
		}
		afterElse = SkipWhitespace(afterElse)
		if next, b, err := guarded(afterElse); err == nil {
			branches = append(branches, b)
			c = next
			continue
		} else if !isParseError(err) {
			return start, nil, err
		}
		next, body, err := scanBlock(afterElse)
		if err != nil {
			return c, branches, nil
		}
		return next, append(branches, branch{body: body}), nil
	}
}

// runBranches runs the first branch whose guard is truthy
func (e *Executor) runBranches(state *ExecutionState, branches []branch, produced *[]Value) (*statementResult, error) {
	for _, b := range branches {
		if b.guard != nil {
			v, err := e.evalExpr(state, b.guard)
			if err != nil {
				return nil, err
			}
			if !ToBoolean(v) {
				continue
			}
		}
		return e.runBlock(b.body.WithState(state), produced)
	}
	return nil, nil
}

func (e *Executor) conditionalStatement(c Cursor, produced *[]Value) (Cursor, statementResult, error) {
	next, branches, err := parseBranches(c, "if", nil)
	if err != nil {
		return c, statementResult{}, err
	}
	for _, b := range branches {
		e.traceTree("guard "+b.guardText, b.guard)
	}
	res, err := e.runBranches(c.State(), branches, produced)
	if err != nil {
		return c, statementResult{}, err
	}
	if res != nil {
		return next, *res, nil
	}
	return next, statementResult{}, nil
}

// isFunctionKeyword accepts any in-order subsequence of "function" that
// starts with f: function, func, fun, fn, f, ...
func isFunctionKeyword(word string) bool {
	if word == "" || word[0] != 'f' {
		return false
	}
	const full = "function"
	i := 0
	for j := 0; j < len(word); j++ {
		for i < len(full) && full[i] != word[j] {
			i++
		}
		if i == len(full) {
			return false
		}
		i++
	}
	return true
}

func (e *Executor) functionStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, word, err := Identifier(c, nameTerminator)
	if err != nil {
		return start, statementResult{}, err
	}
	if !isFunctionKeyword(word) {
		return start, statementResult{}, noMatch(start, "expected function keyword")
	}
	c, width := CountWhitespace(c)
	if width == 0 {
		return start, statementResult{}, noMatch(c, "expected whitespace")
	}
	c, name, err := BindingName(c)
	if err != nil {
		return start, statementResult{}, err
	}
	c, params, err := parseParams(c)
	if err != nil {
		return start, statementResult{}, err
	}
	c, ok := SkipWhitespace(c).Consume("=>")
	if !ok {
		return start, statementResult{}, noMatch(c, "expected '=>'")
	}
	c, fn, err := parseFunctionBody(c, nil)
	if err != nil {
		return start, statementResult{}, err
	}
	if fn.Block {
		if next, _, err := skipStatementTerminator(SkipWhitespace(c)); err == nil {
			c = next
		}
	} else if c, _, err = e.endStatement(c); err != nil {
		return start, statementResult{}, err
	}

	fn.Name = name
	fn.Params = params
	fn.Line = start.Line()
	c.State().DefineFunction(fn)
	e.logger.DebugCat(CatFunction, "defined %s(%s)", name, strings.Join(params, ", "))
	return c, statementResult{}, nil
}

func (e *Executor) returnStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, ok := keyword(c, "return")
	if !ok {
		return start, statementResult{}, noMatch(c, "expected return")
	}
	var expr Expr
	body := SkipWhitespace(c)
	if !body.AtEnd() && !isStatementTerminator(body) {
		next, parsed, err := ParseExpression(body, nil)
		if err != nil {
			return start, statementResult{}, err
		}
		c, expr = next, parsed
	}
	afterStmt, debug, err := e.endStatement(c)
	if err != nil {
		return start, statementResult{}, err
	}

	var value Value = Undefined{}
	if expr != nil {
		if value, err = e.evalExpr(c.State(), expr); err != nil {
			return start, statementResult{}, err
		}
	}
	e.logger.DebugCat(CatFunction, "return %s", value)
	if debug {
		e.debugValue(start.Line(), "return", value)
	}
	return afterStmt, statementResult{value: value, returned: true}, nil
}

func (e *Executor) callStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, call, err := parseCall(c, nil, false)
	if err != nil {
		return start, statementResult{}, err
	}
	c, accessors, err := parsePostfix(c)
	if err != nil {
		return start, statementResult{}, err
	}
	afterStmt, debug, err := e.endStatement(c)
	if err != nil {
		return start, statementResult{}, err
	}

	atom := &Atom{Base: call, Accessors: accessors, Position: start.Position()}
	e.traceTree("call "+call.Name, atom)
	value, err := e.evalAtom(c.State(), atom)
	if err != nil {
		return start, statementResult{}, err
	}
	if debug {
		e.debugValue(start.Line(), "", value)
	}
	return afterStmt, statementResult{}, nil
}

func (e *Executor) expressionStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	start := c
	c, expr, err := ParseExpression(c, nil)
	if err != nil {
		return start, statementResult{}, err
	}
	afterStmt, debug, err := e.endStatement(c)
	if err != nil {
		return start, statementResult{}, err
	}

	e.traceTree("expression", expr)
	value, err := e.evalExpr(c.State(), expr)
	if err != nil {
		return start, statementResult{}, err
	}
	if debug {
		e.debugValue(start.Line(), "", value)
	}
	return afterStmt, statementResult{value: value, produced: true}, nil
}
