package noodles

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Atom is the smallest expression unit: a base followed by postfix accessors
type Atom struct {
	Base      AtomBase
	Accessors []Accessor
	Position  *SourcePosition
}

// AtomBase is one of the resolved atom variants
type AtomBase interface {
	atomBase()
}

// LiteralAtom is a literal or implicit string value
type LiteralAtom struct {
	Value    Value
	Implicit bool
}

// VariableAtom is a variable whose value was read while parsing
type VariableAtom struct {
	Name  string
	Value Value
}

// CallAtom invokes a callable with already-parsed argument expressions
type CallAtom struct {
	Name     string
	Function *FunctionValue
	Args     []Expr
	Position *SourcePosition
}

// ObjectAtom is an object initializer
type ObjectAtom struct {
	Keys   []string
	Values []Expr
}

// ArrayAtom is an array initializer
type ArrayAtom struct {
	Elements []Expr
}

// FunctionAtom is a function literal
type FunctionAtom struct {
	Function *FunctionValue
}

func (*LiteralAtom) atomBase()  {}
func (*VariableAtom) atomBase() {}
func (*CallAtom) atomBase()     {}
func (*ObjectAtom) atomBase()   {}
func (*ArrayAtom) atomBase()    {}
func (*FunctionAtom) atomBase() {}

// atomParser is one alternative of the resolution order
type atomParser func(Cursor, Terminator) (Cursor, AtomBase, error)

// ParseAtom resolves the atom under the cursor, trying call, variable,
// literal, object, array, function literal and finally implicit string. Each
// failed alternative backtracks; runtime errors end the search.
func ParseAtom(c Cursor, term Terminator) (Cursor, *Atom, error) {
	alternatives := []atomParser{
		parseCallAtom,
		parseVariableAtom,
		parseLiteralAtom,
		parseObjectAtom,
		parseArrayAtom,
		parseFunctionAtom,
		parseImplicitString,
	}
	pos := c.Position()
	for _, alt := range alternatives {
		next, base, err := alt(c, term)
		if err != nil {
			if isParseError(err) {
				continue
			}
			return c, nil, withPosition(err, pos)
		}
		next, accessors, err := parsePostfix(next)
		if err != nil {
			return c, nil, err
		}
		return next, &Atom{Base: base, Accessors: accessors, Position: pos}, nil
	}
	return c, nil, noMatch(c, "expected an expression")
}

func parseCallAtom(c Cursor, term Terminator) (Cursor, AtomBase, error) {
	next, call, err := parseCall(c, term, true)
	if err != nil {
		return c, nil, err
	}
	return next, call, nil
}

// parseCall resolves a callable name and reads exactly as many
// comma-separated arguments as its arity demands. strict lookups stop at a
// variable of the same name that does not hold a function.
func parseCall(c Cursor, term Terminator, strict bool) (Cursor, *CallAtom, error) {
	start := c
	c, name, err := BindingName(c)
	if err != nil {
		return start, nil, err
	}
	fn, ok := c.State().LookupCallable(name, strict)
	if !ok {
		return start, nil, noMatch(start, "not a function: "+name)
	}

	arity := fn.Arity()
	call := &CallAtom{Name: name, Function: fn, Args: make([]Expr, 0, arity), Position: start.Position()}
	mismatch := func(got int) error {
		return &RuntimeError{Kind: KindArgumentCountMismatch, Name: name, Expected: arity, Got: got, Position: start.Position()}
	}
	for i := 0; i < arity; i++ {
		argTerm := term
		if i < arity-1 {
			argTerm = anyTerminator(term, prefixTerminator(","))
		}
		c = SkipWhitespace(c)
		if c.AtEnd() || isStatementTerminator(c) || term != nil && term(c) {
			return start, nil, mismatch(i)
		}
		next, arg, err := ParseExpression(c, argTerm)
		if err != nil {
			if isParseError(err) {
				return start, nil, mismatch(i)
			}
			return start, nil, err
		}
		call.Args = append(call.Args, arg)
		c = next
		if i < arity-1 {
			next, ok := SkipWhitespace(c).Consume(",")
			if !ok {
				return start, nil, mismatch(i + 1)
			}
			c = next
		}
	}
	return c, call, nil
}

func parseVariableAtom(c Cursor, _ Terminator) (Cursor, AtomBase, error) {
	next, name, err := BindingName(c)
	if err != nil {
		return c, nil, err
	}
	v, ok := c.State().LookupVariable(name)
	if !ok {
		return c, nil, noMatch(c, "not a variable: "+name)
	}
	c.recordReference(name)
	return next, &VariableAtom{Name: name, Value: v.Value}, nil
}

func parseLiteralAtom(c Cursor, _ Terminator) (Cursor, AtomBase, error) {
	next, v, err := ParseLiteral(c)
	if err != nil {
		return c, nil, err
	}
	return next, &LiteralAtom{Value: v}, nil
}

var literalKeywords = []struct {
	word  string
	value Value
}{
	{"true", Boolean(true)},
	{"false", Boolean(false)},
	{"null", Null{}},
	{"undefined", Undefined{}},
	{"Infinity", Number(math.Inf(1))},
	{"NaN", Number(math.NaN())},
}

// ParseLiteral parses keywords, numbers, big integers and quoted strings
func ParseLiteral(c Cursor) (Cursor, Value, error) {
	for _, kw := range literalKeywords {
		if next, ok := keyword(c, kw.word); ok {
			return next, kw.value, nil
		}
	}
	if r, _ := c.Peek(); r == '"' || r == '\'' {
		return parseQuotedString(c)
	}
	return parseNumber(c)
}

func parseNumber(c Cursor) (Cursor, Value, error) {
	s := c.Rest()
	i := scanDigits(s, 0)
	if i == 0 {
		return c, nil, noMatch(c, "expected a literal")
	}
	integer := true
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i = scanDigits(s, i+1)
		integer = false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if end := scanDigits(s, j); end > j {
			i = end
			integer = false
		}
	}

	text := s[:i]
	var v Value
	if integer && i < len(s) && s[i] == 'n' {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return c, nil, noMatch(c, "invalid big integer")
		}
		v = BigInt{Int: n}
		i++
	} else {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return c, nil, noMatch(c, "invalid number")
		}
		v = Number(f)
	}

	next := c.Advance(i)
	if r, _ := next.Peek(); !next.AtEnd() && isWordRune(r) {
		return c, nil, noMatch(c, "number runs into a word")
	}
	return next, v, nil
}

func scanDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// parseQuotedString reads a string opened by any run of quote characters and
// closed by the same run. An even run standing alone is an empty string.
func parseQuotedString(c Cursor) (Cursor, Value, error) {
	s := c.Rest()
	open := 0
	for open < len(s) && (s[open] == '"' || s[open] == '\'') {
		open++
	}
	delim := s[:open]
	if open%2 == 0 && delim[:open/2] == delim[open/2:] {
		next := c.Advance(open)
		if r, _ := next.Peek(); next.AtEnd() || isWhitespaceRune(r) || strings.ContainsRune(nameStops, r) {
			return next, String(""), nil
		}
	}

	var b strings.Builder
	for i := open; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case strings.HasPrefix(s[i:], delim):
			return c.Advance(i + open), String(b.String()), nil
		default:
			b.WriteByte(s[i])
		}
	}
	return c, nil, noMatch(c, "unterminated string")
}

func parseObjectAtom(c Cursor, _ Terminator) (Cursor, AtomBase, error) {
	start := c
	c, ok := c.Consume("{")
	if !ok {
		return start, nil, noMatch(start, "expected '{'")
	}
	obj := &ObjectAtom{}
	valueTerm := prefixTerminator(",", "}")
	for {
		c = SkipWhitespace(c)
		if next, ok := c.Consume("}"); ok {
			return next, obj, nil
		}

		var key string
		if r, _ := c.Peek(); r == '"' || r == '\'' {
			next, v, err := parseQuotedString(c)
			if err != nil {
				return start, nil, err
			}
			c, key = next, v.String()
		} else {
			next, name, err := Identifier(c, prefixTerminator(":", ",", "}"))
			if err != nil {
				return start, nil, err
			}
			c, key = next, name
		}

		c, ok = SkipWhitespace(c).Consume(":")
		if !ok {
			return start, nil, unexpectedToken(c, "expected ':' in object initializer")
		}
		next, value, err := ParseExpression(SkipWhitespace(c), valueTerm)
		if err != nil {
			return start, nil, err
		}
		obj.Keys = append(obj.Keys, key)
		obj.Values = append(obj.Values, value)

		c = SkipWhitespace(next)
		if next, ok := c.Consume(","); ok {
			c = next
			continue
		}
		if next, ok := c.Consume("}"); ok {
			return next, obj, nil
		}
		return start, nil, unexpectedToken(c, "expected ',' or '}' in object initializer")
	}
}

func parseArrayAtom(c Cursor, _ Terminator) (Cursor, AtomBase, error) {
	start := c
	c, ok := c.Consume("[")
	if !ok {
		return start, nil, noMatch(start, "expected '['")
	}
	arr := &ArrayAtom{}
	elemTerm := prefixTerminator(",", "]")
	for {
		c = SkipWhitespace(c)
		if next, ok := c.Consume("]"); ok {
			return next, arr, nil
		}
		next, elem, err := ParseExpression(c, elemTerm)
		if err != nil {
			return start, nil, err
		}
		arr.Elements = append(arr.Elements, elem)

		c = SkipWhitespace(next)
		if next, ok := c.Consume(","); ok {
			c = next
			continue
		}
		if next, ok := c.Consume("]"); ok {
			return next, arr, nil
		}
		return start, nil, unexpectedToken(c, "expected ',' or ']' in array initializer")
	}
}

func parseFunctionAtom(c Cursor, term Terminator) (Cursor, AtomBase, error) {
	start := c
	c, params, err := parseParams(c)
	if err != nil {
		return start, nil, err
	}
	c, ok := SkipWhitespace(c).Consume("=>")
	if !ok {
		return start, nil, noMatch(c, "expected '=>'")
	}
	c, fn, err := parseFunctionBody(c, term)
	if err != nil {
		return start, nil, err
	}
	fn.Params = params
	fn.Line = start.Line()
	return c, &FunctionAtom{Function: fn}, nil
}

// parseParams reads zero or more comma-separated parameter names
func parseParams(c Cursor) (Cursor, []string, error) {
	var params []string
	for {
		c = SkipWhitespace(c)
		if c.HasPrefix("=>") {
			return c, params, nil
		}
		next, name, err := BindingName(c)
		if err != nil {
			return c, nil, err
		}
		params = append(params, name)
		c = SkipWhitespace(next)
		if next, ok := c.Consume(","); ok {
			c = next
			continue
		}
		return c, params, nil
	}
}

// parseFunctionBody captures a block body `{...}` or an expression body up
// to the statement terminator as source text for later re-parsing
func parseFunctionBody(c Cursor, term Terminator) (Cursor, *FunctionValue, error) {
	c = SkipWhitespace(c)
	if c.HasPrefix("{") {
		next, body, err := scanBlock(c)
		if err != nil {
			return c, nil, err
		}
		return next, &FunctionValue{Body: body.Rest(), BodyPos: body.anchor(), Block: true}, nil
	}
	next, body := scanExpressionSource(c, term)
	text := strings.TrimRight(body, " \t\r\n")
	if text == "" {
		return c, nil, noMatch(c, "empty function body")
	}
	return next, &FunctionValue{Body: text, BodyPos: c.anchor()}, nil
}

// parseImplicitString turns everything up to the next terminator into a
// string. Unresolved words become text rather than errors.
func parseImplicitString(c Cursor, term Terminator) (Cursor, AtomBase, error) {
	if c.HasPrefix("}") {
		return c, nil, noMatch(c, "unexpected '}'")
	}
	next, text, err := TerminatedChunk(c, anyTerminator(isStatementTerminator, term))
	if err != nil {
		return c, nil, err
	}
	trimmed := strings.TrimRight(text, " \t\r\n")
	if trimmed == "" {
		return c, nil, noMatch(c, "empty implicit string")
	}
	return next, &LiteralAtom{Value: String(trimmed), Implicit: true}, nil
}
