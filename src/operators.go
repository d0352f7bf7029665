package noodles

// Operator is a binary operator
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEqual
	OpStrictEqual
	OpNotEqual
	OpStrictNotEqual
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpAnd
	OpOr
)

// binaryTokens is ordered so longer tokens are tried before their prefixes
var binaryTokens = []struct {
	token string
	op    Operator
}{
	{"===", OpStrictEqual},
	{"!==", OpStrictNotEqual},
	{"==", OpEqual},
	{"!=", OpNotEqual},
	{"<=", OpLessEqual},
	{">=", OpGreaterEqual},
	{"&&", OpAnd},
	{"||", OpOr},
	{"<", OpLess},
	{">", OpGreater},
	{"+", OpAdd},
	{"-", OpSub},
	{"*", OpMul},
	{"/", OpDiv},
	{"%", OpMod},
	{"^", OpPow},
}

func (op Operator) String() string {
	for _, t := range binaryTokens {
		if t.op == op {
			return t.token
		}
	}
	return "?"
}

// Class is the tie-break priority consulted only when two neighbouring
// operators carry the same amount of whitespace. Higher binds first.
func (op Operator) Class() int {
	switch op {
	case OpMul, OpDiv, OpMod:
		return 1
	case OpPow:
		return 2
	}
	return 0
}

// ParseBinaryOperator recognizes a binary operator token at the cursor. A
// token directly followed by `=` is left alone so compound assignments and
// `=>` are never mistaken for operators.
func ParseBinaryOperator(c Cursor) (Cursor, Operator, error) {
	for _, t := range binaryTokens {
		next, ok := c.Consume(t.token)
		if !ok {
			continue
		}
		if next.HasPrefix("=") {
			return c, 0, noMatch(c, "assignment operator")
		}
		return next, t.op, nil
	}
	return c, 0, noMatch(c, "expected binary operator")
}

// UnaryOperator is a prefix operator
type UnaryOperator int

const (
	UnaryNegate UnaryOperator = iota
	UnaryNot
)

func (op UnaryOperator) String() string {
	if op == UnaryNot {
		return ";"
	}
	return "-"
}

// ParseUnaryOperator recognizes `-` (negate) or `;` (not)
func ParseUnaryOperator(c Cursor) (Cursor, UnaryOperator, error) {
	if next, ok := c.Consume("-"); ok {
		return next, UnaryNegate, nil
	}
	if next, ok := c.Consume(";"); ok {
		return next, UnaryNot, nil
	}
	return c, 0, noMatch(c, "expected unary operator")
}
