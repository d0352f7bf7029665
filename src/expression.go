package noodles

// Expr is a node of a parsed expression tree
type Expr interface {
	exprNode()
}

// AtomExpr wraps a resolved atom
type AtomExpr struct {
	Atom *Atom
}

// UnaryExpr applies a prefix operator to its operand
type UnaryExpr struct {
	Op      UnaryOperator
	Operand Expr
}

// BinaryExpr combines two operands
type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*AtomExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}

// unaryRun is a run of one unary operator written without gaps, with the
// whitespace that follows it
type unaryRun struct {
	op    UnaryOperator
	count int
	width int
}

// parseUnaryRuns reads the prefix operators in front of an atom. Identical
// operators written back to back merge into one run.
func parseUnaryRuns(c Cursor) (Cursor, []unaryRun) {
	var runs []unaryRun
	for {
		next, op, err := ParseUnaryOperator(c)
		if err != nil {
			return c, runs
		}
		after, width := CountWhitespace(next)
		if n := len(runs); n > 0 && runs[n-1].op == op && runs[n-1].width == 0 {
			runs[n-1].count++
			runs[n-1].width = width
		} else {
			runs = append(runs, unaryRun{op: op, count: 1, width: width})
		}
		c = after
	}
}

// collapseUnaryRuns cancels operators in pairs. A run that cancels entirely
// gives its whitespace to the nearest surviving run on its left.
func collapseUnaryRuns(runs []unaryRun) []unaryRun {
	kept := make([]unaryRun, 0, len(runs))
	for _, r := range runs {
		if r.count%2 == 0 {
			if n := len(kept); n > 0 {
				kept[n-1].width += r.width
			}
			continue
		}
		kept = append(kept, unaryRun{op: r.op, count: 1, width: r.width})
	}
	return kept
}

// parseOperand parses the pending unary runs and the atom they apply to. If
// nothing parses after the operators, the operators themselves are retried
// as the start of an atom.
func parseOperand(c Cursor, term Terminator) (Cursor, []unaryRun, Expr, error) {
	afterOps, runs := parseUnaryRuns(c)
	if len(runs) > 0 {
		next, atom, err := ParseAtom(afterOps, term)
		if err == nil {
			return next, collapseUnaryRuns(runs), &AtomExpr{Atom: atom}, nil
		}
		if !isParseError(err) {
			return c, nil, nil, err
		}
	}
	next, atom, err := ParseAtom(c, term)
	if err != nil {
		return c, nil, nil, err
	}
	return next, nil, &AtomExpr{Atom: atom}, nil
}

// pendingOp is an operator waiting on the fold stack
type pendingOp struct {
	unary bool
	uop   UnaryOperator
	op    Operator
	width int
}

// exprFolder builds the tree with an operator stack. Operators with less
// surrounding whitespace bind first; equal widths fall back to the tie-break
// class, and equal classes associate to the left.
type exprFolder struct {
	operands []Expr
	ops      []pendingOp
}

func (f *exprFolder) pushOperand(runs []unaryRun, operand Expr) {
	for _, r := range runs {
		f.ops = append(f.ops, pendingOp{unary: true, uop: r.op, width: r.width})
	}
	f.operands = append(f.operands, operand)
}

func (f *exprFolder) reduce() {
	top := f.ops[len(f.ops)-1]
	f.ops = f.ops[:len(f.ops)-1]
	n := len(f.operands)
	if top.unary {
		f.operands[n-1] = &UnaryExpr{Op: top.uop, Operand: f.operands[n-1]}
		return
	}
	f.operands[n-2] = &BinaryExpr{Left: f.operands[n-2], Op: top.op, Right: f.operands[n-1]}
	f.operands = f.operands[:n-1]
}

// pushBinary resolves everything on the stack that binds at least as tightly
// as op, then queues op
func (f *exprFolder) pushBinary(op Operator, width int) {
	for len(f.ops) > 0 {
		top := f.ops[len(f.ops)-1]
		if top.unary {
			if top.width > width {
				break
			}
		} else if top.width > width || top.width == width && top.op.Class() < op.Class() {
			break
		}
		f.reduce()
	}
	f.ops = append(f.ops, pendingOp{op: op, width: width})
}

func (f *exprFolder) finish() Expr {
	for len(f.ops) > 0 {
		f.reduce()
	}
	return f.operands[0]
}

// ParseExpression parses an operand followed by any number of binary
// operator and operand pairs. term marks where an embedded expression ends
// and bounds implicit strings; it may be nil.
func ParseExpression(c Cursor, term Terminator) (Cursor, Expr, error) {
	c, runs, first, err := parseOperand(c, term)
	if err != nil {
		return c, nil, err
	}
	f := &exprFolder{}
	f.pushOperand(runs, first)

	for {
		afterLeft, before := CountWhitespace(c)
		if afterLeft.AtEnd() || term != nil && term(afterLeft) {
			break
		}
		afterOp, op, err := ParseBinaryOperator(afterLeft)
		if err != nil {
			break
		}
		afterRight, after := CountWhitespace(afterOp)
		next, runs, operand, err := parseOperand(afterRight, term)
		if err != nil {
			if !isParseError(err) {
				return c, nil, err
			}
			break
		}
		f.pushBinary(op, before+after)
		f.pushOperand(runs, operand)
		c = next
	}
	return c, f.finish(), nil
}

// parseFullExpression parses an expression that must span all of c
func parseFullExpression(c Cursor) (Expr, error) {
	next, expr, err := ParseExpression(SkipWhitespace(c), nil)
	if err != nil {
		return nil, err
	}
	if rest := SkipWhitespace(next); !rest.AtEnd() {
		return nil, unexpectedToken(rest, "unexpected input after expression")
	}
	return expr, nil
}

// hasImplicitString reports whether any atom of expr fell back to an
// implicit string
func hasImplicitString(expr Expr) bool {
	switch x := expr.(type) {
	case *UnaryExpr:
		return hasImplicitString(x.Operand)
	case *BinaryExpr:
		return hasImplicitString(x.Left) || hasImplicitString(x.Right)
	case *AtomExpr:
		if lit, ok := x.Atom.Base.(*LiteralAtom); ok {
			return lit.Implicit
		}
	}
	return false
}
