package noodles

import (
	"github.com/davecgh/go-spew/spew"
)

// Executor parses and evaluates statements against an ExecutionState
type Executor struct {
	logger *Logger
	output *Output
	config *Config

	// eofTerminates lets the end of input close the last statement, which
	// the REPL relies on for lines typed without a trailing `!`
	eofTerminates bool
}

// NewExecutor creates an executor writing program output to output
func NewExecutor(logger *Logger, output *Output, config *Config) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Executor{
		logger: logger,
		output: output,
		config: config,
	}
}

// treeDumper renders parsed trees for trace logging
var treeDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (e *Executor) traceTree(label string, v interface{}) {
	if !e.logger.shouldLog(LevelTrace, CatExpression) {
		return
	}
	e.logger.TraceCat(CatExpression, "%s\n%s", label, treeDumper.Sdump(v))
}

// ExecuteWithState runs every statement of source in state and returns the
// values produced by bare expression statements
func (e *Executor) ExecuteWithState(source, filename string, state *ExecutionState) ([]Value, error) {
	return e.execute(NewCursor(source, filename, state))
}

func (e *Executor) execute(c Cursor) ([]Value, error) {
	var produced []Value
	if _, err := e.runStatements(c, &produced); err != nil {
		return produced, err
	}
	return produced, nil
}

// runStatements is the statement loop: parse one statement, evaluate it,
// re-check watches, repeat. It stops at the end of input or at a return.
// Declarations with a negative life time are bound once the statement loop
// reaches the lines before them.
func (e *Executor) runStatements(c Cursor, produced *[]Value) (*statementResult, error) {
	hoists := scanHoists(c)
	for {
		c = SkipWhitespace(c)
		if c.AtEnd() {
			return nil, nil
		}
		if len(hoists) > 0 {
			c.State().SetLine(c.Line())
			if err := e.bindHoists(c.State(), hoists, c.Line()); err != nil {
				return nil, withPosition(err, c.Position())
			}
		}
		next, res, err := e.executeStatement(c, produced)
		if err != nil {
			return nil, withPosition(err, c.Position())
		}
		if res.produced && produced != nil {
			*produced = append(*produced, res.value)
		}
		if res.returned {
			return &res, nil
		}
		if err := e.checkWatches(c.State()); err != nil {
			return nil, err
		}
		c = next
	}
}

// runBlock runs body in a fresh frame
func (e *Executor) runBlock(body Cursor, produced *[]Value) (*statementResult, error) {
	state := body.State()
	if err := state.PushScope(); err != nil {
		return nil, withPosition(err, body.Position())
	}
	defer state.PopScope()
	e.logger.TraceCat(CatScope, "entered scope depth %d", state.Depth())
	return e.runStatements(body, produced)
}

func (e *Executor) evalExpr(state *ExecutionState, expr Expr) (Value, error) {
	switch x := expr.(type) {
	case *AtomExpr:
		return e.evalAtom(state, x.Atom)
	case *UnaryExpr:
		v, err := e.evalExpr(state, x.Operand)
		if err != nil {
			return nil, err
		}
		return UnaryOp(x.Op, v)
	case *BinaryExpr:
		left, err := e.evalExpr(state, x.Left)
		if err != nil {
			return nil, err
		}
		switch {
		case x.Op == OpAnd && !ToBoolean(left):
			return left, nil
		case x.Op == OpOr && ToBoolean(left):
			return left, nil
		}
		right, err := e.evalExpr(state, x.Right)
		if err != nil {
			return nil, err
		}
		return BinaryOp(x.Op, left, right)
	}
	return nil, typeError(nil, "unknown expression node %T", expr)
}

func (e *Executor) evalAtom(state *ExecutionState, atom *Atom) (Value, error) {
	v, err := e.evalAtomBase(state, atom.Base)
	if err != nil {
		return nil, withPosition(err, atom.Position)
	}
	for _, acc := range atom.Accessors {
		key, err := e.accessorKey(state, acc)
		if err != nil {
			return nil, err
		}
		if v, err = readProperty(v, key, atom.Position); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (e *Executor) accessorKey(state *ExecutionState, acc Accessor) (string, error) {
	switch a := acc.(type) {
	case *DotAccessor:
		return a.Name, nil
	case *IndexAccessor:
		idx, err := e.evalExpr(state, a.Index)
		if err != nil {
			return "", err
		}
		return PropertyKey(idx), nil
	}
	return "", typeError(nil, "unknown accessor %T", acc)
}

func (e *Executor) evalAtomBase(state *ExecutionState, base AtomBase) (Value, error) {
	switch b := base.(type) {
	case *LiteralAtom:
		return b.Value, nil
	case *VariableAtom:
		return b.Value, nil
	case *CallAtom:
		args := make([]Value, 0, len(b.Args))
		for _, argExpr := range b.Args {
			arg, err := e.evalExpr(state, argExpr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return e.callFunction(state, b.Function, args, b.Position)
	case *ObjectAtom:
		obj := NewObject()
		for i, key := range b.Keys {
			v, err := e.evalExpr(state, b.Values[i])
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		return obj, nil
	case *ArrayAtom:
		elements := make([]Value, 0, len(b.Elements))
		for _, el := range b.Elements {
			v, err := e.evalExpr(state, el)
			if err != nil {
				return nil, err
			}
			elements = append(elements, v)
		}
		return NewArray(elements), nil
	case *FunctionAtom:
		return b.Function, nil
	}
	return nil, typeError(nil, "unknown atom %T", base)
}

// callFunction invokes fn with exactly its arity of arguments. User
// functions run in a new frame pushed onto the caller's stack, so free names
// in the body resolve against whatever is in scope at call time.
func (e *Executor) callFunction(state *ExecutionState, fn *FunctionValue, args []Value, pos *SourcePosition) (Value, error) {
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{Kind: KindArgumentCountMismatch, Name: fn.Name, Expected: fn.Arity(), Got: len(args), Position: pos}
	}
	if fn.Native != nil {
		e.logger.DebugCat(CatFunction, "calling native %s with %d argument(s)", fn.Name, len(args))
		ctx := &Context{Args: args, Position: pos, state: state, executor: e, logger: e.logger}
		v, err := fn.Native(ctx)
		if err != nil {
			return nil, withPosition(err, pos)
		}
		if v == nil {
			v = Undefined{}
		}
		return v, nil
	}

	e.logger.DebugCat(CatFunction, "calling %s (defined on line %d)", fn, fn.Line)
	if err := state.PushScope(); err != nil {
		return nil, withPosition(err, pos)
	}
	defer state.PopScope()
	for i, name := range fn.Params {
		state.Declare(name, args[i], VarVar, LifeTime{})
	}

	body := cursorAt(fn.Body, fn.BodyPos, state)
	if fn.Block {
		res, err := e.runStatements(body, nil)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res.value, nil
		}
		return Undefined{}, nil
	}

	expr, err := parseFullExpression(body)
	if err != nil {
		return nil, asSyntaxError(err)
	}
	e.traceTree("function body "+fn.String(), expr)
	return e.evalExpr(state, expr)
}

// asSyntaxError stops a parse failure from being mistaken for a failed
// alternative once evaluation has started
func asSyntaxError(err error) error {
	if pe, ok := err.(*ParseError); ok {
		return &SyntaxError{Err: pe}
	}
	return err
}
