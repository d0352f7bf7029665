package noodles

import (
	"errors"
	"strings"
)

// Noodles is the interpreter: one global state shared by every evaluation
type Noodles struct {
	config   *Config
	logger   *Logger
	output   *Output
	executor *Executor
	state    *ExecutionState

	// natives are re-registered into a fresh state on Reset
	natives []*FunctionValue

	// replLines is every line typed into the REPL so far; positions of REPL
	// input are numbered against it
	replLines []string
}

// New creates a new interpreter with the standard library registered
func New(config *Config) *Noodles {
	if config == nil {
		config = DefaultConfig()
	}

	logger := NewLogger(config.Debug, config.Stderr)
	logger.SetContextLines(config.ContextLines)
	if !config.Color {
		logger.SetColor(false)
	}
	cats, err := config.Categories()
	if err != nil {
		logger.WarnCat(CatConfig, "%v", err)
	}
	if len(cats) == 0 {
		logger.EnableAllCategories()
	}
	for _, cat := range cats {
		logger.EnableCategory(cat)
	}

	output := NewOutput(config.Stdout)
	n := &Noodles{
		config:   config,
		logger:   logger,
		output:   output,
		executor: NewExecutor(logger, output, config),
	}
	n.Reset()
	n.RegisterStandardLibrary()
	return n
}

// RegisterFunction binds a native function in the global frame
func (n *Noodles) RegisterFunction(name string, arity int, handler Handler) {
	fn := NewNativeFunction(name, arity, handler)
	n.natives = append(n.natives, fn)
	n.state.DefineFunction(fn)
	n.logger.DebugCat(CatStdlib, "registered %s/%d", name, arity)
}

// Reset discards every binding made by user code
func (n *Noodles) Reset() {
	n.state = NewExecutionState()
	n.state.SetMaxDepth(n.config.MaxScopeDepth)
	for _, fn := range n.natives {
		n.state.DefineFunction(fn)
	}
	n.replLines = nil
}

// Evaluate runs source and returns the values of its bare expression
// statements
func (n *Noodles) Evaluate(source string) ([]Value, error) {
	return n.EvaluateFile(source, "")
}

// EvaluateFile runs source, attributing positions to filename
func (n *Noodles) EvaluateFile(source, filename string) ([]Value, error) {
	return n.executor.ExecuteWithState(source, filename, n.state)
}

// EvaluateREPL runs one line of interactive input. The whole line is first
// tried as a single expression; anything else runs as statements, where the
// end of the line may stand in for the last terminator.
func (n *Noodles) EvaluateREPL(line string) ([]Value, error) {
	start := SourcePosition{Line: len(n.replLines) + 1, Column: 1, Filename: "<repl>"}
	n.replLines = append(n.replLines, strings.Split(line, "\n")...)

	trimmed := strings.TrimRight(line, " \t\r\n!?")
	c := cursorAt(trimmed, start, n.state)
	n.state.SetLine(start.Line)
	if expr, err := parseFullExpression(c); err == nil && !hasImplicitString(expr) {
		n.logger.DebugCat(CatREPL, "evaluating input as an expression")
		n.executor.traceTree("repl expression", expr)
		v, err := n.executor.evalExpr(n.state, expr)
		if err != nil {
			return nil, withPosition(err, c.Position())
		}
		if err := n.executor.checkWatches(n.state); err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}

	n.executor.eofTerminates = true
	defer func() { n.executor.eofTerminates = false }()
	return n.executor.execute(cursorAt(line, start, n.state))
}

// Call invokes a function visible in the global frame from Go. Watches are
// checked afterwards, as after any statement.
func (n *Noodles) Call(name string, args ...Value) (Value, error) {
	fn, ok := n.state.LookupCallable(name, false)
	if !ok {
		return nil, &RuntimeError{Kind: KindFunctionNotFound, Name: name}
	}
	v, err := n.executor.callFunction(n.state, fn, args, nil)
	if err != nil {
		return nil, err
	}
	if err := n.executor.checkWatches(n.state); err != nil {
		return nil, err
	}
	return v, nil
}

// ReportError logs err with the source lines around its position
func (n *Noodles) ReportError(err error, source string) {
	var pos *SourcePosition
	var pe *ParseError
	var re *RuntimeError
	switch {
	case errors.As(err, &re):
		pos = re.Position
	case errors.As(err, &pe):
		pos = pe.Position
	}

	var context []string
	if n.config.ShowErrorContext && pos != nil {
		if pos.Filename == "<repl>" {
			context = n.replLines
		} else {
			context = strings.Split(source, "\n")
		}
	}

	var se *SyntaxError
	if errors.As(err, &se) {
		n.logger.SyntaxError(se.Error(), pos, context)
		return
	}
	n.logger.ErrorWithPosition(CatNone, err.Error(), pos, context)
}

// State returns the global execution state
func (n *Noodles) State() *ExecutionState {
	return n.state
}

// Logger returns the interpreter's logger
func (n *Noodles) Logger() *Logger {
	return n.logger
}

// Config returns the configuration the interpreter was created with
func (n *Noodles) Config() *Config {
	return n.config
}
