package noodles

import (
	"fmt"
)

// SourcePosition tracks the position of code in source files
type SourcePosition struct {
	Line     int
	Column   int
	Offset   int
	Length   int
	Filename string
}

// String formats the position as file:line:column
func (p *SourcePosition) String() string {
	if p == nil {
		return "<unknown>"
	}
	filename := p.Filename
	if filename == "" {
		filename = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Column)
}

// Context is passed to native function handlers
type Context struct {
	Args     []Value
	Position *SourcePosition
	state    *ExecutionState
	executor *Executor
	logger   *Logger
}

// Output returns the interpreter's standard output sink
func (c *Context) Output() *Output {
	return c.executor.output
}

// State returns the execution state the call runs in
func (c *Context) State() *ExecutionState {
	return c.state
}

// LogDebug logs a categorized debug message for the running handler
func (c *Context) LogDebug(cat LogCategory, format string, args ...interface{}) {
	c.logger.DebugCat(cat, format, args...)
}

// Errorf builds a TypeError positioned at the call site
func (c *Context) Errorf(format string, args ...interface{}) error {
	return &RuntimeError{
		Kind:     KindTypeError,
		Message:  fmt.Sprintf(format, args...),
		Position: c.Position,
	}
}

// Handler is a native function implementation. It receives exactly as many
// arguments as the arity it was registered with.
type Handler func(*Context) (Value, error)
