// Package noodles provides an interpreter for a whitespace-precedence
// scripting language that can be embedded in Go applications.
//
// This package re-exports the public API from the implementation in src/.
// For full documentation, see the implementation package.
//
// Basic usage:
//
//	n := noodles.New(noodles.DefaultConfig())
//	n.RegisterFunction("double", 1, func(ctx *noodles.Context) (noodles.Value, error) {
//		return noodles.Number(noodles.ToNumber(ctx.Args[0]) * 2), nil
//	})
//	values, err := n.Evaluate("print double 21!")
package noodles

import (
	impl "github.com/Eddio0141/DreamBerd-3-noodles-interpreter-sub000/src"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Noodles is the main interpreter instance.
type Noodles = impl.Noodles

// Config holds configuration options for the interpreter.
type Config = impl.Config

// Context is passed to native function handlers.
type Context = impl.Context

// Handler is the function signature for native functions.
type Handler = impl.Handler

// SourcePosition tracks the position of code in source files.
type SourcePosition = impl.SourcePosition

// ExecutionState is the stack of scope frames a program runs in.
type ExecutionState = impl.ExecutionState

// Mutability is the var/const qualifier pair of a declaration.
type Mutability = impl.Mutability

// REPL is the Read-Eval-Print Loop for interactive sessions.
type REPL = impl.REPL

// =============================================================================
// VALUE TYPES
// =============================================================================

// Value is any runtime value.
type Value = impl.Value

// Undefined is the undefined value.
type Undefined = impl.Undefined

// Null is the null value.
type Null = impl.Null

// Boolean is a boolean value.
type Boolean = impl.Boolean

// Number is a double precision number.
type Number = impl.Number

// BigInt is an arbitrary precision integer.
type BigInt = impl.BigInt

// String is a string value.
type String = impl.String

// Symbol is a unique value with a description.
type Symbol = impl.Symbol

// Object is a reference to a property map; arrays are objects too.
type Object = impl.Object

// FunctionValue is a user-defined or native function.
type FunctionValue = impl.FunctionValue

// =============================================================================
// ERROR TYPES
// =============================================================================

// ParseError is a local parse failure.
type ParseError = impl.ParseError

// RuntimeError aborts evaluation.
type RuntimeError = impl.RuntimeError

// SyntaxError is input no statement form could parse.
type SyntaxError = impl.SyntaxError

// Sentinel errors for errors.Is.
var (
	ErrFunctionNotFound      = impl.ErrFunctionNotFound
	ErrVariableNotFound      = impl.ErrVariableNotFound
	ErrArgumentCountMismatch = impl.ErrArgumentCountMismatch
	ErrTypeError             = impl.ErrTypeError
	ErrAssertionFailed       = impl.ErrAssertionFailed
	ErrUnexpectedToken       = impl.ErrUnexpectedToken
)

// =============================================================================
// LOGGING
// =============================================================================

// Logger handles diagnostics.
type Logger = impl.Logger

// LogCategory names the subsystem generating a log message.
type LogCategory = impl.LogCategory

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// New creates a new interpreter with the standard library registered.
func New(config *Config) *Noodles {
	return impl.New(config)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return impl.DefaultConfig()
}

// LoadConfigFile reads a YAML or TOML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return impl.LoadConfigFile(path)
}

// NewREPL creates a REPL writing results to the interpreter's output.
func NewREPL(n *Noodles) *REPL {
	return impl.NewREPL(n, n.Config().Stdout)
}

// ToNumber converts a value to a number.
func ToNumber(v Value) float64 {
	return impl.ToNumber(v)
}

// ToBoolean converts a value to a boolean.
func ToBoolean(v Value) bool {
	return impl.ToBoolean(v)
}

// WriteConfigFile saves a configuration as YAML.
func WriteConfigFile(path string, cfg *Config) error {
	return impl.WriteConfigFile(path, cfg)
}
