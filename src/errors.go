package noodles

import (
	"errors"
	"fmt"
)

// ParseErrorKind classifies local parse failures. Parse errors only steer the
// choice between alternatives; they never carry runtime meaning.
type ParseErrorKind int

const (
	ParseNoMatch ParseErrorKind = iota
	ParseEmptyIdentifier
	ParseMalformedLifeTime
	ParseUnexpectedToken
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseEmptyIdentifier:
		return "empty identifier"
	case ParseMalformedLifeTime:
		return "malformed life time"
	case ParseUnexpectedToken:
		return "unexpected token"
	default:
		return "no match"
	}
}

// ParseError represents a failed parse attempt at a position
type ParseError struct {
	Kind     ParseErrorKind
	Message  string
	Position *SourcePosition
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("parse error: %s at %s", e.Kind, e.Position)
	}
	return fmt.Sprintf("parse error: %s: %s at %s", e.Kind, e.Message, e.Position)
}

// Is matches parse errors by kind so errors.Is works against the sentinels
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Position == nil && t.Kind == e.Kind
}

// RuntimeErrorKind classifies errors that abort evaluation
type RuntimeErrorKind int

const (
	KindFunctionNotFound RuntimeErrorKind = iota
	KindVariableNotFound
	KindArgumentCountMismatch
	KindTypeError
	KindAssertionFailed
)

func (k RuntimeErrorKind) String() string {
	switch k {
	case KindFunctionNotFound:
		return "FunctionNotFound"
	case KindVariableNotFound:
		return "VariableNotFound"
	case KindArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case KindTypeError:
		return "TypeError"
	case KindAssertionFailed:
		return "AssertionFailed"
	}
	return "RuntimeError"
}

// RuntimeError is surfaced to the caller of Evaluate and terminates evaluation
type RuntimeError struct {
	Kind     RuntimeErrorKind
	Name     string
	Expected int
	Got      int
	Message  string
	Position *SourcePosition
}

func (e *RuntimeError) Error() string {
	var detail string
	switch e.Kind {
	case KindFunctionNotFound:
		detail = fmt.Sprintf("function not found: %s", e.Name)
	case KindVariableNotFound:
		detail = fmt.Sprintf("variable not found: %s", e.Name)
	case KindArgumentCountMismatch:
		detail = fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, e.Expected, e.Got)
	case KindAssertionFailed:
		detail = "assertion failed"
		if e.Message != "" {
			detail += ": " + e.Message
		}
	default:
		detail = e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, detail)
}

// Is matches runtime errors by kind so errors.Is works against the sentinels
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	return ok && t.Position == nil && t.Name == "" && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNoMatch           = &ParseError{Kind: ParseNoMatch}
	ErrEmptyIdentifier   = &ParseError{Kind: ParseEmptyIdentifier}
	ErrMalformedLifeTime = &ParseError{Kind: ParseMalformedLifeTime}
	ErrUnexpectedToken   = &ParseError{Kind: ParseUnexpectedToken}

	ErrFunctionNotFound      = &RuntimeError{Kind: KindFunctionNotFound}
	ErrVariableNotFound      = &RuntimeError{Kind: KindVariableNotFound}
	ErrArgumentCountMismatch = &RuntimeError{Kind: KindArgumentCountMismatch}
	ErrTypeError             = &RuntimeError{Kind: KindTypeError}
	ErrAssertionFailed       = &RuntimeError{Kind: KindAssertionFailed}
)

func noMatch(c Cursor, message string) error {
	return &ParseError{Kind: ParseNoMatch, Message: message, Position: c.Position()}
}

func unexpectedToken(c Cursor, message string) error {
	return &ParseError{Kind: ParseUnexpectedToken, Message: message, Position: c.Position()}
}

func typeError(pos *SourcePosition, format string, args ...interface{}) error {
	return &RuntimeError{Kind: KindTypeError, Message: fmt.Sprintf(format, args...), Position: pos}
}

// SyntaxError is input that no statement form could parse. It wraps the
// underlying *ParseError for errors.Is and errors.As, but as a distinct type
// it ends evaluation instead of steering backtracking.
type SyntaxError struct {
	Err *ParseError
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("could not parse remaining input at %s: %s", e.Err.Position, e.Err.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// isParseError reports whether err only signals a failed alternative.
// Wrapped parse errors do not count.
func isParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// withPosition fills in a missing position on runtime errors
func withPosition(err error, pos *SourcePosition) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Position == nil {
		re.Position = pos
	}
	return err
}
