package noodles

import (
	"math"
	"time"
)

// RegisterStandardLibrary registers the built-in functions into the global
// frame. It runs before any user code.
func (n *Noodles) RegisterStandardLibrary() {
	// print - writes its argument followed by a newline
	// Usage: print "hello"!
	n.RegisterFunction("print", 1, func(ctx *Context) (Value, error) {
		if err := ctx.Output().Println(ctx.Args[0].String()); err != nil {
			return nil, ctx.Errorf("print: %v", err)
		}
		return Undefined{}, nil
	})

	// assert - fails evaluation when its argument is falsy
	// Usage: assert a === 1!
	n.RegisterFunction("assert", 1, func(ctx *Context) (Value, error) {
		if !ToBoolean(ctx.Args[0]) {
			return nil, &RuntimeError{
				Kind:     KindAssertionFailed,
				Message:  describeValue(ctx.Args[0]),
				Position: ctx.Position,
			}
		}
		return Undefined{}, nil
	})

	// typeof - names the type of its argument
	// Usage: print typeof 1!   (prints "number")
	n.RegisterFunction("typeof", 1, func(ctx *Context) (Value, error) {
		return String(TypeOf(ctx.Args[0])), nil
	})

	// sleep - blocks the interpreter for a number of milliseconds
	// Usage: sleep 250!
	n.RegisterFunction("sleep", 1, func(ctx *Context) (Value, error) {
		ms := ToNumber(ctx.Args[0])
		if math.IsNaN(ms) || ms < 0 {
			return nil, ctx.Errorf("sleep: invalid duration %s", ctx.Args[0])
		}
		ctx.LogDebug(CatStdlib, "sleeping %gms", ms)
		time.Sleep(time.Duration(ms * float64(time.Millisecond)))
		return Undefined{}, nil
	})

	// Symbol - creates a unique symbol with a description
	// Usage: var var s = Symbol "tag"!
	n.RegisterFunction("Symbol", 1, func(ctx *Context) (Value, error) {
		return &Symbol{Description: ctx.Args[0].String()}, nil
	})
}
