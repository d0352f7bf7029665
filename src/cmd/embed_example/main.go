package main

// This is an example of using noodles as a library in a Go application

import (
	"fmt"
	"strings"

	noodles "github.com/Eddio0141/DreamBerd-3-noodles-interpreter-sub000"
)

func main() {
	// Create the interpreter with custom config
	cfg := noodles.DefaultConfig()
	cfg.ContextLines = 2
	n := noodles.New(cfg)

	// Register custom functions. Each one takes exactly its arity of arguments.
	n.RegisterFunction("greet", 1, func(ctx *noodles.Context) (noodles.Value, error) {
		fmt.Printf("Hello, %s!\n", ctx.Args[0])
		return noodles.Undefined{}, nil
	})

	n.RegisterFunction("upper", 1, func(ctx *noodles.Context) (noodles.Value, error) {
		s, ok := ctx.Args[0].(noodles.String)
		if !ok {
			return nil, ctx.Errorf("upper: expected a string, got %s", ctx.Args[0])
		}
		return noodles.String(strings.ToUpper(string(s))), nil
	})

	n.RegisterFunction("hypot", 2, func(ctx *noodles.Context) (noodles.Value, error) {
		a, b := noodles.ToNumber(ctx.Args[0]), noodles.ToNumber(ctx.Args[1])
		return noodles.Number(a*a + b*b), nil
	})

	fmt.Println("=== noodles Example ===")
	fmt.Println()

	examples := []struct {
		title  string
		source string
	}{
		{"Calling a Go function", `greet "Alice"!`},
		{"Unknown words are strings", "greet Bob the builder!"},
		{"Whitespace decides precedence", "print 1 + 2*3!\nprint 1+2 * 3!"},
		{"Arguments are split on commas", "print hypot 3, 4!"},
		{"Nested calls", `print upper "quiet"!`},
		{"User functions", "function twice x => x * 2!\nprint twice twice 5!"},
		{"Watching a variable", "var var n = 0!\nwhen n > 2 { print \"n passed 2\"! }\nn = 1!\nn = 3!"},
		{"Arrays start at -1", "const const xs = [10, 20, 30]!\nprint xs[-1]!"},
	}
	for i, ex := range examples {
		fmt.Printf("Example %d: %s\n", i+1, ex.title)
		if _, err := n.Evaluate(ex.source); err != nil {
			n.ReportError(err, ex.source)
		}
		fmt.Println()
	}

	// Bare expression statements hand their values back to Go
	fmt.Println("Example 9: Values returned to the host")
	values, err := n.Evaluate("1 + 1!\n\"two\"!\n[3]!")
	if err == nil {
		for _, v := range values {
			fmt.Printf("  %s (%T)\n", v, v)
		}
	}
	fmt.Println()

	// Script functions can be called back from Go
	fmt.Println("Example 10: Calling a script function from Go")
	if v, err := n.Call("twice", noodles.Number(21)); err == nil {
		fmt.Printf("  twice 21 = %s\n", v)
	}
	if _, err := n.Call("missing"); err != nil {
		fmt.Printf("  %v\n", err)
	}
	fmt.Println()

	// Errors carry the position of the failing statement
	fmt.Println("Example 11: Error reporting")
	failing := "var var a = 1!\nassert a == 2!\nprint \"not reached\"!"
	if _, err := n.Evaluate(failing); err != nil {
		n.ReportError(err, failing)
	}
	fmt.Println()

	fmt.Println("=== Examples Complete ===")
}
