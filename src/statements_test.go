package noodles

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclarationMutability(t *testing.T) {
	t.Run("var var allows everything", func(t *testing.T) {
		_, err := run(t, "var var o = {a: 1}!\no.a = 2!\no = 3!\no += 1!\nassert o === 4!")
		require.NoError(t, err)
	})

	t.Run("const const forbids rebinding", func(t *testing.T) {
		_, err := run(t, "const const x = 1!\nx = 2!")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeError))
		assert.Contains(t, err.Error(), "cannot reassign x declared const const")
	})

	t.Run("const const forbids edits", func(t *testing.T) {
		_, err := run(t, "const const o = {a: 1}!\no.a = 2!")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot modify o")
	})

	t.Run("const var allows edits only", func(t *testing.T) {
		_, err := run(t, "const var o = {a: 1}!\no.a = 2!\nassert o.a === 2!")
		require.NoError(t, err)

		_, err = run(t, "const var o = {a: 1}!\no = 2!")
		assert.True(t, errors.Is(err, ErrTypeError))
	})

	t.Run("var const allows rebinding only", func(t *testing.T) {
		_, err := run(t, "var const n = 1!\nn = 2!\nassert n === 2!")
		require.NoError(t, err)

		_, err = run(t, "var const n = 1!\nn += 1!")
		assert.True(t, errors.Is(err, ErrTypeError))

		_, err = run(t, "var const o = {a: 1}!\no.a = 5!")
		assert.True(t, errors.Is(err, ErrTypeError))
	})

	t.Run("redeclaration replaces the binding", func(t *testing.T) {
		_, err := run(t, "const const a = 1!\nvar var a = 2!\na = 3!\nassert a === 3!")
		require.NoError(t, err)
	})
}

func TestAssignment(t *testing.T) {
	t.Run("compound operators", func(t *testing.T) {
		_, err := run(t, "var var x = 2!\nx += 3!\nx *= 2!\nx ^= 2!\nx -= 10!\nx /= 9!\nx %= 7!\nassert x === 3!")
		require.NoError(t, err)
	})

	t.Run("increment and decrement", func(t *testing.T) {
		_, err := run(t, "var var i = 0!\ni++!\ni++!\ni--!\nassert i === 1!\nvar var b = 1n!\nb++!\nassert b === 2n!")
		require.NoError(t, err)
	})

	t.Run("implicit declaration", func(t *testing.T) {
		_, err := run(t, "y = 5!\nassert y === 5!")
		require.NoError(t, err)
	})

	t.Run("compound on undeclared name", func(t *testing.T) {
		_, err := run(t, "z += 1!")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrVariableNotFound))
		var re *RuntimeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "z", re.Name)
	})

	t.Run("property assignment", func(t *testing.T) {
		out, err := run(t, "var var arr = [1, 2]!\narr[0] = 5!\narr.name = \"list\"!\nprint arr[0]!\nprint arr.name!")
		require.NoError(t, err)
		assert.Equal(t, "5\nlist\n", out)
	})

	t.Run("property of a number", func(t *testing.T) {
		_, err := run(t, "var var n = 1!\nn.x = 2!")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot set property x of number")
	})

	t.Run("outer binding updated from a block", func(t *testing.T) {
		_, err := run(t, "var var a = 1!\n{ a = 2! }\nassert a === 2!")
		require.NoError(t, err)
	})

	t.Run("block without spaces inside braces", func(t *testing.T) {
		out, err := run(t, "var var a = 1!\n{a = 2!}\nprint a!")
		require.NoError(t, err)
		assert.Equal(t, "2\n", out)
	})

	t.Run("implicit declaration stays in its block", func(t *testing.T) {
		out, err := run(t, "{ q = 1! }\nprint typeof q!")
		require.NoError(t, err)
		assert.Equal(t, "string\n", out)
	})
}

func TestConditional(t *testing.T) {
	source := func(a string) string {
		return "var var a = " + a + "!\n" +
			"if a == 1 { print \"one\"! } else if a == 2 { print \"two\"! } else { print \"other\"! }"
	}
	for input, want := range map[string]string{"1": "one\n", "2": "two\n", "3": "other\n"} {
		t.Run(input, func(t *testing.T) {
			out, err := run(t, source(input))
			require.NoError(t, err)
			assert.Equal(t, want, out)
		})
	}

	t.Run("no branch taken", func(t *testing.T) {
		out, err := run(t, "if false { print 1! }\nprint 2!")
		require.NoError(t, err)
		assert.Equal(t, "2\n", out)
	})

	t.Run("branch body has its own scope", func(t *testing.T) {
		_, err := run(t, "var var a = 1!\nif true { var var a = 2! }\nassert a === 1!")
		require.NoError(t, err)
	})
}

func TestFunctionStatement(t *testing.T) {
	t.Run("keyword variants", func(t *testing.T) {
		source := strings.Join([]string{
			"fn add a, b => a + b!",
			"func mul a, b => a * b!",
			"fun one => 1!",
			"print add one, mul 2, 3!",
		}, "\n")
		out, err := run(t, source)
		require.NoError(t, err)
		assert.Equal(t, "7\n", out)
	})

	t.Run("keyword must be a subsequence", func(t *testing.T) {
		for _, word := range []string{"function", "func", "fun", "fn", "f", "fnc", "ftion"} {
			assert.True(t, isFunctionKeyword(word), word)
		}
		for _, word := range []string{"", "unction", "fx", "functions", "nf"} {
			assert.False(t, isFunctionKeyword(word), word)
		}
	})

	t.Run("return ends the body", func(t *testing.T) {
		out, err := run(t, "function f => {\n  return 5!\n  print 1!\n}\nprint f!")
		require.NoError(t, err)
		assert.Equal(t, "5\n", out)
	})

	t.Run("bare return", func(t *testing.T) {
		out, err := run(t, "function g => { return! }\nprint g!")
		require.NoError(t, err)
		assert.Equal(t, "undefined\n", out)
	})

	t.Run("body without return", func(t *testing.T) {
		out, err := run(t, "function h => { var var x = 1! }\nprint h!")
		require.NoError(t, err)
		assert.Equal(t, "undefined\n", out)
	})

	t.Run("parameters are local", func(t *testing.T) {
		_, err := run(t, "var var x = 1!\nfunction id x => x!\nvar var r = id 5!\nassert r === 5!\nassert x === 1!")
		require.NoError(t, err)
	})

	t.Run("function literal in a variable", func(t *testing.T) {
		out, err := run(t, "var var double = n => n * 2!\nprint double 4!")
		require.NoError(t, err)
		assert.Equal(t, "8\n", out)
	})

	t.Run("runaway recursion", func(t *testing.T) {
		n, _, _ := newTestInterpreter(t)
		n.Config().MaxScopeDepth = 50
		n.Reset()
		_, err := n.Evaluate("function r => r!\nr!")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeError))
		assert.Contains(t, err.Error(), "maximum call depth exceeded")
	})
}

func TestDebugTerminator(t *testing.T) {
	n, stdout, stderr := newTestInterpreter(t)
	_, err := n.Evaluate("var var x = 3?\n1 + 1?\nprint \"hi\"?")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", stdout.String())
	assert.Contains(t, stderr.String(), "line 1: x = 3 (number)")
	assert.Contains(t, stderr.String(), "line 2: 2 (number)")
	assert.Contains(t, stderr.String(), "line 3: undefined (undefined)")
}

func TestStatementTerminators(t *testing.T) {
	t.Run("repeated bangs", func(t *testing.T) {
		out, err := run(t, "print 1!!!!\nprint 2!")
		require.NoError(t, err)
		assert.Equal(t, "1\n2\n", out)
	})

	t.Run("missing terminator", func(t *testing.T) {
		_, err := run(t, "print 1")
		require.Error(t, err)
		var se *SyntaxError
		require.True(t, errors.As(err, &se))
		assert.True(t, errors.Is(err, ErrUnexpectedToken))
		assert.Equal(t, 1, se.Err.Position.Line)
	})

	t.Run("stray closing brace", func(t *testing.T) {
		out, err := run(t, "print 1!\n}\nprint 2!")
		require.Error(t, err)
		assert.Equal(t, "1\n", out)
		var se *SyntaxError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 2, se.Err.Position.Line)
	})

	t.Run("unknown words print as text", func(t *testing.T) {
		out, err := run(t, "print hello world!")
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", out)
	})
}

func TestLineLifeTimeInSource(t *testing.T) {
	out, err := run(t, "var var t<2> = 1!\nassert t === 1!\nassert t === 1!\nprint t!")
	require.NoError(t, err)
	assert.Equal(t, "t\n", out)
}

func TestHoistedDeclaration(t *testing.T) {
	t.Run("visible on the line before", func(t *testing.T) {
		out, err := run(t, "print name!\nconst const name<-1> = \"Lu\"!")
		require.NoError(t, err)
		assert.Equal(t, "Lu\n", out)
	})

	t.Run("ends where it is declared", func(t *testing.T) {
		out, err := run(t, "print name!\nconst const name<-1> = \"Lu\"!\nprint name!")
		require.NoError(t, err)
		assert.Equal(t, "Lu\nname\n", out)
	})

	t.Run("window starts at the offset", func(t *testing.T) {
		out, err := run(t, "print a!\nprint a!\nvar var a<-1> = 1!")
		require.NoError(t, err)
		assert.Equal(t, "a\n1\n", out)
	})

	t.Run("initializer sees earlier bindings", func(t *testing.T) {
		out, err := run(t, "var var n = 1!\nprint n2!\nvar var n2<-1> = n + 1!\nprint n2!")
		require.NoError(t, err)
		assert.Equal(t, "2\nn2\n", out)
	})

	t.Run("hoisted function", func(t *testing.T) {
		out, err := run(t, "print twice 2!\nconst const twice<-1> = x => x * 2!")
		require.NoError(t, err)
		assert.Equal(t, "4\n", out)
	})

	t.Run("inside a block", func(t *testing.T) {
		out, err := run(t, "{\n  print b!\n  var var b<-1> = 2!\n}")
		require.NoError(t, err)
		assert.Equal(t, "2\n", out)
	})
}

func TestStatementFormOrder(t *testing.T) {
	var names []string
	for _, form := range statementForms {
		names = append(names, form.name)
	}
	assert.Equal(t, []string{
		"declaration", "assignment", "block", "conditional", "when",
		"function definition", "return", "call", "expression",
	}, names)
}
