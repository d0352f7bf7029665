package noodles

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	cases := []struct {
		input string
		want  Value
		rest  string
	}{
		{"true!", Boolean(true), "!"},
		{"false", Boolean(false), ""},
		{"null ", Null{}, " "},
		{"undefined", Undefined{}, ""},
		{"42!", Number(42), "!"},
		{"3.25 + 1", Number(3.25), " + 1"},
		{"1e3", Number(1000), ""},
		{"2.5E-1", Number(0.25), ""},
		{"7n!", NewBigInt(7), "!"},
		{"123456789012345678901234567890n", BigInt{Int: huge}, ""},
		{`"hi there"!`, String("hi there"), "!"},
		{`'single'`, String("single"), ""},
		{`"""triple " quoted"""`, String(`triple " quoted`), ""},
		{`"esc\"aped"`, String(`esc"aped`), ""},
		{`"" !`, String(""), " !"},
		{`''!`, String(""), "!"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			c, v, err := ParseLiteral(NewCursor(tc.input, "", nil))
			require.NoError(t, err)
			assert.True(t, StrictEquals(tc.want, v), "got %s", v)
			assert.Equal(t, tc.rest, c.Rest())
		})
	}

	t.Run("keywords need a boundary", func(t *testing.T) {
		_, _, err := ParseLiteral(NewCursor("trueish", "", nil))
		assert.True(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("numbers do not run into words", func(t *testing.T) {
		_, _, err := ParseLiteral(NewCursor("12abc", "", nil))
		assert.True(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("Infinity and NaN", func(t *testing.T) {
		_, v, err := ParseLiteral(NewCursor("Infinity", "", nil))
		require.NoError(t, err)
		assert.True(t, math.IsInf(float64(v.(Number)), 1))
		_, v, err = ParseLiteral(NewCursor("NaN", "", nil))
		require.NoError(t, err)
		assert.True(t, math.IsNaN(float64(v.(Number))))
	})
}

// parseAtomIn parses one atom against state
func parseAtomIn(t *testing.T, state *ExecutionState, input string) (Cursor, *Atom) {
	t.Helper()
	c, atom, err := ParseAtom(NewCursor(input, "", state), nil)
	require.NoError(t, err)
	return c, atom
}

func TestAtomResolutionOrder(t *testing.T) {
	state := NewExecutionState()
	state.Declare("x", Number(5), VarVar, LifeTime{})
	state.DefineFunction(NewNativeFunction("one", 0, func(*Context) (Value, error) { return Number(1), nil }))

	t.Run("variable captures its value", func(t *testing.T) {
		_, atom := parseAtomIn(t, state, "x!")
		v, ok := atom.Base.(*VariableAtom)
		require.True(t, ok)
		assert.Equal(t, "x", v.Name)
		assert.Equal(t, Number(5), v.Value)
	})

	t.Run("call", func(t *testing.T) {
		_, atom := parseAtomIn(t, state, "one!")
		call, ok := atom.Base.(*CallAtom)
		require.True(t, ok)
		assert.Equal(t, "one", call.Name)
		assert.Empty(t, call.Args)
	})

	t.Run("variable holding a function is callable", func(t *testing.T) {
		s := NewExecutionState()
		s.Declare("g", &FunctionValue{Params: []string{"a"}, Body: "a"}, VarVar, LifeTime{})
		c, atom := parseAtomIn(t, s, "g 3!")
		call, ok := atom.Base.(*CallAtom)
		require.True(t, ok)
		assert.Len(t, call.Args, 1)
		assert.Equal(t, "!", c.Rest())
	})

	t.Run("implicit string", func(t *testing.T) {
		c, atom := parseAtomIn(t, state, "hello world  ! rest")
		lit, ok := atom.Base.(*LiteralAtom)
		require.True(t, ok)
		assert.True(t, lit.Implicit)
		assert.Equal(t, String("hello world"), lit.Value)
		assert.Equal(t, "! rest", c.Rest())
	})

	t.Run("implicit string stops at terminator", func(t *testing.T) {
		c, atom, err := ParseAtom(NewCursor("a b, c", "", state), prefixTerminator(","))
		require.NoError(t, err)
		assert.Equal(t, String("a b"), atom.Base.(*LiteralAtom).Value)
		assert.Equal(t, ", c", c.Rest())
	})

	t.Run("references are recorded", func(t *testing.T) {
		r := newReferenceRecorder()
		_, _, err := ParseExpression(NewCursor("x + x + y", "", state).withRecorder(r), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, r.names)
	})
}

func TestObjectAndArrayAtoms(t *testing.T) {
	state := NewExecutionState()

	t.Run("object", func(t *testing.T) {
		c, atom := parseAtomIn(t, state, `{a: 1, "b c": 2 + 3, d: {e: true}}!`)
		obj, ok := atom.Base.(*ObjectAtom)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b c", "d"}, obj.Keys)
		assert.Len(t, obj.Values, 3)
		assert.Equal(t, "!", c.Rest())
	})

	t.Run("empty object", func(t *testing.T) {
		_, atom := parseAtomIn(t, state, "{ }")
		assert.Empty(t, atom.Base.(*ObjectAtom).Keys)
	})

	t.Run("array", func(t *testing.T) {
		_, atom := parseAtomIn(t, state, "[1, [2, 3], 4]")
		arr, ok := atom.Base.(*ArrayAtom)
		require.True(t, ok)
		assert.Len(t, arr.Elements, 3)
	})

	t.Run("postfix accessors", func(t *testing.T) {
		_, atom := parseAtomIn(t, state, "[1, 2].length[0 + 1].x!")
		require.Len(t, atom.Accessors, 3)
		assert.Equal(t, &DotAccessor{Name: "length"}, atom.Accessors[0])
		assert.IsType(t, &IndexAccessor{}, atom.Accessors[1])
		assert.Equal(t, &DotAccessor{Name: "x"}, atom.Accessors[2])
	})

	t.Run("malformed postfix stops quietly", func(t *testing.T) {
		c, atom := parseAtomIn(t, state, "[1][2")
		assert.Empty(t, atom.Accessors)
		assert.Equal(t, "[2", c.Rest())
	})
}

func TestFunctionAtom(t *testing.T) {
	state := NewExecutionState()

	t.Run("expression body", func(t *testing.T) {
		c, atom := parseAtomIn(t, state, "a, b => a + b  ! next")
		fn, ok := atom.Base.(*FunctionAtom)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, fn.Function.Params)
		assert.Equal(t, "a + b", fn.Function.Body)
		assert.False(t, fn.Function.Block)
		assert.Equal(t, "! next", c.Rest())
	})

	t.Run("block body", func(t *testing.T) {
		c, atom := parseAtomIn(t, state, "=> { return 1! }!")
		fn := atom.Base.(*FunctionAtom).Function
		assert.Empty(t, fn.Params)
		assert.True(t, fn.Block)
		assert.Equal(t, " return 1! ", fn.Body)
		assert.Equal(t, 1, fn.BodyPos.Line)
		assert.Equal(t, 5, fn.BodyPos.Column)
		assert.Equal(t, "!", c.Rest())
	})
}

func TestCallArity(t *testing.T) {
	state := NewExecutionState()
	state.DefineFunction(NewNativeFunction("pair", 2, func(*Context) (Value, error) { return Null{}, nil }))

	t.Run("arguments split on commas", func(t *testing.T) {
		c, call, err := parseCall(NewCursor("pair 1 + 2, 3! after", "", state), nil, true)
		require.NoError(t, err)
		assert.Len(t, call.Args, 2)
		assert.Equal(t, "! after", c.Rest())
	})

	t.Run("last argument keeps commas", func(t *testing.T) {
		state.DefineFunction(NewNativeFunction("wrap", 1, func(*Context) (Value, error) { return Null{}, nil }))
		c, call, err := parseCall(NewCursor("wrap pair 1, 2!", "", state), nil, true)
		require.NoError(t, err)
		require.Len(t, call.Args, 1)
		assert.Equal(t, "!", c.Rest())
	})

	t.Run("missing argument", func(t *testing.T) {
		_, _, err := parseCall(NewCursor("pair 1!", "", state), nil, true)
		require.Error(t, err)
		var re *RuntimeError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, KindArgumentCountMismatch, re.Kind)
		assert.Equal(t, 2, re.Expected)
		assert.Equal(t, 1, re.Got)
	})

	t.Run("strict lookup stops at a variable", func(t *testing.T) {
		s := NewExecutionState()
		s.DefineFunction(NewNativeFunction("f", 0, func(*Context) (Value, error) { return Null{}, nil }))
		require.NoError(t, s.PushScope())
		s.Declare("f", Number(1), VarVar, LifeTime{})
		_, _, err := parseCall(NewCursor("f!", "", s), nil, true)
		assert.True(t, errors.Is(err, ErrNoMatch))
		_, call, err := parseCall(NewCursor("f!", "", s), nil, false)
		require.NoError(t, err)
		assert.Equal(t, "f", call.Name)
	})
}
