package noodles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`print "hi"!`, "hi\n"},
		{"print 0.1 + 0.2 == 0.3!", "false\n"},
		{"print 10 / 4!", "2.5\n"},
		{"print 2n ^ 64n!", "18446744073709551616\n"},
		{`print [1, "a", [true]]!`, `[1, "a", [true]]` + "\n"},
		{"print {x: 1, y: null}!", "{x: 1, y: null}\n"},
		{"print print 1!", "1\nundefined\n"},
		{"print 1 / 0!", "Infinity\n"},
		{"print x => x!", "[function]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			out, err := run(t, tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}

	t.Run("bigint mixed with number", func(t *testing.T) {
		_, err := run(t, "print 2 ^ 64n!")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeError))
	})
}

func TestTypeof(t *testing.T) {
	cases := map[string]string{
		"1":              "number",
		"1n":             "bigint",
		`"s"`:            "string",
		"true":           "boolean",
		"null":           "null",
		"undefined":      "undefined",
		"{a: 1}":         "object",
		"[1]":            "object",
		"a => a":         "function",
		`Symbol "s"`:     "symbol",
		"no such name":   "string",
		"NaN":            "number",
		"-Infinity":      "number",
		";undefined":     "boolean",
		"--1n":           "bigint",
		`"a" + 1`:        "string",
		"[1].missing":    "undefined",
		"{a: [2]}.a[-1]": "number",
	}
	for expr, want := range cases {
		t.Run(expr, func(t *testing.T) {
			out, err := run(t, "print typeof "+expr+"!")
			require.NoError(t, err)
			assert.Equal(t, want+"\n", out)
		})
	}

	t.Run("a function name needs its arguments", func(t *testing.T) {
		_, err := run(t, "print typeof print!")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgumentCountMismatch))
	})
}

func TestAssert(t *testing.T) {
	_, err := run(t, "assert 1 === 1!\nassert \"x\"!\nassert [0]!")
	require.NoError(t, err)

	_, err = run(t, `assert ""!`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAssertionFailed))
	assert.Contains(t, err.Error(), `assertion failed: "" (string)`)
}

func TestSleep(t *testing.T) {
	_, err := run(t, "sleep 1!")
	require.NoError(t, err)

	_, err = run(t, "sleep -1!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeError))
	assert.Contains(t, err.Error(), "sleep: invalid duration -1")
}

func TestSymbol(t *testing.T) {
	out, err := run(t, "var var s = Symbol \"tag\"!\nprint s!\nassert s === s!\nassert s !== Symbol \"tag\"!")
	require.NoError(t, err)
	assert.Equal(t, "Symbol(tag)\n", out)
}
