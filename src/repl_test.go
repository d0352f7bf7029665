package noodles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lmorg/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	n, stdout, stderr := newTestInterpreter(t)
	return NewREPL(n, stdout), stdout, stderr
}

func TestREPLHandleLine(t *testing.T) {
	t.Run("shows expression results", func(t *testing.T) {
		r, out, _ := newTestREPL(t)
		assert.True(t, r.HandleLine("1 + 2"))
		assert.True(t, r.HandleLine(`"a" + "b"`))
		assert.Equal(t, "= 3\n= \"ab\"\n", out.String())
	})

	t.Run("statements print nothing", func(t *testing.T) {
		r, out, _ := newTestREPL(t)
		assert.True(t, r.HandleLine("var var x = 2"))
		assert.True(t, r.HandleLine("print x"))
		assert.Equal(t, "2\n", out.String())
	})

	t.Run("multi-line input", func(t *testing.T) {
		r, out, _ := newTestREPL(t)
		assert.True(t, r.HandleLine("function sq n => {"))
		assert.Equal(t, "... ", r.Prompt())
		assert.True(t, r.HandleLine("  return n * n!"))
		assert.True(t, r.HandleLine("}"))
		assert.Equal(t, "noodles> ", r.Prompt())
		assert.True(t, r.HandleLine("sq 7"))
		assert.Equal(t, "= 49\n", out.String())
	})

	t.Run("exit and quit", func(t *testing.T) {
		r, _, _ := newTestREPL(t)
		assert.False(t, r.HandleLine("exit"))
		assert.False(t, r.HandleLine("  QUIT "))
		assert.True(t, r.HandleLine(""))
	})

	t.Run("exit inside pending input is code", func(t *testing.T) {
		r, _, _ := newTestREPL(t)
		assert.True(t, r.HandleLine("{"))
		assert.True(t, r.HandleLine("exit"))
		assert.Equal(t, "... ", r.Prompt())
	})

	t.Run("errors are reported and the session continues", func(t *testing.T) {
		r, out, stderr := newTestREPL(t)
		assert.True(t, r.HandleLine("print 1!"))
		assert.True(t, r.HandleLine("assert false"))
		assert.Contains(t, stderr.String(), "AssertionFailed")
		assert.Contains(t, stderr.String(), "at line 2, column 1 in <repl>")
		assert.Contains(t, stderr.String(), ">   2 | assert false")
		assert.True(t, r.HandleLine("1"))
		assert.Equal(t, "1\n= 1\n", out.String())
	})
}

func TestREPLComplete(t *testing.T) {
	r, _, _ := newTestREPL(t)
	r.HandleLine("var var counter = 1!")

	line := []rune("print cou")
	prefix, suggestions, _, display := r.complete(line, len(line), readline.DelayedTabContext{})
	assert.Equal(t, "cou", prefix)
	assert.Equal(t, []string{"nter"}, suggestions)
	assert.Equal(t, readline.TabDisplayType(readline.TabDisplayGrid), display)

	line = []rune("a.ty")
	_, suggestions, _, _ = r.complete(line, len(line), readline.DelayedTabContext{})
	assert.Equal(t, []string{"peof"}, suggestions)
}

func TestREPLHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "history")
	h := newReplHistory(path)
	assert.Equal(t, 0, h.Len())

	for _, line := range []string{"1 + 1", "1 + 1", "  ", "print 2!", "{\n}"} {
		_, err := h.Write(line)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, h.Len())
	line, err := h.GetLine(1)
	require.NoError(t, err)
	assert.Equal(t, "print 2!", line)
	_, err = h.GetLine(2)
	assert.Error(t, err)

	require.NoError(t, h.save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 + 1\nprint 2!\n", string(data))

	reloaded := newReplHistory(path)
	assert.Equal(t, []string{"1 + 1", "print 2!"}, reloaded.Dump())

	t.Run("keeps only recent entries", func(t *testing.T) {
		h := newReplHistory(filepath.Join(t.TempDir(), "history"))
		for i := 0; i < replMaxHistoryLines+5; i++ {
			h.lines = append(h.lines, "x")
		}
		require.NoError(t, h.save())
		assert.Equal(t, replMaxHistoryLines, newReplHistory(h.path).Len())
	})
}
