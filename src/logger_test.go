package noodles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(false, &buf)

	l.DebugCat(CatWatch, "hidden")
	l.TraceCat(CatExpression, "hidden")
	assert.Empty(t, buf.String())

	l.Notice("shown")
	l.WarnCat(CatConfig, "careful")
	l.Error("boom %d", 1)
	assert.Equal(t, "[noodles NOTICE] shown\n[noodles:config WARN] careful\n[noodles ERROR] boom 1\n", buf.String())
}

func TestLoggerCategories(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(true, &buf)
	l.EnableCategory(CatWatch)

	l.DebugCat(CatWatch, "x %d", 1)
	l.DebugCat(CatScope, "ignored")
	l.Debug("uncategorized")
	assert.Equal(t, "[DEBUG:watch] x 1\n[DEBUG] uncategorized\n", buf.String())
	assert.True(t, l.IsCategoryEnabled(CatWatch))

	l.DisableCategory(CatWatch)
	assert.False(t, l.IsCategoryEnabled(CatWatch))

	l.EnableAllCategories()
	for _, cat := range AllCategories {
		assert.True(t, l.IsCategoryEnabled(cat), string(cat))
	}
}

func TestLoggerSourceContext(t *testing.T) {
	context := []string{"a", "bcd", "e", "f"}
	pos := &SourcePosition{Line: 2, Column: 3, Filename: "f.db"}

	t.Run("surrounding lines", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(false, &buf)
		l.ErrorWithPosition(CatNone, "boom", pos, context)

		out := buf.String()
		assert.Contains(t, out, "[noodles ERROR] boom\n  at line 2, column 3 in f.db")
		assert.Contains(t, out, "\n      1 | a")
		assert.Contains(t, out, "\n  >   2 | bcd\n        |   ^")
		assert.Contains(t, out, "\n      3 | e")
		assert.NotContains(t, out, "| f")
	})

	t.Run("error line only", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(false, &buf)
		l.SetContextLines(0)
		l.SyntaxError("bad input", pos, context)

		out := buf.String()
		assert.Contains(t, out, "[noodles:parse ERROR] Syntax error: bad input")
		assert.Contains(t, out, ">   2 | bcd")
		assert.NotContains(t, out, "| a")
		assert.NotContains(t, out, "| e")
	})

	t.Run("unnamed input", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(false, &buf)
		l.ErrorWithPosition(CatNone, "boom", &SourcePosition{Line: 1, Column: 1}, nil)
		assert.Contains(t, buf.String(), "in <input>")
	})
}
