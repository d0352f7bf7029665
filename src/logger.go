package noodles

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Runtime errors (always shown)
	LevelFatal                  // Syntax errors (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone       LogCategory = ""           // Uncategorized
	CatParse      LogCategory = "parse"      // Parser decisions
	CatStatement  LogCategory = "statement"  // Statement dispatch and debug terminators
	CatExpression LogCategory = "expression" // Expression trees
	CatScope      LogCategory = "scope"      // Frames and declarations
	CatWatch      LogCategory = "watch"      // when statements
	CatFunction   LogCategory = "function"   // Definitions, calls and returns
	CatValue      LogCategory = "value"      // Coercions
	CatStdlib     LogCategory = "stdlib"     // Built-in functions
	CatREPL       LogCategory = "repl"       // Interactive session
	CatConfig     LogCategory = "config"     // Configuration loading
)

// AllCategories lists every named category
var AllCategories = []LogCategory{
	CatParse, CatStatement, CatExpression, CatScope, CatWatch,
	CatFunction, CatValue, CatStdlib, CatREPL, CatConfig,
}

// Logger handles diagnostics. Program output never goes through it.
type Logger struct {
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	contextLines      int
	colorEnabled      bool
	warnColor         *color.Color
	errorColor        *color.Color
	traceColor        *color.Color
}

// supportsColor checks if w is a terminal that supports color output
func supportsColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	// Check TERM isn't "dumb" (which doesn't support colors)
	if t := os.Getenv("TERM"); t == "dumb" {
		return false
	}

	return true
}

// NewLogger creates a new logger writing to out (os.Stderr when nil)
func NewLogger(enabled bool, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	l := &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               out,
		contextLines:      1,
		warnColor:         color.New(color.FgHiYellow),
		errorColor:        color.New(color.FgHiRed),
		traceColor:        color.New(color.FgHiBlack),
	}
	l.SetColor(supportsColor(out))
	return l
}

// SetColor turns coloured output on or off
func (l *Logger) SetColor(enabled bool) {
	l.colorEnabled = enabled
	for _, c := range []*color.Color{l.warnColor, l.errorColor, l.traceColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// SetContextLines sets how many source lines surround the error line
func (l *Logger) SetContextLines(n int) {
	l.contextLines = max(0, n)
}

// SetEnabled enables or disables debug logging
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.enabledCategories[cat] = true
}

// DisableCategory disables debug logging for a specific category
func (l *Logger) DisableCategory(cat LogCategory) {
	delete(l.enabledCategories, cat)
}

// EnableAllCategories enables all categories for debug logging
func (l *Logger) EnableAllCategories() {
	for _, cat := range AllCategories {
		l.enabledCategories[cat] = true
	}
}

// IsCategoryEnabled checks if a category is enabled
func (l *Logger) IsCategoryEnabled(cat LogCategory) bool {
	return l.enabledCategories[cat]
}

// shouldLog determines if a message should be logged based on level and category
func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelFatal, LevelError, LevelWarn, LevelNotice:
		return true // Always shown
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string, position *SourcePosition, context []string) {
	if !l.shouldLog(level, cat) {
		return
	}

	catSuffix := ""
	if cat != CatNone {
		catSuffix = fmt.Sprintf(":%s", cat)
	}

	var prefix string
	paint := l.traceColor
	switch level {
	case LevelTrace:
		prefix = fmt.Sprintf("[TRACE%s]", catSuffix)
	case LevelInfo:
		prefix = fmt.Sprintf("[INFO%s]", catSuffix)
	case LevelDebug:
		prefix = fmt.Sprintf("[DEBUG%s]", catSuffix)
	case LevelNotice:
		prefix = fmt.Sprintf("[noodles%s NOTICE]", catSuffix)
		paint = nil
	case LevelWarn:
		prefix = fmt.Sprintf("[noodles%s WARN]", catSuffix)
		paint = l.warnColor
	case LevelError, LevelFatal:
		prefix = fmt.Sprintf("[noodles%s ERROR]", catSuffix)
		paint = l.errorColor
	}

	output := fmt.Sprintf("%s %s", prefix, message)

	if position != nil {
		filename := position.Filename
		if filename == "" {
			filename = "<input>"
		}
		output += fmt.Sprintf("\n  at line %d, column %d in %s", position.Line, position.Column, filename)

		if len(context) > 0 {
			output += l.formatSourceContext(position, context)
		}
	}

	if paint != nil {
		_, _ = paint.Fprintln(l.out, output)
		return
	}
	_, _ = fmt.Fprintln(l.out, output)
}

// Convenience methods that route through Log
// Ordered by severity: Fatal, Error, Warn, Notice, Debug, Info, Trace

// Fatal logs a fatal error message (no position)
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.Log(LevelFatal, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// Error logs an error message (no position)
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LevelError, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// ErrorCat logs a categorized error message
func (l *Logger) ErrorCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelError, cat, fmt.Sprintf(format, args...), nil, nil)
}

// Warn logs a warning message (no position)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// WarnCat logs a categorized warning message
func (l *Logger) WarnCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelWarn, cat, fmt.Sprintf(format, args...), nil, nil)
}

// Notice logs a notable event (no position) - always shown, less severe than warning
func (l *Logger) Notice(format string, args ...interface{}) {
	l.Log(LevelNotice, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// NoticeCat logs a categorized notice message
func (l *Logger) NoticeCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelNotice, cat, fmt.Sprintf(format, args...), nil, nil)
}

// Debug logs a debug message (no position)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(LevelDebug, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...), nil, nil)
}

// InfoCat logs a categorized informational message
func (l *Logger) InfoCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelInfo, cat, fmt.Sprintf(format, args...), nil, nil)
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...), nil, nil)
}

// ErrorWithPosition logs an error with position information
func (l *Logger) ErrorWithPosition(cat LogCategory, message string, position *SourcePosition, context []string) {
	l.Log(LevelError, cat, message, position, context)
}

// SyntaxError logs input that could not be parsed (always visible)
func (l *Logger) SyntaxError(message string, position *SourcePosition, context []string) {
	l.Log(LevelFatal, CatParse, fmt.Sprintf("Syntax error: %s", message), position, context)
}

// formatSourceContext formats source context with line numbers
func (l *Logger) formatSourceContext(position *SourcePosition, context []string) string {
	var message strings.Builder
	message.WriteString("\n")

	contextStart := max(0, position.Line-1-l.contextLines)
	contextEnd := min(len(context), position.Line+l.contextLines)

	for i := contextStart; i < contextEnd; i++ {
		lineNum := i + 1
		isErrorLine := lineNum == position.Line

		prefix := " "
		if isErrorLine {
			prefix = ">"
		}

		message.WriteString(fmt.Sprintf("\n  %s %3d | %s", prefix, lineNum, context[i]))

		if isErrorLine && position.Column > 0 {
			indent := "      | " + strings.Repeat(" ", position.Column-1)
			caret := strings.Repeat("^", max(1, position.Length))
			message.WriteString(fmt.Sprintf("\n  %s%s", indent, caret))
		}
	}

	return message.String()
}
