package noodles

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LifeTimeKind selects how a binding's life time is measured
type LifeTimeKind int

const (
	LifeInfinity LifeTimeKind = iota
	LifeSeconds
	LifeLines
)

// LifeTime is the optional `<...>` qualifier on a declaration
type LifeTime struct {
	Kind    LifeTimeKind
	Seconds float64
	Lines   int
}

func (l LifeTime) String() string {
	switch l.Kind {
	case LifeSeconds:
		return fmt.Sprintf("<%gs>", l.Seconds)
	case LifeLines:
		return fmt.Sprintf("<%d>", l.Lines)
	}
	return "<Infinity>"
}

// ParseLifeTime parses `<Infinity>`, `<N s>` or `<signed integer>`
func ParseLifeTime(c Cursor) (Cursor, LifeTime, error) {
	start := c
	malformed := func(msg string) (Cursor, LifeTime, error) {
		return start, LifeTime{}, &ParseError{Kind: ParseMalformedLifeTime, Message: msg, Position: start.Position()}
	}

	c, ok := c.Consume("<")
	if !ok {
		return malformed("expected '<'")
	}
	end := strings.IndexByte(c.Rest(), '>')
	if end < 0 {
		return malformed("missing '>'")
	}
	body := strings.TrimSpace(c.Rest()[:end])
	c = c.Advance(end + 1)

	switch {
	case body == "Infinity":
		return c, LifeTime{Kind: LifeInfinity}, nil
	case strings.HasSuffix(body, "s"):
		secs, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(body, "s")), 64)
		if err != nil {
			return malformed(fmt.Sprintf("invalid duration %q", body))
		}
		if secs < 0 {
			return malformed("duration must not be negative")
		}
		return c, LifeTime{Kind: LifeSeconds, Seconds: secs}, nil
	default:
		lines, err := strconv.Atoi(body)
		if err != nil {
			return malformed(fmt.Sprintf("invalid line count %q", body))
		}
		return c, LifeTime{Kind: LifeLines, Lines: lines}, nil
	}
}

// Hoisted reports a negative line count: the binding lives on the lines
// before its declaration and ends where it is declared
func (l LifeTime) Hoisted() bool {
	return l.Kind == LifeLines && l.Lines < 0
}

// expiry converts a life time into an absolute deadline for a binding declared
// on line at time now. Zero line counts and Infinity never expire.
func (l LifeTime) expiry(line int, now time.Time) bindingExpiry {
	switch l.Kind {
	case LifeSeconds:
		return bindingExpiry{at: now.Add(time.Duration(l.Seconds * float64(time.Second)))}
	case LifeLines:
		if l.Lines > 0 {
			return bindingExpiry{afterLine: line + l.Lines}
		}
		if l.Lines < 0 {
			return bindingExpiry{fromLine: line + l.Lines, beforeLine: line}
		}
	}
	return bindingExpiry{}
}

// bindingExpiry is the window a binding is visible in; zero values mean
// "unbounded"
type bindingExpiry struct {
	afterLine  int
	fromLine   int
	beforeLine int
	at         time.Time
}

func (e bindingExpiry) expired(line int, now time.Time) bool {
	if e.afterLine > 0 && line > e.afterLine {
		return true
	}
	if e.beforeLine != 0 && (line >= e.beforeLine || line < e.fromLine) {
		return true
	}
	return !e.at.IsZero() && !now.Before(e.at)
}
