package noodles

import (
	"strings"
)

// Watch is a `when` statement. It remembers the values of the variables its
// guards read and fires whenever one of them changes.
type Watch struct {
	branches []branch
	deps     []string
	snapshot []Value
	firing   bool
	line     int
}

func (e *Executor) whenStatement(c Cursor, _ *[]Value) (Cursor, statementResult, error) {
	recorder := newReferenceRecorder()
	next, branches, err := parseBranches(c, "when", recorder)
	if err != nil {
		return c, statementResult{}, err
	}
	state := c.State()
	w := &Watch{branches: branches, deps: recorder.names, line: c.Line()}
	w.snapshot = currentValues(state, w.deps)
	state.addWatch(w)
	e.logger.DebugCat(CatWatch, "watching %s on line %d", strings.Join(w.deps, ", "), w.line)
	return next, statementResult{}, nil
}

// currentValues reads each named variable, treating missing ones as undefined
func currentValues(state *ExecutionState, names []string) []Value {
	values := make([]Value, len(names))
	for i, name := range names {
		if v, ok := state.LookupVariable(name); ok {
			values[i] = v.Value
		} else {
			values[i] = Undefined{}
		}
	}
	return values
}

// changed compares the snapshot against current values by strict equality
func (w *Watch) changed(state *ExecutionState) ([]Value, bool) {
	current := currentValues(state, w.deps)
	for i, v := range current {
		if !StrictEquals(v, w.snapshot[i]) {
			return current, true
		}
	}
	return current, false
}

// checkWatches fires every watch whose dependencies changed since its last
// check. A watch is never re-entered from its own body.
func (e *Executor) checkWatches(state *ExecutionState) error {
	for _, w := range state.watches() {
		if w.firing {
			continue
		}
		current, changed := w.changed(state)
		if !changed {
			continue
		}
		w.snapshot = current
		if err := e.fireWatch(state, w); err != nil {
			return err
		}
	}
	return nil
}

// fireWatch re-parses the guards against the current bindings and runs the
// first branch that holds
func (e *Executor) fireWatch(state *ExecutionState, w *Watch) error {
	w.firing = true
	defer func() { w.firing = false }()
	e.logger.DebugCat(CatWatch, "watch from line %d triggered", w.line)

	recorder := newReferenceRecorder()
	for _, name := range w.deps {
		recorder.record(name)
	}
	branches := make([]branch, len(w.branches))
	for i, b := range w.branches {
		branches[i] = b
		if b.guard == nil {
			continue
		}
		c := cursorAt(b.guardText, b.guardPos, state).withRecorder(recorder)
		guard, err := parseFullExpression(c)
		if err != nil {
			return asSyntaxError(err)
		}
		branches[i].guard = guard
	}
	if len(recorder.names) != len(w.deps) {
		w.deps = recorder.names
		w.snapshot = currentValues(state, w.deps)
	}

	_, err := e.runBranches(state, branches, nil)
	return err
}
