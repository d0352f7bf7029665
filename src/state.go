package noodles

import (
	"time"

	"github.com/JohnCGriffin/overflow"
)

// Mutability is the two-keyword qualifier of a declaration. The first
// keyword governs rebinding the name, the second editing the value.
type Mutability int

const (
	VarVar Mutability = iota
	VarConst
	ConstVar
	ConstConst
)

func (m Mutability) String() string {
	switch m {
	case VarConst:
		return "var const"
	case ConstVar:
		return "const var"
	case ConstConst:
		return "const const"
	}
	return "var var"
}

// Reassignable reports whether the name may be bound to a new value
func (m Mutability) Reassignable() bool { return m == VarVar || m == VarConst }

// Editable reports whether the value may be modified in place
func (m Mutability) Editable() bool { return m == VarVar || m == ConstVar }

// Variable is a binding in a scope frame. Hoisted bindings were made visible
// before the line that declares them.
type Variable struct {
	Name       string
	Value      Value
	Mutability Mutability
	LifeTime   LifeTime
	Line       int
	Hoisted    bool
	expiry     bindingExpiry
}

// scopeFrame holds the bindings and watches of one block or call
type scopeFrame struct {
	vars    map[string]*Variable
	funcs   map[string]*FunctionValue
	watches []*Watch
}

func newScopeFrame() *scopeFrame {
	return &scopeFrame{
		vars:  make(map[string]*Variable),
		funcs: make(map[string]*FunctionValue),
	}
}

// ExecutionState is the stack of scope frames plus the clock and line the
// life time rules are measured against. Parsers only read it; the statement
// engine mutates it after a statement has parsed.
type ExecutionState struct {
	frames   []*scopeFrame
	depth    int
	maxDepth int
	line     int
	clock    func() time.Time
}

// NewExecutionState creates a state holding only the global frame
func NewExecutionState() *ExecutionState {
	return &ExecutionState{
		frames: []*scopeFrame{newScopeFrame()},
		line:   1,
		clock:  time.Now,
	}
}

// SetClock replaces the time source used for second-based life times
func (s *ExecutionState) SetClock(clock func() time.Time) {
	s.clock = clock
}

// SetMaxDepth limits how many frames may be pushed; zero means unlimited
func (s *ExecutionState) SetMaxDepth(n int) {
	s.maxDepth = n
}

// Now reads the state's clock
func (s *ExecutionState) Now() time.Time {
	return s.clock()
}

// SetLine records the line of the statement being evaluated
func (s *ExecutionState) SetLine(line int) {
	s.line = line
}

// Line returns the line of the statement being evaluated
func (s *ExecutionState) Line() int {
	return s.line
}

// Depth returns the number of frames above the global frame
func (s *ExecutionState) Depth() int {
	return s.depth
}

// PushScope enters a new frame
func (s *ExecutionState) PushScope() error {
	if s.maxDepth > 0 && s.depth >= s.maxDepth {
		return typeError(nil, "maximum call depth exceeded (%d)", s.maxDepth)
	}
	s.depth = overflow.Addp(s.depth, 1)
	s.frames = append(s.frames, newScopeFrame())
	return nil
}

// PopScope discards the innermost frame and everything bound in it
func (s *ExecutionState) PopScope() {
	if s.depth == 0 {
		panic("noodles: pop of the global scope")
	}
	s.depth = overflow.Subp(s.depth, 1)
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *ExecutionState) current() *scopeFrame {
	return s.frames[len(s.frames)-1]
}

func (s *ExecutionState) alive(v *Variable) bool {
	return !v.expiry.expired(s.line, s.clock())
}

// Declare binds name in the innermost frame, shadowing outer bindings
func (s *ExecutionState) Declare(name string, value Value, mut Mutability, life LifeTime) *Variable {
	v := &Variable{
		Name:       name,
		Value:      value,
		Mutability: mut,
		LifeTime:   life,
		Line:       s.line,
		expiry:     life.expiry(s.line, s.clock()),
	}
	s.current().vars[name] = v
	return v
}

// DeclareHoisted binds a declaration from a later line ahead of time. Its life
// time is measured from the declaring line, not the current one.
func (s *ExecutionState) DeclareHoisted(name string, value Value, mut Mutability, life LifeTime, line int) *Variable {
	v := &Variable{
		Name:       name,
		Value:      value,
		Mutability: mut,
		LifeTime:   life,
		Line:       line,
		Hoisted:    true,
		expiry:     life.expiry(line, s.clock()),
	}
	if fn, ok := value.(*FunctionValue); ok {
		fn.Hoisted = true
	}
	s.current().vars[name] = v
	return v
}

// DefineFunction binds a named function in the innermost frame
func (s *ExecutionState) DefineFunction(fn *FunctionValue) {
	s.current().funcs[fn.Name] = fn
}

// LookupVariable finds the innermost live variable called name
func (s *ExecutionState) LookupVariable(name string) (*Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].vars[name]; ok && s.alive(v) {
			return v, true
		}
	}
	return nil, false
}

// LookupFunction finds the innermost function binding called name
func (s *ExecutionState) LookupFunction(name string) (*FunctionValue, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if fn, ok := s.frames[i].funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// LookupCallable finds something that can be called as name: a function
// binding or a variable holding a function. A strict lookup gives up at the
// innermost variable of that name when it holds anything else; a loose one
// keeps searching for a function binding.
func (s *ExecutionState) LookupCallable(name string, strict bool) (*FunctionValue, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		if v, ok := frame.vars[name]; ok && s.alive(v) {
			if fn, ok := v.Value.(*FunctionValue); ok {
				return fn, true
			}
			if strict {
				return nil, false
			}
		}
		if fn, ok := frame.funcs[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// addWatch attaches a watch to the innermost frame
func (s *ExecutionState) addWatch(w *Watch) {
	frame := s.current()
	frame.watches = append(frame.watches, w)
}

// watches lists the live watches, outermost frame first
func (s *ExecutionState) watches() []*Watch {
	var out []*Watch
	for _, f := range s.frames {
		out = append(out, f.watches...)
	}
	return out
}

// Names lists every visible variable and function name, innermost first
func (s *ExecutionState) Names() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		for name, v := range s.frames[i].vars {
			if s.alive(v) {
				add(name)
			}
		}
		for name := range s.frames[i].funcs {
			add(name)
		}
	}
	return names
}
