package noodles

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ValueKind enumerates the runtime value types
type ValueKind int

const (
	KindUndefined ValueKind = iota
	KindNull
	KindBoolean
	KindNumber
	KindBigInt
	KindString
	KindSymbol
	KindObject
	KindFunction
)

func (k ValueKind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	}
	return "unknown"
}

// Value is any runtime value. Scalars are copied by value; *Object and
// *FunctionValue are references shared between every binding that holds them.
type Value interface {
	Kind() ValueKind
	String() string
}

// Undefined is the value of missing properties and unset results
type Undefined struct{}

func (Undefined) Kind() ValueKind { return KindUndefined }
func (Undefined) String() string { return "undefined" }

// Null is the explicit empty value
type Null struct{}

func (Null) Kind() ValueKind { return KindNull }
func (Null) String() string { return "null" }

// Boolean is true or false
type Boolean bool

func (Boolean) Kind() ValueKind { return KindBoolean }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is a double precision float
type Number float64

func (Number) Kind() ValueKind { return KindNumber }
func (n Number) String() string { return formatNumber(float64(n)) }

// BigInt is an arbitrary precision integer. The pointer is never mutated
// after construction, so copies may share it.
type BigInt struct {
	Int *big.Int
}

func (BigInt) Kind() ValueKind { return KindBigInt }
func (b BigInt) String() string {
	if b.Int == nil {
		return "0"
	}
	return b.Int.String()
}

// NewBigInt wraps an int64
func NewBigInt(v int64) BigInt {
	return BigInt{Int: big.NewInt(v)}
}

// String is a text value
type String string

func (String) Kind() ValueKind { return KindString }
func (s String) String() string { return string(s) }

// Symbol is a unique value compared by identity
type Symbol struct {
	Description string
}

func (*Symbol) Kind() ValueKind { return KindSymbol }
func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.Description)
}

// Object is a mutable property bag shared by reference. Arrays are objects
// whose element i lives under the key str(i-1).
type Object struct {
	keys    []string
	props   map[string]Value
	isArray bool
}

// ProtoKey is the property that links an object to its prototype
const ProtoKey = "__proto__"

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{props: make(map[string]Value)}
}

// NewArray creates an array object; element i is stored under key str(i-1)
func NewArray(elements []Value) *Object {
	o := NewObject()
	o.isArray = true
	for i, v := range elements {
		o.Set(arrayKey(i), v)
	}
	return o
}

// arrayKey maps an element position to its storage key
func arrayKey(position int) string {
	return strconv.Itoa(position - 1)
}

func (*Object) Kind() ValueKind { return KindObject }

// IsArray reports whether the object was created by an array initializer
func (o *Object) IsArray() bool { return o.isArray }

// Get reads an own property
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Lookup reads a property, following the __proto__ chain until it ends at
// something that is not an object. Missing properties read as undefined.
func (o *Object) Lookup(key string) Value {
	seen := make(map[*Object]bool)
	for current := o; current != nil && !seen[current]; {
		seen[current] = true
		if v, ok := current.props[key]; ok {
			return v
		}
		proto, ok := current.props[ProtoKey].(*Object)
		if !ok {
			break
		}
		current = proto
	}
	return Undefined{}
}

// Set writes an own property, keeping first-insertion order
func (o *Object) Set(key string, v Value) {
	if _, exists := o.props[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
}

// Keys returns own property keys in insertion order
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of own properties
func (o *Object) Len() int { return len(o.keys) }

func (o *Object) String() string {
	return o.format(make(map[*Object]bool))
}

func (o *Object) format(visiting map[*Object]bool) string {
	if visiting[o] {
		return "[circular]"
	}
	visiting[o] = true
	defer delete(visiting, o)

	parts := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		v := o.props[k]
		s := displayNested(v, visiting)
		if o.isArray {
			parts = append(parts, s)
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", k, s))
		}
	}
	if o.isArray {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func displayNested(v Value, visiting map[*Object]bool) string {
	switch val := v.(type) {
	case *Object:
		return val.format(visiting)
	case String:
		return strconv.Quote(string(val))
	}
	return v.String()
}

// FunctionValue is a callable: either a native handler or user code kept as
// source text and re-parsed on each invocation. Hoisted is set when the
// function was bound ahead of the line that defines it.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    string
	BodyPos SourcePosition
	Block   bool
	Line    int
	Hoisted bool
	Native  Handler
	arity   int
}

// NewNativeFunction wraps a Go handler taking exactly arity arguments
func NewNativeFunction(name string, arity int, handler Handler) *FunctionValue {
	return &FunctionValue{Name: name, Native: handler, arity: arity}
}

func (*FunctionValue) Kind() ValueKind { return KindFunction }

// Arity is the number of arguments a call must supply
func (f *FunctionValue) Arity() int {
	if f.Native != nil {
		return f.arity
	}
	return len(f.Params)
}

func (f *FunctionValue) String() string {
	if f.Name == "" {
		return "[function]"
	}
	return fmt.Sprintf("[function %s]", f.Name)
}

// formatNumber prints numbers the way the language displays them: integers
// without a fraction, Infinity and NaN spelled out.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
