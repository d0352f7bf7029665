package noodles

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ToBoolean applies the language's truthiness rules
func ToBoolean(v Value) bool {
	switch val := v.(type) {
	case Undefined, Null:
		return false
	case Boolean:
		return bool(val)
	case Number:
		f := float64(val)
		return f != 0 && !math.IsNaN(f)
	case BigInt:
		return val.Int != nil && val.Int.Sign() != 0
	case String:
		return val != ""
	}
	return true
}

// ToNumber converts a value to a float. Big integers convert exactly where
// they can; objects and functions become NaN.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case Null:
		return 0
	case Boolean:
		if val {
			return 1
		}
		return 0
	case Number:
		return float64(val)
	case BigInt:
		f, _ := new(big.Float).SetInt(val.Int).Float64()
		return f
	case String:
		s := strings.TrimSpace(string(val))
		if s == "" {
			return 0
		}
		switch s {
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// PropertyKey converts a bracket accessor value to a property key. Numbers
// become integer strings.
func PropertyKey(v Value) string {
	switch val := v.(type) {
	case Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return formatNumber(f)
		}
		return integerKey(f)
	case String:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil && f == math.Trunc(f) && !strings.ContainsAny(string(val), "eE") {
			return integerKey(f)
		}
		return string(val)
	}
	return v.String()
}

// integerKey formats the integer part of a finite float without going
// through int64, which cannot hold every float
func integerKey(f float64) string {
	t := math.Trunc(f)
	if t == 0 {
		return "0"
	}
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// TypeOf names the type of a value
func TypeOf(v Value) string {
	return v.Kind().String()
}

// StrictEquals compares type and value; objects, symbols and functions by identity
func StrictEquals(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Undefined, Null:
		return true
	case Boolean:
		return av == b.(Boolean)
	case Number:
		return float64(av) == float64(b.(Number))
	case BigInt:
		return av.Int.Cmp(b.(BigInt).Int) == 0
	case String:
		return av == b.(String)
	case *Symbol:
		return av == b.(*Symbol)
	case *Object:
		return av == b.(*Object)
	case *FunctionValue:
		return av == b.(*FunctionValue)
	}
	return false
}

// LooseEquals compares after coercion: null and undefined equal each other,
// mixed scalars compare numerically, strings compare against numbers.
func LooseEquals(a, b Value) bool {
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b)
	}
	aNullish := a.Kind() == KindNull || a.Kind() == KindUndefined
	bNullish := b.Kind() == KindNull || b.Kind() == KindUndefined
	if aNullish || bNullish {
		return aNullish && bNullish
	}
	if isReference(a) || isReference(b) {
		if isReference(a) && isReference(b) {
			return false
		}
		return a.String() == b.String()
	}
	if ab, ok := a.(BigInt); ok {
		return bigEqualsNumber(ab, ToNumber(b))
	}
	if bb, ok := b.(BigInt); ok {
		return bigEqualsNumber(bb, ToNumber(a))
	}
	return ToNumber(a) == ToNumber(b)
}

func isReference(v Value) bool {
	switch v.Kind() {
	case KindObject, KindFunction, KindSymbol:
		return true
	}
	return false
}

func bigEqualsNumber(b BigInt, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	bf, _ := new(big.Float).SetInt(b.Int).Float64()
	return bf == f
}

// UnaryOp applies a prefix operator
func UnaryOp(op UnaryOperator, v Value) (Value, error) {
	if op == UnaryNot {
		return Boolean(!ToBoolean(v)), nil
	}
	if b, ok := v.(BigInt); ok {
		return BigInt{Int: new(big.Int).Neg(b.Int)}, nil
	}
	if isReference(v) && v.Kind() != KindObject {
		return nil, typeError(nil, "cannot negate a %s", TypeOf(v))
	}
	return Number(-ToNumber(v)), nil
}

// BinaryOp applies a binary operator. && and || are handled by the
// evaluator so the right side can short-circuit.
func BinaryOp(op Operator, a, b Value) (Value, error) {
	switch op {
	case OpEqual:
		return Boolean(LooseEquals(a, b)), nil
	case OpNotEqual:
		return Boolean(!LooseEquals(a, b)), nil
	case OpStrictEqual:
		return Boolean(StrictEquals(a, b)), nil
	case OpStrictNotEqual:
		return Boolean(!StrictEquals(a, b)), nil
	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		return compareValues(op, a, b)
	case OpAnd:
		if !ToBoolean(a) {
			return a, nil
		}
		return b, nil
	case OpOr:
		if ToBoolean(a) {
			return a, nil
		}
		return b, nil
	case OpAdd:
		if a.Kind() == KindString || b.Kind() == KindString || a.Kind() == KindObject || b.Kind() == KindObject {
			return String(a.String() + b.String()), nil
		}
	}
	return arithmetic(op, a, b)
}

func arithmetic(op Operator, a, b Value) (Value, error) {
	ab, aBig := a.(BigInt)
	bb, bBig := b.(BigInt)
	if aBig || bBig {
		if !aBig || !bBig {
			return nil, typeError(nil, "cannot mix bigint and %s in %s", otherKind(a, b), op)
		}
		return bigArithmetic(op, ab.Int, bb.Int)
	}
	if a.Kind() == KindSymbol || b.Kind() == KindSymbol {
		return nil, typeError(nil, "cannot convert a symbol to a number")
	}

	x, y := ToNumber(a), ToNumber(b)
	switch op {
	case OpAdd:
		return Number(x + y), nil
	case OpSub:
		return Number(x - y), nil
	case OpMul:
		return Number(x * y), nil
	case OpDiv:
		return Number(x / y), nil
	case OpMod:
		return Number(math.Mod(x, y)), nil
	case OpPow:
		return Number(math.Pow(x, y)), nil
	}
	return nil, typeError(nil, "unsupported operator %s", op)
}

func otherKind(a, b Value) string {
	if a.Kind() == KindBigInt {
		return TypeOf(b)
	}
	return TypeOf(a)
}

func bigArithmetic(op Operator, x, y *big.Int) (Value, error) {
	r := new(big.Int)
	switch op {
	case OpAdd:
		r.Add(x, y)
	case OpSub:
		r.Sub(x, y)
	case OpMul:
		r.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return nil, typeError(nil, "bigint division by zero")
		}
		r.Quo(x, y)
	case OpMod:
		if y.Sign() == 0 {
			return nil, typeError(nil, "bigint division by zero")
		}
		r.Rem(x, y)
	case OpPow:
		if y.Sign() < 0 {
			return nil, typeError(nil, "bigint exponent must not be negative")
		}
		r.Exp(x, y, nil)
	default:
		return nil, typeError(nil, "unsupported operator %s", op)
	}
	return BigInt{Int: r}, nil
}

func compareValues(op Operator, a, b Value) (Value, error) {
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			c := strings.Compare(string(as), string(bs))
			return Boolean(orderingHolds(op, c)), nil
		}
	}
	ab, aBig := a.(BigInt)
	bb, bBig := b.(BigInt)
	if aBig && bBig {
		return Boolean(orderingHolds(op, ab.Int.Cmp(bb.Int))), nil
	}
	if a.Kind() == KindSymbol || b.Kind() == KindSymbol {
		return nil, typeError(nil, "cannot compare a symbol")
	}
	x, y := ToNumber(a), ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return Boolean(false), nil
	}
	c := 0
	if x < y {
		c = -1
	} else if x > y {
		c = 1
	}
	return Boolean(orderingHolds(op, c)), nil
}

func orderingHolds(op Operator, c int) bool {
	switch op {
	case OpLess:
		return c < 0
	case OpGreater:
		return c > 0
	case OpLessEqual:
		return c <= 0
	case OpGreaterEqual:
		return c >= 0
	}
	return false
}
