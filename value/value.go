// Package value defines the primitive Lox runtime values and the
// operations over them. Object values (functions, classes, instances)
// live in package object, which imports this package; value itself
// stays a leaf so it can be shared without import cycles.
package value

import (
	"math"
	"strconv"
)

// Value is implemented by every kind of Lox runtime value: the four
// primitives defined here, plus object.Function, object.NativeFunction,
// object.Class and object.Instance.
type Value interface {
	String() string
	IsValue()
}

// TypeError describes an operand type mismatch. The arithmetic/comparison
// helpers below do not panic with it: they report operands of the wrong
// type through their ok result, and the interpreter raises the runtime
// error.
type TypeError struct{ Message string }

func (e TypeError) Error() string { return e.Message }

type (
	Nil     struct{}
	Boolean bool
	Number  float64
	String  string
)

func (Nil) IsValue()     {}
func (Boolean) IsValue() {}
func (Number) IsValue()  {}
func (String) IsValue()  {}

func (Nil) String() string { return "nil" }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// String renders a number as its shortest round-trip decimal, with no
// trailing ".0" for integral values and "-0" for negative zero (which
// compares equal to 0 under ==, so the sign bit must be checked
// explicitly with math.Signbit).
func (n Number) String() string {
	f := float64(n)
	if f == 0 && math.Signbit(f) {
		return "-0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s String) String() string { return string(s) }

// Truthy reports whether v is true in a boolean context: nil and false
// are falsy, everything else — including 0 and "" — is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(t)
	default:
		return true
	}
}

// Equal implements strict equality: nil equals only nil, booleans/numbers
// /strings compare by value, everything else (functions, classes,
// instances) compares by identity — which for the pointer-typed object
// values is exactly what Go's == does when both operands carry the same
// dynamic type.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	default:
		return a == b
	}
}

func bothNumbers(a, b Value) (Number, Number, bool) {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	return x, y, ok1 && ok2
}

// Add implements a strict `+`: both numbers (sum) or both strings
// (concatenation); mixed operands are a type error, with no implicit
// coercion either way.
func Add(a, b Value) (Value, bool) {
	if x, y, ok := bothNumbers(a, b); ok {
		return x + y, true
	}
	if x, ok1 := a.(String); ok1 {
		if y, ok2 := b.(String); ok2 {
			return x + y, true
		}
	}
	return nil, false
}

func Sub(a, b Value) (Value, bool) {
	x, y, ok := bothNumbers(a, b)
	return x - y, ok
}

func Mul(a, b Value) (Value, bool) {
	x, y, ok := bothNumbers(a, b)
	return x * y, ok
}

// Div returns ok=false for a type error and divByZero=true for division
// by zero, so the interpreter can tell the two failure modes apart and
// report a distinct "Cannot divide by zero" message.
func Div(a, b Value) (result Value, ok bool, divByZero bool) {
	x, y, ok := bothNumbers(a, b)
	if !ok {
		return nil, false, false
	}
	if y == 0 {
		return nil, true, true
	}
	return x / y, true, false
}

func Less(a, b Value) (Value, bool) {
	x, y, ok := bothNumbers(a, b)
	return Boolean(x < y), ok
}

func Greater(a, b Value) (Value, bool) {
	x, y, ok := bothNumbers(a, b)
	return Boolean(x > y), ok
}

func Negate(a Value) (Value, bool) {
	x, ok := a.(Number)
	return -x, ok
}
