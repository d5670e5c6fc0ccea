package object

import (
	"fmt"
	"time"

	"golox/value"
)

// NativeFunction wraps a host-implemented callable. A non-nil error from
// Fn is surfaced by the interpreter as a runtime error at the call site.
type NativeFunction struct {
	Name   string
	Arity_ int
	Fn     func(args []value.Value) (value.Value, error)
}

func (*NativeFunction) IsValue() {}

func (n *NativeFunction) String() string { return "<native fn>" }

func (n *NativeFunction) Arity() int { return n.Arity_ }

// Natives is the set of functions bound in the global environment before
// a program runs. clock is the one required by every Lox implementation;
// the rest are extras in the same spirit as getattr/setattr/isinstance.
var Natives = []*NativeFunction{
	{"clock", 0, nativeClock},
	{"str", 1, nativeStr},
	{"getattr", 2, nativeGetattr},
	{"setattr", 3, nativeSetattr},
	{"delattr", 2, nativeDelattr},
	{"isinstance", 2, nativeIsinstance},
}

func nativeClock(args []value.Value) (value.Value, error) {
	return value.Number(float64(time.Now().UnixMilli()) / 1000.0), nil
}

func nativeStr(args []value.Value) (value.Value, error) {
	return value.String(args[0].String()), nil
}

func nativeGetattr(args []value.Value) (value.Value, error) {
	instance, err := extractArg[*Instance](args[0], "getattr", "an instance")
	if err != nil {
		return nil, err
	}
	field, err := extractArg[value.String](args[1], "getattr", "a field name")
	if err != nil {
		return nil, err
	}
	if v, ok := instance.Get(string(field)); ok {
		return v, nil
	}
	return nil, fmt.Errorf("instance has no attribute named '%s'", field)
}

func nativeSetattr(args []value.Value) (value.Value, error) {
	instance, err := extractArg[*Instance](args[0], "setattr", "an instance")
	if err != nil {
		return nil, err
	}
	field, err := extractArg[value.String](args[1], "setattr", "a field name")
	if err != nil {
		return nil, err
	}
	instance.Set(string(field), args[2])
	return value.Nil{}, nil
}

func nativeDelattr(args []value.Value) (value.Value, error) {
	instance, err := extractArg[*Instance](args[0], "delattr", "an instance")
	if err != nil {
		return nil, err
	}
	field, err := extractArg[value.String](args[1], "delattr", "a field name")
	if err != nil {
		return nil, err
	}
	if _, ok := instance.Fields[string(field)]; !ok {
		return nil, fmt.Errorf("instance has no attribute named '%s'", field)
	}
	delete(instance.Fields, string(field))
	return value.Nil{}, nil
}

func nativeIsinstance(args []value.Value) (value.Value, error) {
	instance, err := extractArg[*Instance](args[0], "isinstance", "an instance")
	if err != nil {
		return nil, err
	}
	class, err := extractArg[*Class](args[1], "isinstance", "a class")
	if err != nil {
		return nil, err
	}
	for c := instance.Class; c != nil; c = c.Superclass {
		if c == class {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

func extractArg[T value.Value](arg value.Value, fn, want string) (T, error) {
	if v, ok := arg.(T); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("argument to '%s' must be %s", fn, want)
}
