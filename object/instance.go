package object

import (
	"fmt"

	"golox/value"
)

// Instance is a Lox class instance: a back-reference to its class plus a
// dynamically-grown field map.
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

func (*Instance) IsValue() {}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }

// Get looks up a field/method by name: fields take precedence over
// methods, and a found method is bound to this instance.
func (i *Instance) Get(name string) (value.Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

// Set assigns an instance field, creating it if absent.
func (i *Instance) Set(name string, val value.Value) {
	i.Fields[name] = val
}
