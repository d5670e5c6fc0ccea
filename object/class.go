package object

// Class is a Lox class: a name, an optional superclass, and a method
// table. Method lookup walks the superclass chain and the first hit wins.
type Class struct {
	Name       string
	Superclass *Class // nil if none
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (*Class) IsValue() {}

func (c *Class) String() string { return c.Name }

// Arity is the constructor's arity: the init method's, if one is
// defined, else zero.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// FindMethod looks up name in this class's method table, then its
// superclass chain; the first hit wins.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}
